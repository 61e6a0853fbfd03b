package pipeline

import (
	"context"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/offerdesk/internal/audit"
)

// Audit runs the gap analysis for a profile right now.
func (p *Pipeline) Audit(ctx context.Context, profileID uuid.UUID) ([]string, error) {
	prof, err := p.store.GetProfile(ctx, profileID)
	if err != nil {
		return nil, err
	}
	return p.auditor.AuditGaps(ctx, prof.Facts, prof.Industry)
}

// Watch returns the debounced audit watcher for a profile, creating it on
// first use. Every profile save triggers it.
func (p *Pipeline) Watch(profileID uuid.UUID) *audit.Watcher {
	p.mu.Lock()
	defer p.mu.Unlock()

	w, ok := p.watchers[profileID]
	if !ok {
		w = audit.NewWatcher(p.ctx, p.auditor, p.clock, p.debounce, p.logger.With("profile_id", profileID))
		p.watchers[profileID] = w
	}
	return w
}

// Suggestions returns the latest background audit result for a profile.
func (p *Pipeline) Suggestions(profileID uuid.UUID) audit.Snapshot {
	return p.Watch(profileID).Snapshot()
}
