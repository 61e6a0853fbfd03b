package audit

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Snapshot is the latest audit result for one profile. Suggestions always
// belong to the most recent input; a failed run keeps the previous ones and
// sets Err.
type Snapshot struct {
	Suggestions []string  `json:"suggestions"`
	Generation  uint64    `json:"generation"`
	Err         string    `json:"error,omitempty"`
	Pending     bool      `json:"pending"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Watcher re-audits a profile after each idle window following a change.
// Only the newest input's result is kept; a run superseded by a later
// Trigger has its context cancelled and its result discarded.
type Watcher struct {
	auditor   *Auditor
	clock     Clock
	debouncer *Debouncer
	logger    *slog.Logger
	ctx       context.Context

	mu       sync.Mutex
	gen      uint64
	facts    []string
	industry string
	cancel   context.CancelFunc
	current  Snapshot
	onUpdate func(Snapshot)
}

// NewWatcher builds a watcher whose runs derive from ctx; cancelling ctx
// stops in-flight runs.
func NewWatcher(ctx context.Context, auditor *Auditor, clock Clock, delay time.Duration, logger *slog.Logger) *Watcher {
	if clock == nil {
		clock = RealClock
	}
	w := &Watcher{
		auditor: auditor,
		clock:   clock,
		logger:  logger,
		ctx:     ctx,
		current: Snapshot{Suggestions: []string{}},
	}
	w.debouncer = NewDebouncer(clock, delay, w.run)
	return w
}

// OnUpdate registers a callback invoked after each accepted result.
func (w *Watcher) OnUpdate(f func(Snapshot)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onUpdate = f
}

// Trigger records a new facts/industry input and restarts the idle window.
func (w *Watcher) Trigger(facts []string, industry string) {
	w.mu.Lock()
	w.gen++
	w.facts = append([]string{}, facts...)
	w.industry = industry
	w.current.Pending = true
	if w.cancel != nil {
		w.cancel()
		w.cancel = nil
	}
	w.mu.Unlock()

	w.debouncer.Trigger()
}

// Snapshot returns the current suggestions.
func (w *Watcher) Snapshot() Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	s := w.current
	s.Suggestions = append([]string{}, s.Suggestions...)
	return s
}

// Close cancels any pending or in-flight run.
func (w *Watcher) Close() {
	w.debouncer.Cancel()
	w.mu.Lock()
	defer w.mu.Unlock()
	w.gen++
	if w.cancel != nil {
		w.cancel()
		w.cancel = nil
	}
}

func (w *Watcher) run() {
	w.mu.Lock()
	gen := w.gen
	facts := w.facts
	industry := w.industry
	ctx, cancel := context.WithCancel(w.ctx)
	w.cancel = cancel
	w.mu.Unlock()
	defer cancel()

	suggestions, err := w.auditor.AuditGaps(ctx, facts, industry)

	w.mu.Lock()
	if gen != w.gen {
		w.mu.Unlock()
		w.logger.Debug("dropping superseded audit result", "generation", gen)
		return
	}
	w.cancel = nil
	w.current.Generation = gen
	w.current.Pending = false
	w.current.UpdatedAt = w.clock.Now()
	if err != nil {
		w.current.Err = err.Error()
		w.logger.Warn("background audit failed", "error", err, "generation", gen)
	} else {
		w.current.Err = ""
		w.current.Suggestions = suggestions
	}
	snap := w.current
	snap.Suggestions = append([]string{}, snap.Suggestions...)
	cb := w.onUpdate
	w.mu.Unlock()

	if cb != nil {
		cb(snap)
	}
}
