// Package pipeline sequences the extraction, audit, drafting and rendering
// stages per user action and hands their results to the record store.
// Stage failures are never retried here; on a fatal error nothing already
// persisted is overwritten.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/offerdesk/internal/audit"
	"github.com/MikeSquared-Agency/offerdesk/internal/extractor"
	"github.com/MikeSquared-Agency/offerdesk/internal/hermes"
	"github.com/MikeSquared-Agency/offerdesk/internal/knowledge"
	"github.com/MikeSquared-Agency/offerdesk/internal/llm"
	"github.com/MikeSquared-Agency/offerdesk/internal/offer"
	"github.com/MikeSquared-Agency/offerdesk/internal/render"
	"github.com/MikeSquared-Agency/offerdesk/internal/store"
	"github.com/MikeSquared-Agency/offerdesk/internal/webhook"
)

// ErrPrecondition marks caller mistakes rejected before any stage runs.
var ErrPrecondition = errors.New("precondition failed")

var (
	ErrEmptyRequest = fmt.Errorf("%w: client request is empty", ErrPrecondition)
	ErrEmptyInput   = fmt.Errorf("%w: input is empty", ErrPrecondition)
)

// Notifier delivers a confirmed offer to the outbound sink.
type Notifier interface {
	Send(ctx context.Context, p webhook.Payload) error
}

// Deps are the collaborators of a Pipeline. Events, Clock and the tuning
// fields are optional.
type Deps struct {
	Store      store.Store
	Generator  llm.Generator
	Frameworks *knowledge.Frameworks
	Events     hermes.Publisher
	Notifier   Notifier
	Logger     *slog.Logger

	Clock             audit.Clock
	AuditDebounce     time.Duration
	ImportConcurrency int
}

type Pipeline struct {
	store     store.Store
	extractor *extractor.Extractor
	auditor   *audit.Auditor
	drafter   *offer.Drafter
	renderer  *render.Renderer
	events    hermes.Publisher
	notifier  Notifier
	logger    *slog.Logger

	ctx         context.Context
	clock       audit.Clock
	debounce    time.Duration
	concurrency int

	mu       sync.Mutex
	watchers map[uuid.UUID]*audit.Watcher
}

// New wires the stages around one generator. ctx bounds background work
// (debounced audits, inbound requests).
func New(ctx context.Context, d Deps) *Pipeline {
	if d.Frameworks == nil {
		d.Frameworks = knowledge.DefaultFrameworks()
	}
	if d.Events == nil {
		d.Events = hermes.Nop{}
	}
	if d.Clock == nil {
		d.Clock = audit.RealClock
	}
	if d.AuditDebounce <= 0 {
		d.AuditDebounce = audit.DefaultDebounce
	}
	if d.ImportConcurrency <= 0 {
		d.ImportConcurrency = 1
	}
	return &Pipeline{
		store:       d.Store,
		extractor:   extractor.New(d.Generator, d.Frameworks, d.Logger),
		auditor:     audit.NewAuditor(d.Generator, d.Frameworks, d.Logger),
		drafter:     offer.NewDrafter(d.Generator, d.Frameworks, d.Logger),
		renderer:    render.NewRenderer(d.Generator, d.Logger),
		events:      d.Events,
		notifier:    d.Notifier,
		logger:      d.Logger,
		ctx:         ctx,
		clock:       d.Clock,
		debounce:    d.AuditDebounce,
		concurrency: d.ImportConcurrency,
		watchers:    make(map[uuid.UUID]*audit.Watcher),
	}
}

// Close stops every background audit watcher.
func (p *Pipeline) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for id, w := range p.watchers {
		w.Close()
		delete(p.watchers, id)
	}
}

func (p *Pipeline) publish(subject string, data any) {
	if err := p.events.Publish(subject, data); err != nil {
		p.logger.Error("failed to publish event", "subject", subject, "error", err)
	}
}
