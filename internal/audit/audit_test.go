package audit

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/MikeSquared-Agency/offerdesk/internal/knowledge"
	"github.com/MikeSquared-Agency/offerdesk/internal/llm"
	"github.com/MikeSquared-Agency/offerdesk/internal/llm/llmtest"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newAuditor(gen llm.Generator) *Auditor {
	return NewAuditor(gen, knowledge.DefaultFrameworks(), discardLogger())
}

func TestAuditGaps_FastPathVideo(t *testing.T) {
	fake := llmtest.New()
	a := newAuditor(fake)

	got, err := a.AuditGaps(context.Background(), nil, "Video services")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{
		"List your Core Services (e.g., 'UGC Ads', 'Event Coverage')",
		"Define your Base Pricing (e.g., 'Starting at $500')",
		"State your Standard Turnaround Time (e.g., '5-7 business days')",
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d starter items, got %v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("starter[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if fake.CallCount() != 0 {
		t.Errorf("fast path must not call the backend, got %d calls", fake.CallCount())
	}
}

func TestAuditGaps_FastPathGeneralAndBlankFacts(t *testing.T) {
	fake := llmtest.New()
	a := newAuditor(fake)

	got, err := a.AuditGaps(context.Background(), []string{"  ", ""}, "Bakery")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0] != "Start by adding your Core Services and Base Prices." {
		t.Errorf("unexpected general starter: %v", got)
	}
	if fake.CallCount() != 0 {
		t.Errorf("expected zero calls, got %d", fake.CallCount())
	}
}

func TestAuditGaps_CapsAndFilters(t *testing.T) {
	fake := llmtest.New(`["Define your rush fees", "Base price $500", "List payment terms", "define your rush fees", "Add a case study", "State capacity limits", "Describe revisions policy", "Set deposit rules"]`)
	a := newAuditor(fake)

	got, err := a.AuditGaps(context.Background(), []string{"Base price $500"}, "Video services")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != MaxSuggestions {
		t.Fatalf("expected %d suggestions, got %v", MaxSuggestions, got)
	}
	for _, s := range got {
		if s == "Base price $500" {
			t.Error("suggestion repeating an existing fact must be dropped")
		}
	}
	if got[0] != "Define your rush fees" || got[1] != "List payment terms" {
		t.Errorf("unexpected order: %v", got)
	}

	req := fake.Last()
	if !strings.Contains(req.User, "- Base price $500") {
		t.Errorf("expected facts in user prompt, got %q", req.User)
	}
	if !strings.Contains(req.System, "Services & Deliverables") {
		t.Error("expected the video framework in the audit prompt")
	}
}

func TestAuditGaps_MalformedIsEmpty(t *testing.T) {
	a := newAuditor(llmtest.New("You should add pricing."))
	got, err := a.AuditGaps(context.Background(), []string{"Base price $500"}, "Video services")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty suggestions, got %v", got)
	}
}

func TestAuditGaps_TransportErrorPropagates(t *testing.T) {
	a := newAuditor(llmtest.Failing(&llm.TransportError{StatusCode: 500, Message: "boom"}))
	_, err := a.AuditGaps(context.Background(), []string{"Base price $500"}, "Video services")
	if !llm.IsTransport(err) {
		t.Fatalf("expected transport error, got %v", err)
	}
}

func TestDebouncer_FiresOnceAfterLastTrigger(t *testing.T) {
	clock := NewManualClock()
	calls := 0
	d := NewDebouncer(clock, DefaultDebounce, func() { calls++ })

	d.Trigger()
	clock.Advance(400 * time.Millisecond)
	d.Trigger()
	clock.Advance(400 * time.Millisecond)
	d.Trigger()

	clock.Advance(1499 * time.Millisecond)
	if calls != 0 {
		t.Fatalf("fired early: %d calls", calls)
	}
	clock.Advance(time.Millisecond)
	if calls != 1 {
		t.Fatalf("expected exactly 1 call 1.5s after the last trigger, got %d", calls)
	}
	clock.Advance(10 * time.Second)
	if calls != 1 {
		t.Fatalf("expected no further calls, got %d", calls)
	}
}

func TestDebouncer_Cancel(t *testing.T) {
	clock := NewManualClock()
	calls := 0
	d := NewDebouncer(clock, time.Second, func() { calls++ })

	if d.Cancel() {
		t.Error("Cancel with nothing pending should report false")
	}
	d.Trigger()
	if !d.Cancel() {
		t.Error("Cancel should report the pending run")
	}
	clock.Advance(5 * time.Second)
	if calls != 0 {
		t.Errorf("cancelled run fired %d times", calls)
	}
	if clock.Pending() != 0 {
		t.Errorf("expected no pending timers, got %d", clock.Pending())
	}
}

func TestWatcher_ThreeTriggersOneCall(t *testing.T) {
	clock := NewManualClock()
	fake := llmtest.New(`["Define your rush fees"]`)
	w := NewWatcher(context.Background(), newAuditor(fake), clock, DefaultDebounce, discardLogger())

	facts := []string{"Base price $500"}
	w.Trigger(facts, "Video services")
	clock.Advance(300 * time.Millisecond)
	w.Trigger(facts, "Video services")
	clock.Advance(300 * time.Millisecond)
	w.Trigger(append(facts, "Turnaround 5-7 days"), "Video services")
	start := clock.Now()

	if !w.Snapshot().Pending {
		t.Error("expected pending snapshot while waiting")
	}

	clock.Advance(1499 * time.Millisecond)
	if fake.CallCount() != 0 {
		t.Fatalf("expected no call before the idle window ends, got %d", fake.CallCount())
	}
	clock.Advance(time.Millisecond)
	if fake.CallCount() != 1 {
		t.Fatalf("expected exactly 1 backend call, got %d", fake.CallCount())
	}

	snap := w.Snapshot()
	if snap.UpdatedAt.Sub(start) != DefaultDebounce {
		t.Errorf("expected run 1.5s after last trigger, got %v", snap.UpdatedAt.Sub(start))
	}
	if len(snap.Suggestions) != 1 || snap.Suggestions[0] != "Define your rush fees" || snap.Pending {
		t.Errorf("unexpected snapshot: %+v", snap)
	}
	if !strings.Contains(fake.Last().User, "Turnaround 5-7 days") {
		t.Error("the run must use the most recent input")
	}
}

func TestWatcher_DropsSupersededResult(t *testing.T) {
	clock := NewManualClock()
	fake := llmtest.New(`["stale suggestion"]`, `["fresh suggestion"]`)

	started := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	fake.Hook = func(ctx context.Context, req llm.Request) {
		first := false
		once.Do(func() { first = true })
		if first {
			close(started)
			<-release
		}
	}

	w := NewWatcher(context.Background(), newAuditor(fake), clock, DefaultDebounce, discardLogger())

	var mu sync.Mutex
	var updates []Snapshot
	w.OnUpdate(func(s Snapshot) {
		mu.Lock()
		defer mu.Unlock()
		updates = append(updates, s)
	})

	w.Trigger([]string{"Base price $500"}, "Video services")
	firstDone := make(chan struct{})
	go func() {
		clock.Advance(DefaultDebounce)
		close(firstDone)
	}()
	<-started

	// A newer edit arrives while the first audit is still in flight.
	w.Trigger([]string{"Base price $500", "Rush fee +30%"}, "Video services")
	close(release)
	<-firstDone

	clock.Advance(DefaultDebounce)

	mu.Lock()
	defer mu.Unlock()
	if len(updates) != 1 {
		t.Fatalf("expected exactly 1 accepted update, got %d: %+v", len(updates), updates)
	}
	if got := updates[0].Suggestions; len(got) != 1 || got[0] != "fresh suggestion" {
		t.Errorf("expected fresh suggestions, got %v", got)
	}
	if got := w.Snapshot().Suggestions; got[0] != "fresh suggestion" {
		t.Errorf("snapshot holds %v", got)
	}
}

func TestWatcher_FailureKeepsPreviousSuggestions(t *testing.T) {
	clock := NewManualClock()
	fake := llmtest.New(`["Define your rush fees"]`)
	fake.Push(llmtest.Reply{Err: errors.New("connection reset")})
	w := NewWatcher(context.Background(), newAuditor(fake), clock, time.Second, discardLogger())

	w.Trigger([]string{"Base price $500"}, "Video services")
	clock.Advance(time.Second)
	w.Trigger([]string{"Base price $500", "x"}, "Video services")
	clock.Advance(time.Second)

	snap := w.Snapshot()
	if snap.Err == "" {
		t.Error("expected error to be recorded")
	}
	if len(snap.Suggestions) != 1 || snap.Suggestions[0] != "Define your rush fees" {
		t.Errorf("previous suggestions must survive a failed run, got %v", snap.Suggestions)
	}
}

func TestWatcher_EmptyFactsUsesFastPath(t *testing.T) {
	clock := NewManualClock()
	fake := llmtest.New()
	w := NewWatcher(context.Background(), newAuditor(fake), clock, DefaultDebounce, discardLogger())

	w.Trigger(nil, "Video services")
	clock.Advance(DefaultDebounce)

	if fake.CallCount() != 0 {
		t.Errorf("expected zero calls, got %d", fake.CallCount())
	}
	if len(w.Snapshot().Suggestions) != 3 {
		t.Errorf("expected starter list, got %v", w.Snapshot().Suggestions)
	}
}

func TestWatcher_Close(t *testing.T) {
	clock := NewManualClock()
	fake := llmtest.New(`["x"]`)
	w := NewWatcher(context.Background(), newAuditor(fake), clock, DefaultDebounce, discardLogger())

	w.Trigger([]string{"Base price $500"}, "Video services")
	w.Close()
	clock.Advance(time.Minute)
	if fake.CallCount() != 0 {
		t.Errorf("closed watcher ran %d audits", fake.CallCount())
	}
}
