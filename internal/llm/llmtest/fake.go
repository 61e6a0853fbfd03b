// Package llmtest provides a scripted Generator for stage tests.
package llmtest

import (
	"context"
	"errors"
	"sync"

	"github.com/MikeSquared-Agency/offerdesk/internal/llm"
)

// Reply is one scripted answer: either Text or Err.
type Reply struct {
	Text string
	Err  error
}

// Fake returns queued replies in order and records every request. When the
// queue is exhausted it falls back to Default (or an error if unset).
type Fake struct {
	mu      sync.Mutex
	replies []Reply
	calls   []llm.Request

	Default *Reply
	// Hook runs before a reply is returned; tests use it to block or observe.
	Hook func(ctx context.Context, req llm.Request)
}

// New builds a Fake that answers with texts in order.
func New(texts ...string) *Fake {
	f := &Fake{}
	for _, t := range texts {
		f.replies = append(f.replies, Reply{Text: t})
	}
	return f
}

// Failing builds a Fake whose every call fails with err.
func Failing(err error) *Fake {
	return &Fake{Default: &Reply{Err: err}}
}

// Push queues more replies.
func (f *Fake) Push(r ...Reply) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replies = append(f.replies, r...)
}

func (f *Fake) Generate(ctx context.Context, req llm.Request) (string, error) {
	if f.Hook != nil {
		f.Hook(ctx, req)
	}

	f.mu.Lock()
	f.calls = append(f.calls, req)
	var r Reply
	switch {
	case len(f.replies) > 0:
		r = f.replies[0]
		f.replies = f.replies[1:]
	case f.Default != nil:
		r = *f.Default
	default:
		r = Reply{Err: errors.New("llmtest: no scripted reply")}
	}
	f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}
	return r.Text, r.Err
}

// Calls returns a copy of the recorded requests.
func (f *Fake) Calls() []llm.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]llm.Request, len(f.calls))
	copy(out, f.calls)
	return out
}

// CallCount returns how many times Generate was invoked.
func (f *Fake) CallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// Last returns the most recent request.
func (f *Fake) Last() llm.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.calls) == 0 {
		return llm.Request{}
	}
	return f.calls[len(f.calls)-1]
}
