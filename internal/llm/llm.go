// Package llm defines the single seam between the offer pipeline and a
// text-generation backend. Providers live in their own packages and only
// translate a Request into one network call.
package llm

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"
)

// DefaultMaxTokens bounds a single generation when the caller does not say.
const DefaultMaxTokens = 4096

// Generator turns system instructions plus user content into raw text.
// Implementations hold no per-call state and are safe for concurrent use.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// Request is one generation call.
type Request struct {
	System     string
	User       string
	Structured bool    // caller expects JSON back
	Schema     *Schema // optional output shape; only meaningful when Structured
	MaxTokens  int
}

// Tokens returns the token budget, falling back to DefaultMaxTokens.
func (r Request) Tokens() int {
	if r.MaxTokens > 0 {
		return r.MaxTokens
	}
	return DefaultMaxTokens
}

// ErrAuth is returned when no credential is configured for the backend.
var ErrAuth = errors.New("generation backend: missing or invalid credential")

// ErrEmptyResponse is returned when the backend answered without any text.
var ErrEmptyResponse = errors.New("generation backend: empty response")

// TransportError is a network failure or a non-success backend response.
type TransportError struct {
	StatusCode int // 0 when the request never got a response
	Message    string
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("generation backend transport: %s", e.Message)
	}
	return fmt.Sprintf("generation backend status %d: %s", e.StatusCode, e.Message)
}

func (e *TransportError) Unwrap() error { return e.Err }

// IsAuth reports whether err is an authentication failure.
func IsAuth(err error) bool { return errors.Is(err, ErrAuth) }

// IsTransport reports whether err is a transport failure.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// Truncate shortens s to at most n bytes for log lines and error messages,
// cutting on a rune boundary.
func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
