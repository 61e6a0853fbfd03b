// Package offer drafts client-facing sales offers from a knowledge profile
// and validates the generator's answer against a fixed record contract.
package offer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/MikeSquared-Agency/offerdesk/internal/markup"
)

// Status is the drafting stage's readiness verdict.
type Status string

const (
	StatusReady     Status = "ready"
	StatusNeedsInfo Status = "needs_info"
)

// MaxQuestions bounds the clarifying questions on a needs_info draft.
const MaxQuestions = 3

// Flag records a post-generation check the draft failed.
type Flag struct {
	Kind     string `json:"kind"`
	Term     string `json:"term"`
	Evidence string `json:"evidence"`
}

// FlagServiceBoundary marks a commitment to a service absent from the facts.
const FlagServiceBoundary = "service_boundary"

// Draft is one generated offer. RenderedDocument is set only by the render
// stage and cleared by any body edit.
type Draft struct {
	Status           Status   `json:"status"`
	Subject          string   `json:"emailSubject"`
	Body             string   `json:"emailBody"`
	Questions        []string `json:"missingClientInfo"`
	Rationale        string   `json:"rationale"`
	RenderedDocument string   `json:"htmlContent,omitempty"`
	Flags            []Flag   `json:"flags,omitempty"`
}

// Rendered reports whether a current rendered document exists.
func (d *Draft) Rendered() bool { return d.RenderedDocument != "" }

// EditBody replaces the body after a manual edit. The body is normalized
// like generated output. The rendered document and the boundary flags
// describe the old body and are cleared; Drafter.CheckBoundary recomputes
// the flags.
func (d *Draft) EditBody(body string) error {
	clean, err := normalizeBody(body)
	if err != nil {
		return fmt.Errorf("offer body: %w", err)
	}
	if strings.TrimSpace(markup.Text(clean)) == "" {
		return errors.New("offer body must not be empty")
	}
	d.Body = clean
	d.RenderedDocument = ""
	d.Flags = nil
	return nil
}

// SetRendered stores the output of the render stage.
func (d *Draft) SetRendered(doc string) {
	d.RenderedDocument = doc
}

// Clone returns a deep copy.
func (d *Draft) Clone() *Draft {
	c := *d
	c.Questions = append([]string{}, d.Questions...)
	c.Flags = append([]Flag(nil), d.Flags...)
	return &c
}

// ErrOfferGeneration matches every GenerationError via errors.Is.
var ErrOfferGeneration = errors.New("offer generation failed")

// GenerationError is a drafting failure with no safe default: malformed or
// contract-violating output.
type GenerationError struct {
	Reason string
	Err    error
}

func (e *GenerationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("offer generation: %s: %v", e.Reason, e.Err)
	}
	return "offer generation: " + e.Reason
}

func (e *GenerationError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrOfferGeneration}
	}
	return []error{ErrOfferGeneration, e.Err}
}
