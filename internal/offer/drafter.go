package offer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/MikeSquared-Agency/offerdesk/internal/knowledge"
	"github.com/MikeSquared-Agency/offerdesk/internal/llm"
	"github.com/MikeSquared-Agency/offerdesk/internal/markup"
	"github.com/MikeSquared-Agency/offerdesk/internal/parse"
)

var offerFields = []parse.Field{
	{Name: "status", Kind: parse.KindString},
	{Name: "emailSubject", Kind: parse.KindString},
	{Name: "emailBody", Kind: parse.KindString},
	{Name: "missingClientInfo", Kind: parse.KindStringList},
	{Name: "rationale", Kind: parse.KindString},
}

// Drafter runs the offer drafting stage.
type Drafter struct {
	gen        llm.Generator
	frameworks *knowledge.Frameworks
	logger     *slog.Logger
}

func NewDrafter(gen llm.Generator, frameworks *knowledge.Frameworks, logger *slog.Logger) *Drafter {
	return &Drafter{gen: gen, frameworks: frameworks, logger: logger}
}

// Draft makes one generation call and validates the answer. Backend errors
// are returned as-is; malformed or contract-violating output is a
// GenerationError. The caller must reject a blank client request first.
func (d *Drafter) Draft(ctx context.Context, profile *knowledge.Profile, clientRequest string, sections SectionConfig) (*Draft, error) {
	d.logger.Info("drafting offer",
		"profile_id", profile.ID,
		"facts", len(profile.Facts),
		"proof_points", len(profile.ProofPoints),
		"style_examples", len(profile.StyleExamples),
		"request_len", len(clientRequest),
	)

	raw, err := d.gen.Generate(ctx, llm.Request{
		System:     buildSystemPrompt(profile, sections),
		User:       buildUserPrompt(clientRequest),
		Structured: true,
		Schema:     offerSchema,
		MaxTokens:  8192,
	})
	if err != nil {
		return nil, fmt.Errorf("draft offer: %w", err)
	}

	rec, err := parse.ParseRecord(raw, offerFields)
	if err != nil {
		d.logger.Error("malformed offer output", "error", err, "raw", llm.Truncate(raw, 300))
		return nil, &GenerationError{Reason: "malformed output", Err: err}
	}

	draft, err := d.validate(rec)
	if err != nil {
		d.logger.Error("offer output violates contract", "error", err, "raw", llm.Truncate(raw, 300))
		return nil, err
	}

	d.CheckBoundary(draft, profile)

	d.logger.Info("offer drafted",
		"profile_id", profile.ID,
		"status", draft.Status,
		"questions", len(draft.Questions),
		"flags", len(draft.Flags),
	)
	return draft, nil
}

// CheckBoundary sets draft.Flags to the services the body commits to that
// no fact in profile offers.
func (d *Drafter) CheckBoundary(draft *Draft, profile *knowledge.Profile) {
	vocabulary := d.frameworks.For(profile.Industry).Services
	draft.Flags = checkBoundary(draft.Body, profile.Facts, vocabulary)
	for _, f := range draft.Flags {
		d.logger.Warn("offer commits to a service missing from facts",
			"profile_id", profile.ID,
			"term", f.Term,
			"evidence", llm.Truncate(f.Evidence, 200),
		)
	}
}

func (d *Drafter) validate(rec parse.Record) (*Draft, error) {
	draft := &Draft{
		Status:    Status(strings.TrimSpace(rec.String("status"))),
		Subject:   strings.TrimSpace(rec.String("emailSubject")),
		Questions: rec.List("missingClientInfo"),
		Rationale: strings.TrimSpace(rec.String("rationale")),
	}

	switch draft.Status {
	case StatusReady, StatusNeedsInfo:
	default:
		return nil, &GenerationError{Reason: fmt.Sprintf("unknown status %q", draft.Status)}
	}
	if draft.Subject == "" {
		return nil, &GenerationError{Reason: "empty email subject"}
	}

	body, err := normalizeBody(rec.String("emailBody"))
	if err != nil {
		return nil, &GenerationError{Reason: "unusable email body", Err: err}
	}
	if body == "" {
		return nil, &GenerationError{Reason: "empty email body"}
	}
	draft.Body = body

	// A ready draft that still asks questions is not ready.
	if draft.Status == StatusReady && len(draft.Questions) > 0 {
		d.logger.Warn("ready draft carried questions, downgrading to needs_info", "questions", len(draft.Questions))
		draft.Status = StatusNeedsInfo
	}
	if draft.Status == StatusNeedsInfo {
		if len(draft.Questions) == 0 {
			return nil, &GenerationError{Reason: "needs_info draft without clarifying questions"}
		}
		if len(draft.Questions) > MaxQuestions {
			d.logger.Warn("truncating clarifying questions", "got", len(draft.Questions), "max", MaxQuestions)
			draft.Questions = draft.Questions[:MaxQuestions]
		}
	}
	return draft, nil
}

// normalizeBody converts a Markdown body to HTML and reduces it to the
// semantic subset.
func normalizeBody(body string) (string, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return "", nil
	}
	if !markup.LooksLikeHTML(body) {
		converted, err := markup.ToHTML(body)
		if err != nil {
			return "", err
		}
		body = converted
	}
	return markup.Sanitize(body)
}
