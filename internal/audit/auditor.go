// Package audit compares a profile's facts against its industry framework
// and suggests what is missing. It also owns the debounced background
// trigger that keeps suggestions current while the profile is edited.
package audit

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/MikeSquared-Agency/offerdesk/internal/knowledge"
	"github.com/MikeSquared-Agency/offerdesk/internal/llm"
	"github.com/MikeSquared-Agency/offerdesk/internal/parse"
)

// MaxSuggestions caps one audit answer.
const MaxSuggestions = 5

const auditSystemPrompt = `You are a Strategic Auditor for a %s business.

Target Framework:
%s
Task:
Compare the Current Knowledge Base against the Target Framework.
Identify the top 3-5 most critical missing pieces of information that are necessary to generate accurate sales offers.

Output:
A JSON array of strings. Each string must be a specific, actionable suggestion starting with a verb (e.g., "Define your rush delivery fees", "List your payment terms for new clients").
Do NOT suggest things that are already present in the knowledge base.
If the profile is very strong, suggest 1 advanced tip (e.g., "Add a specific case study for X").`

const auditUserPrompt = `Current Knowledge Base (Facts provided so far):
%s`

// Auditor runs the gap analysis stage.
type Auditor struct {
	gen        llm.Generator
	frameworks *knowledge.Frameworks
	logger     *slog.Logger
}

func NewAuditor(gen llm.Generator, frameworks *knowledge.Frameworks, logger *slog.Logger) *Auditor {
	return &Auditor{gen: gen, frameworks: frameworks, logger: logger}
}

// AuditGaps returns up to MaxSuggestions prioritized suggestions. An empty
// fact list returns the industry's starter checklist without calling the
// backend. Malformed output yields an empty result.
func (a *Auditor) AuditGaps(ctx context.Context, facts []string, industry string) ([]string, error) {
	facts = nonBlank(facts)
	if len(facts) == 0 {
		return a.frameworks.Starter(industry), nil
	}

	f := a.frameworks.For(industry)
	label := strings.TrimSpace(industry)
	if label == "" {
		label = f.Industry
	}

	var list strings.Builder
	for _, fact := range facts {
		list.WriteString("- " + fact + "\n")
	}

	raw, err := a.gen.Generate(ctx, llm.Request{
		System:     fmt.Sprintf(auditSystemPrompt, label, f.Describe()),
		User:       fmt.Sprintf(auditUserPrompt, list.String()),
		Structured: true,
		Schema:     llm.StringList(),
	})
	if err != nil {
		return nil, fmt.Errorf("knowledge audit: %w", err)
	}

	items, err := parse.ParseList(raw)
	if err != nil {
		a.logger.Warn("discarding malformed audit output", "error", err, "raw", llm.Truncate(raw, 200))
		return []string{}, nil
	}

	out := filterSuggestions(items, facts)
	a.logger.Info("audit complete", "industry", label, "facts", len(facts), "suggestions", len(out))
	return out, nil
}

// filterSuggestions drops repeats of existing facts and of each other, then
// caps the list.
func filterSuggestions(items, facts []string) []string {
	seen := make(map[string]bool, len(items)+len(facts))
	for _, f := range facts {
		seen[strings.ToLower(f)] = true
	}
	out := make([]string, 0, MaxSuggestions)
	for _, it := range items {
		key := strings.ToLower(it)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, it)
		if len(out) == MaxSuggestions {
			break
		}
	}
	return out
}

func nonBlank(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
