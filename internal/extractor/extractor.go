// Package extractor turns free text into knowledge-base entries: atomic facts
// and formatted proof points.
package extractor

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/MikeSquared-Agency/offerdesk/internal/knowledge"
	"github.com/MikeSquared-Agency/offerdesk/internal/llm"
	"github.com/MikeSquared-Agency/offerdesk/internal/parse"
)

// Extractor runs the fact and case-study extraction stages.
type Extractor struct {
	gen        llm.Generator
	frameworks *knowledge.Frameworks
	logger     *slog.Logger
}

func New(gen llm.Generator, frameworks *knowledge.Frameworks, logger *slog.Logger) *Extractor {
	return &Extractor{gen: gen, frameworks: frameworks, logger: logger}
}

// ExtractFacts returns standalone facts found in text. When the industry has
// a dedicated framework the prompt is steered by its checklist. Malformed
// output yields an empty result; backend failures are returned.
func (e *Extractor) ExtractFacts(ctx context.Context, text, industry string) ([]string, error) {
	system := factsSystemPrompt
	if f, ok := e.frameworks.Lookup(industry); ok {
		system = fmt.Sprintf(verticalFactsSystemPrompt, f.Industry, f.Describe())
	}
	return e.extract(ctx, "facts", system, text)
}

// ExtractCaseStudies returns proof points in the
// "Client: what - result (link)" form. Same fallback policy as ExtractFacts.
func (e *Extractor) ExtractCaseStudies(ctx context.Context, text string) ([]string, error) {
	return e.extract(ctx, "case_studies", caseStudiesSystemPrompt, text)
}

func (e *Extractor) extract(ctx context.Context, stage, system, text string) ([]string, error) {
	if strings.TrimSpace(text) == "" {
		return []string{}, nil
	}

	e.logger.Info("extracting", "stage", stage, "text_len", len(text))

	raw, err := e.gen.Generate(ctx, llm.Request{
		System:     system,
		User:       fmt.Sprintf(extractUserPrompt, text),
		Structured: true,
		Schema:     llm.StringList(),
	})
	if err != nil {
		return nil, fmt.Errorf("%s extraction: %w", stage, err)
	}

	items, err := parse.ParseList(raw)
	if err != nil {
		e.logger.Warn("discarding malformed extraction output",
			"stage", stage,
			"error", err,
			"raw", llm.Truncate(raw, 200),
		)
		return []string{}, nil
	}

	e.logger.Info("extraction complete", "stage", stage, "items", len(items))
	return items, nil
}
