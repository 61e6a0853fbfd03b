// Package render restyles an accepted offer draft into a self-contained
// branded HTML document without changing its wording.
package render

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/MikeSquared-Agency/offerdesk/internal/knowledge"
	"github.com/MikeSquared-Agency/offerdesk/internal/llm"
	"github.com/MikeSquared-Agency/offerdesk/internal/markup"
	"github.com/MikeSquared-Agency/offerdesk/internal/offer"
	"github.com/MikeSquared-Agency/offerdesk/internal/parse"
)

// ErrContentDrift means the rendered document lost or changed wording.
var ErrContentDrift = errors.New("rendered document does not preserve the draft's wording")

const systemPrompt = `You are an Expert Email Developer.
Convert the email below into a responsive, self-contained HTML email document.

Brand Color: %s
Font: %s%s

RULES:
- Preserve ALL wording exactly: same words, same order, same headings, lists and emphasis. Change presentation only.
- Show the subject as the document's main heading.
- Use inline styles and table-based layout for email clients. No external CSS or JavaScript.
- Return ONLY raw HTML.`

// Renderer runs the style rendering stage.
type Renderer struct {
	gen    llm.Generator
	logger *slog.Logger
}

func NewRenderer(gen llm.Generator, logger *slog.Logger) *Renderer {
	return &Renderer{gen: gen, logger: logger}
}

// Render returns the branded document for draft. Every failure is fatal:
// backend errors pass through, an empty answer is a MalformedOutputError and
// reworded output is ErrContentDrift.
func (r *Renderer) Render(ctx context.Context, draft *offer.Draft, brand knowledge.Brand) (string, error) {
	if brand.PrimaryColor == "" || brand.FontName == "" {
		def := knowledge.DefaultBrand()
		if brand.PrimaryColor == "" {
			brand.PrimaryColor = def.PrimaryColor
		}
		if brand.FontName == "" {
			brand.FontName = def.FontName
		}
	}
	logo := ""
	if brand.LogoURL != "" {
		logo = "\nLogo URL (place at the top): " + brand.LogoURL
	}

	raw, err := r.gen.Generate(ctx, llm.Request{
		System:    fmt.Sprintf(systemPrompt, brand.PrimaryColor, brand.FontName, logo),
		User:      fmt.Sprintf("Subject: %s\nBody:\n%s", draft.Subject, draft.Body),
		MaxTokens: 8192,
	})
	if err != nil {
		return "", fmt.Errorf("render offer: %w", err)
	}

	doc := parse.StripFences(raw)
	if doc == "" || !markup.LooksLikeHTML(doc) {
		return "", fmt.Errorf("render offer: %w", &parse.MalformedOutputError{Reason: "expected an HTML document", Raw: llm.Truncate(raw, 200)})
	}

	source := "<h1>" + draft.Subject + "</h1>" + draft.Body
	if missing := markup.Preserves(source, doc); len(missing) > 0 {
		r.logger.Warn("rendered document drifted from draft",
			"missing_words", len(missing),
			"sample", strings.Join(missing[:min(len(missing), 10)], " "),
		)
		return "", fmt.Errorf("render offer: %w (missing %q)", ErrContentDrift, missing[:min(len(missing), 10)])
	}

	r.logger.Info("offer rendered", "doc_len", len(doc))
	return doc, nil
}
