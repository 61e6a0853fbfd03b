package render

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/MikeSquared-Agency/offerdesk/internal/knowledge"
	"github.com/MikeSquared-Agency/offerdesk/internal/llm"
	"github.com/MikeSquared-Agency/offerdesk/internal/llm/llmtest"
	"github.com/MikeSquared-Agency/offerdesk/internal/offer"
	"github.com/MikeSquared-Agency/offerdesk/internal/parse"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sampleDraft() *offer.Draft {
	return &offer.Draft{
		Status:  offer.StatusReady,
		Subject: "Your 30s ad",
		Body:    "<h3>The Plan</h3><ul><li>One 30s cut</li></ul><p>Reply <strong>yes</strong> to start.</p>",
	}
}

const faithful = "```html\n<!DOCTYPE html><html><body style=\"font-family:Inter\"><table><tr><td><h1 style=\"color:#4f46e5\">Your 30s ad</h1><h3>The Plan</h3><ul><li>One 30s cut</li></ul><p>Reply <b>yes</b> to start.</p></td></tr></table></body></html>\n```"

func TestRender_Success(t *testing.T) {
	fake := llmtest.New(faithful)
	r := NewRenderer(fake, discardLogger())

	doc, err := r.Render(context.Background(), sampleDraft(), knowledge.Brand{PrimaryColor: "#ff0066", FontName: "Georgia", LogoURL: "https://ex.com/logo.png"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.HasPrefix(doc, "```") || !strings.HasPrefix(doc, "<!DOCTYPE html>") {
		t.Errorf("expected fence-stripped document, got %q", doc[:20])
	}

	req := fake.Last()
	for _, want := range []string{"#ff0066", "Georgia", "https://ex.com/logo.png", "Preserve ALL wording"} {
		if !strings.Contains(req.System, want) {
			t.Errorf("expected %q in system prompt", want)
		}
	}
	if !strings.Contains(req.User, "Subject: Your 30s ad") || !strings.Contains(req.User, "<h3>The Plan</h3>") {
		t.Errorf("unexpected user prompt %q", req.User)
	}
	if req.Structured {
		t.Error("rendering is not a structured call")
	}
}

func TestRender_DefaultBrandTokens(t *testing.T) {
	fake := llmtest.New(faithful)
	if _, err := NewRenderer(fake, discardLogger()).Render(context.Background(), sampleDraft(), knowledge.Brand{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(fake.Last().System, "#4f46e5") || !strings.Contains(fake.Last().System, "Inter") {
		t.Error("expected default brand tokens")
	}
}

func TestRender_ContentDrift(t *testing.T) {
	reworded := "<html><body><h1>Your 30-second ad</h1><h3>Our Plan</h3><ul><li>One cut</li></ul><p>Say yes to start.</p></body></html>"
	_, err := NewRenderer(llmtest.New(reworded), discardLogger()).Render(context.Background(), sampleDraft(), knowledge.DefaultBrand())
	if !errors.Is(err, ErrContentDrift) {
		t.Fatalf("expected ErrContentDrift, got %v", err)
	}
}

func TestRender_EmptyOrNonHTML(t *testing.T) {
	for _, out := range []string{"```html\n```", "Sorry, I can't do that."} {
		_, err := NewRenderer(llmtest.New(out), discardLogger()).Render(context.Background(), sampleDraft(), knowledge.DefaultBrand())
		if !parse.IsMalformed(err) {
			t.Errorf("output %q: expected MalformedOutputError, got %v", out, err)
		}
	}
}

func TestRender_BackendError(t *testing.T) {
	_, err := NewRenderer(llmtest.Failing(llm.ErrEmptyResponse), discardLogger()).Render(context.Background(), sampleDraft(), knowledge.DefaultBrand())
	if !errors.Is(err, llm.ErrEmptyResponse) {
		t.Fatalf("expected ErrEmptyResponse, got %v", err)
	}
}

func TestRender_EditThenRerender(t *testing.T) {
	fake := llmtest.New(faithful, "<html><body><h1>Your 30s ad</h1><p>Updated body text.</p></body></html>")
	r := NewRenderer(fake, discardLogger())
	d := sampleDraft()

	doc, err := r.Render(context.Background(), d, knowledge.DefaultBrand())
	if err != nil {
		t.Fatalf("first render: %v", err)
	}
	d.SetRendered(doc)

	if err := d.EditBody("<p>Updated body text.</p>"); err != nil {
		t.Fatal(err)
	}
	if d.Rendered() {
		t.Fatal("edit must clear the rendered document")
	}

	doc, err = r.Render(context.Background(), d, knowledge.DefaultBrand())
	if err != nil {
		t.Fatalf("re-render: %v", err)
	}
	d.SetRendered(doc)
	if !d.Rendered() {
		t.Error("expected a rendered document after re-rendering")
	}
}
