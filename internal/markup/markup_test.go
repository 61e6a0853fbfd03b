package markup

import (
	"strings"
	"testing"
)

func TestToHTML(t *testing.T) {
	out, err := ToHTML("### The Plan\n\n- **Hook** in 3s\n- Cutdowns\n\n| Tier | Price |\n|---|---|\n| Basic | $500 |\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"<h3>The Plan</h3>", "<li><strong>Hook</strong> in 3s</li>", "<table>", "<td>Basic</td>"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in %q", want, out)
		}
	}
}

func TestLooksLikeHTML(t *testing.T) {
	tests := map[string]bool{
		"<h3>Hi</h3><p>Body</p>": true,
		"Hi there<br/>":          true,
		"**Bold** markdown":      false,
		"price < 500 > 200":      false,
	}
	for in, want := range tests {
		if got := LooksLikeHTML(in); got != want {
			t.Errorf("LooksLikeHTML(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestSanitize(t *testing.T) {
	in := `<div class="x"><h3 style="color:red">Plan</h3><script>alert(1)</script><p onclick="x()">Hi <strong>there</strong> &amp; <a href="javascript:evil()">bad</a> <a href="https://ex.com/a">good</a></p><img src="x.png"><!-- note --></div>`
	got, err := Sanitize(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `<h3>Plan</h3><p>Hi <strong>there</strong> &amp; <a>bad</a> <a href="https://ex.com/a">good</a></p>`
	if got != want {
		t.Errorf("Sanitize:\n got %s\nwant %s", got, want)
	}
}

func TestText(t *testing.T) {
	got := Text("<html><head><title>Offer</title><style>p{}</style></head><body><h3>Plan</h3><ul><li>One</li><li>Two  words</li></ul><p>Thanks!</p></body></html>")
	want := "Offer\nPlan\nOne\nTwo words\nThanks!"
	if got != want {
		t.Errorf("Text:\n got %q\nwant %q", got, want)
	}
}

func TestSentences(t *testing.T) {
	got := Sentences("<p>We can shoot the ad. We do not offer 3D animation! Sound good?</p><ul><li>Rush fee +30%</li></ul>")
	want := []string{"We can shoot the ad.", "We do not offer 3D animation!", "Sound good?", "Rush fee +30%"}
	if len(got) != len(want) {
		t.Fatalf("expected %d sentences, got %v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sentence %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestPreserves(t *testing.T) {
	source := "<h3>Your 30s ad</h3><p>Base price <strong>$500</strong>.</p>"
	rendered := `<!DOCTYPE html><html><head><style>body{font-family:Inter}</style></head><body><table><tr><td><h1 style="color:#4f46e5">Your 30s ad</h1><p>Base price $500.</p></td></tr></table></body></html>`
	if missing := Preserves(source, rendered); len(missing) != 0 {
		t.Errorf("expected content preserved, missing %v", missing)
	}

	reworded := `<html><body><h1>Your 30s video</h1><p>Price $500.</p></body></html>`
	missing := Preserves(source, reworded)
	if len(missing) != 2 || missing[0] != "ad" || missing[1] != "base" {
		t.Errorf("expected [ad base] missing, got %v", missing)
	}
}
