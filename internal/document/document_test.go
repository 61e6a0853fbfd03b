package document

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/fumiama/go-docx"
)

func TestExtract_Text(t *testing.T) {
	in := "We shoot UGC ads.\nBase price $500.\n\n\n   \nTurnaround 5-7 days."
	got, err := Extract(strings.NewReader(in), "notes.TXT")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "We shoot UGC ads.\nBase price $500.\n\nTurnaround 5-7 days."
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestExtract_Markdown(t *testing.T) {
	in := "# Services\n\n- UGC ads\n- **Explainers**\n\nRush fee is +30%."
	got, err := Extract(strings.NewReader(in), "about.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "Services\n\nUGC ads\n\nExplainers\n\nRush fee is +30%."
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestExtract_HTML(t *testing.T) {
	in := "<html><head><script>x()</script></head><body><h2>Pricing</h2><p>Base   price $500</p></body></html>"
	got, err := Extract(strings.NewReader(in), "site.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Pricing\n\nBase price $500" {
		t.Errorf("unexpected text %q", got)
	}
}

func TestExtract_CSV(t *testing.T) {
	in := "service,price\nUGC ad,$500\nExplainer,\n"
	got, err := Extract(strings.NewReader(in), "prices.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "service: UGC ad, price: $500\n\nservice: Explainer"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestExtract_DOCX(t *testing.T) {
	w := docx.New().WithDefaultTheme()
	w.AddParagraph().AddText("Base price $500")
	w.AddParagraph().AddText("We do not offer 3D animation")

	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf); err != nil {
		t.Fatalf("write docx: %v", err)
	}

	got, err := Extract(&buf, "profile.docx")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Base price $500\n\nWe do not offer 3D animation" {
		t.Errorf("unexpected text %q", got)
	}
}

func TestExtract_CorruptPDF(t *testing.T) {
	if _, err := Extract(strings.NewReader("not a pdf"), "deck.pdf"); err == nil {
		t.Fatal("expected error for corrupt pdf")
	}
}

func TestExtract_Unsupported(t *testing.T) {
	_, err := Extract(strings.NewReader("x"), "photo.png")
	if !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
	if Supported("photo.png") || !Supported("Deck.PDF") {
		t.Error("unexpected Supported result")
	}
}

func TestChunk_PacksParagraphs(t *testing.T) {
	text := "aaaa\n\nbbbb\n\ncccc"
	got := Chunk(text, 10)
	want := []string{"aaaa\n\nbbbb", "cccc"}
	if len(got) != len(want) {
		t.Fatalf("got %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("chunk %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestChunk_SplitsOversizedParagraph(t *testing.T) {
	long := strings.Repeat("é", 25)
	got := Chunk("intro\n\n"+long, 10)
	if len(got) != 4 || got[0] != "intro" {
		t.Fatalf("unexpected chunks %q", got)
	}
	for _, c := range got {
		if n := utf8.RuneCountInString(c); n > 10 {
			t.Errorf("chunk exceeds limit: %d runes", n)
		}
	}
	if strings.Join(got[1:], "") != long {
		t.Error("oversized paragraph content was lost")
	}
}

func TestChunk_Empty(t *testing.T) {
	if got := Chunk("  \n\n ", 100); got != nil {
		t.Errorf("expected nil, got %q", got)
	}
}
