package document

import (
	"strings"
	"unicode/utf8"
)

// DefaultChunkRunes keeps one extraction call's input bounded.
const DefaultChunkRunes = 6000

// Chunk splits text into pieces of at most maxRunes, breaking on paragraph
// boundaries where possible. A paragraph longer than maxRunes is split on
// line breaks, then hard-split.
func Chunk(text string, maxRunes int) []string {
	if maxRunes <= 0 {
		maxRunes = DefaultChunkRunes
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var chunks []string
	var current strings.Builder
	currentLen := 0

	flush := func() {
		if current.Len() > 0 {
			chunks = append(chunks, current.String())
			current.Reset()
			currentLen = 0
		}
	}
	add := func(piece string, sep string) {
		n := utf8.RuneCountInString(piece)
		if currentLen > 0 && currentLen+len(sep)+n > maxRunes {
			flush()
		}
		if currentLen > 0 {
			current.WriteString(sep)
			currentLen += len(sep)
		}
		current.WriteString(piece)
		currentLen += n
	}

	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		if utf8.RuneCountInString(para) <= maxRunes {
			add(para, "\n\n")
			continue
		}
		// Oversized paragraph: start fresh and pack its lines.
		flush()
		for _, line := range strings.Split(para, "\n") {
			for _, piece := range hardSplit(line, maxRunes) {
				add(piece, "\n")
			}
		}
		flush()
	}
	flush()
	return chunks
}

func hardSplit(s string, n int) []string {
	runes := []rune(s)
	if len(runes) <= n {
		return []string{s}
	}
	var out []string
	for len(runes) > n {
		out = append(out, string(runes[:n]))
		runes = runes[n:]
	}
	if len(runes) > 0 {
		out = append(out, string(runes))
	}
	return out
}
