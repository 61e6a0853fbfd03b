package markup

import (
	"strings"
	"unicode"
)

// Words returns the lowercased letter/digit runs of the visible text.
func Words(s string) []string {
	return strings.FieldsFunc(strings.ToLower(Text(s)), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// Preserves checks that every word of source appears in rendered at least as
// often. It returns the words that went missing, in source order.
func Preserves(source, rendered string) []string {
	have := map[string]int{}
	for _, w := range Words(rendered) {
		have[w]++
	}
	var missing []string
	reported := map[string]bool{}
	for _, w := range Words(source) {
		if have[w] > 0 {
			have[w]--
			continue
		}
		if !reported[w] {
			reported[w] = true
			missing = append(missing, w)
		}
	}
	return missing
}
