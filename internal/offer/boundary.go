package offer

import (
	"regexp"
	"strings"

	"github.com/MikeSquared-Agency/offerdesk/internal/markup"
)

// negationWindow is how many words before a service term a negator may sit
// and still govern it ("we do not currently offer drone footage").
const negationWindow = 3

// negators govern a following service term within negationWindow words.
var negators = map[string]bool{
	"not": true, "never": true, "cannot": true, "can't": true, "won't": true,
	"don't": true, "doesn't": true, "isn't": true, "aren't": true,
	"unable": true, "except": true, "excluding": true, "exclude": true, "excludes": true,
}

// "no" only governs the term it directly modifies ("no drone footage").
const adjacentNegator = "no"

// declineVerbs close a trailing decline ("3D animation is not something we offer").
var declineVerbs = map[string]bool{
	"offer": true, "offered": true, "provide": true, "provided": true,
	"available": true, "something": true,
}

var wordRe = regexp.MustCompile(`[\pL\pN]+(?:'[\pL]+)?`)

func words(s string) []string {
	s = strings.ReplaceAll(strings.ToLower(s), "’", "'")
	return wordRe.FindAllString(s, -1)
}

func termRe(term string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)(?:^|[^\pL\pN])(` + regexp.QuoteMeta(term) + `s?)(?:[^\pL\pN]|$)`)
}

// declined reports whether a negation governs the term at s[start:end].
func declined(s string, start, end int) bool {
	before := words(s[:start])
	for i := 1; i <= negationWindow && i <= len(before); i++ {
		w := before[len(before)-i]
		if w == "not" && i > 1 && before[len(before)-i+1] == "only" {
			continue
		}
		if negators[w] || (i == 1 && w == adjacentNegator) {
			return true
		}
	}

	after := words(s[end:])
	if len(after) > 6 {
		after = after[:6]
	}
	neg := -1
	switch {
	case len(after) >= 1 && (after[0] == "isn't" || after[0] == "aren't"):
		neg = 0
	case len(after) >= 2 && (after[0] == "is" || after[0] == "are") && after[1] == "not":
		neg = 1
	}
	if neg < 0 {
		return false
	}
	for _, w := range after[neg+1:] {
		if declineVerbs[w] {
			return true
		}
	}
	return false
}

// committed reports whether s mentions term at least once without a
// negation governing that mention.
func committed(re *regexp.Regexp, s string) bool {
	for _, m := range re.FindAllStringSubmatchIndex(s, -1) {
		if !declined(s, m[2], m[3]) {
			return true
		}
	}
	return false
}

// offered reports whether any fact mentions term affirmatively. A fact like
// "We do not offer 3D animation" is an exclusion, not an offering.
func offered(re *regexp.Regexp, facts []string) bool {
	for _, f := range facts {
		if committed(re, f) {
			return true
		}
	}
	return false
}

// checkBoundary flags every vocabulary service the body commits to while no
// fact offers it.
func checkBoundary(body string, facts, vocabulary []string) []Flag {
	if len(vocabulary) == 0 {
		return nil
	}
	sentences := markup.Sentences(body)

	var flags []Flag
	for _, term := range vocabulary {
		re := termRe(term)
		if offered(re, facts) {
			continue
		}
		for _, s := range sentences {
			if committed(re, s) {
				flags = append(flags, Flag{Kind: FlagServiceBoundary, Term: term, Evidence: strings.TrimSpace(s)})
				break
			}
		}
	}
	return flags
}
