package scrape

import (
	"regexp"
	"strings"
)

var innerWhitespace = regexp.MustCompile(`\s+`)

// FilterRules hold the per-resource cleaning thresholds. Boilerplate
// markers are matched case-insensitively against the normalized text.
type FilterRules struct {
	MinLength   int
	Boilerplate []string
	MaxPerPage  int
}

// Normalize trims the block and collapses internal whitespace runs to
// single spaces.
func Normalize(text string) string {
	return innerWhitespace.ReplaceAllString(strings.TrimSpace(text), " ")
}

// Clean applies the filter rules in order: normalize, minimum length,
// boilerplate rejection, exact-match dedup. Dedup is scoped to the given
// candidate slice, i.e. to one page; cross-page repeats are legitimate.
func (f FilterRules) Clean(candidates []Candidate) []Candidate {
	seen := map[string]struct{}{}
	clean := make([]Candidate, 0, len(candidates))

	for _, candidate := range candidates {
		text := Normalize(candidate.Text)
		if text == "" || len(text) < f.MinLength {
			continue
		}
		if f.isBoilerplate(text) {
			continue
		}
		if _, ok := seen[text]; ok {
			continue
		}
		seen[text] = struct{}{}
		clean = append(clean, Candidate{Text: text, RawDate: strings.TrimSpace(candidate.RawDate)})

		if f.MaxPerPage > 0 && len(clean) >= f.MaxPerPage {
			break
		}
	}

	return clean
}

func (f FilterRules) isBoilerplate(text string) bool {
	lowered := strings.ToLower(text)
	for _, marker := range f.Boilerplate {
		if marker == "" {
			continue
		}
		if strings.Contains(lowered, strings.ToLower(marker)) {
			return true
		}
	}
	return false
}
