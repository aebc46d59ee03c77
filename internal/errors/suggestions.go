package errors

import (
	"sort"
	"strings"
)

// SuggestionsKey is the context key holding "did you mean" candidates.
const SuggestionsKey = "suggestions"

// SimilarNames returns the candidates that look like a misspelling of name,
// closest first. A candidate matches when one name contains the other
// (case-insensitively, for names of three or more characters) or when their edit distance is at most a third of
// the longer name.
func SimilarNames(name string, candidates []string) []string {
	if name == "" {
		return nil
	}
	target := strings.ToLower(name)

	type scored struct {
		name string
		dist int
	}
	var matches []scored
	for _, c := range candidates {
		if c == "" || c == name {
			continue
		}
		lc := strings.ToLower(c)
		dist := levenshtein(target, lc)
		limit := max(len(target), len(lc)) / 3
		contains := min(len(target), len(lc)) >= 3 &&
			(strings.Contains(lc, target) || strings.Contains(target, lc))
		if contains || dist <= limit {
			matches = append(matches, scored{name: c, dist: dist})
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].dist != matches[j].dist {
			return matches[i].dist < matches[j].dist
		}
		return matches[i].name < matches[j].name
	})

	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.name
	}
	return out
}

// WithSuggestions records similar names on the error. Nothing is recorded
// for an empty list.
func (e *Error) WithSuggestions(names []string) *Error {
	if len(names) == 0 {
		return e
	}
	return e.WithContext(SuggestionsKey, names)
}

// Suggestions returns the names recorded by WithSuggestions.
func (e *Error) Suggestions() []string {
	if e == nil || e.Context == nil {
		return nil
	}
	names, _ := e.Context[SuggestionsKey].([]string)
	return names
}

// FormatSuggestions renders a "did you mean" hint, or "" when there is
// nothing to suggest.
func FormatSuggestions(names []string) string {
	switch len(names) {
	case 0:
		return ""
	case 1:
		return "did you mean " + quote(names[0]) + "?"
	}
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = quote(n)
	}
	return "did you mean one of " + strings.Join(quoted, ", ") + "?"
}

func quote(s string) string { return "'" + s + "'" }

func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}
