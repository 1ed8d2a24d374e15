package search

import "strings"

// Matches reports whether term occurs, case-insensitively, in any of fields.
// An empty term matches everything.
func Matches(term string, fields ...string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}

// Filter keeps the elements of items whose fields match term.
func Filter[T any](items []T, term string, fields func(T) []string) []T {
	if strings.TrimSpace(term) == "" {
		return items
	}
	out := make([]T, 0, len(items))
	for _, it := range items {
		if Matches(term, fields(it)...) {
			out = append(out, it)
		}
	}
	return out
}
