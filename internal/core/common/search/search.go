package search

import "strings"

// MinQueryLength is the shortest query that reaches the database.
const MinQueryLength = 3

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Accepts reports whether q is long enough to run.
func Accepts(q string) bool {
	return len([]rune(q)) >= MinQueryLength
}

// LikePattern wraps q for `LIKE ? ESCAPE '\'` with wildcards in q escaped.
func LikePattern(q string) string {
	return "%" + likeEscaper.Replace(q) + "%"
}

// Filter keeps the items whose name contains q, case-sensitively.
// LIKE is case-insensitive on some engines, so results are re-checked here.
func Filter[T any](items []T, q string, name func(T) string) []T {
	out := items[:0]
	for _, item := range items {
		if strings.Contains(name(item), q) {
			out = append(out, item)
		}
	}
	return out
}
