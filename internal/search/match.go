package search

import "strings"

// MatchText reports whether query is a case-insensitive substring of any of
// the given fields. An empty query matches everything.
func MatchText(query string, fields ...string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

// EscapeLike neutralizes LIKE/ILIKE pattern metacharacters in user input so
// a query like "50%" matches the literal text instead of acting as a
// wildcard. Backslash is the default escape character in postgres.
func EscapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// MatchAnySkill reports whether the record's skill set intersects the filter
// set (ANY-of, not ALL-of). Comparison is case-insensitive. An empty filter
// matches everything.
func MatchAnySkill(filter, have []string) bool {
	if len(filter) == 0 {
		return true
	}
	set := make(map[string]struct{}, len(have))
	for _, s := range have {
		set[strings.ToLower(s)] = struct{}{}
	}
	for _, s := range filter {
		if _, ok := set[strings.ToLower(s)]; ok {
			return true
		}
	}
	return false
}
