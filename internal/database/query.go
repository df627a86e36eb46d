package database

import "strings"

const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// ListQuery is a free-text search with pagination, shared by list endpoints.
type ListQuery struct {
	Q      string
	Limit  int
	Offset int
}

// Normalize clamps the limit to (0, MaxListLimit] and the offset to >= 0.
func (q ListQuery) Normalize() ListQuery {
	q.Q = strings.TrimSpace(q.Q)
	if q.Limit <= 0 {
		q.Limit = DefaultListLimit
	}
	if q.Limit > MaxListLimit {
		q.Limit = MaxListLimit
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	return q
}

// LikePattern lowercases term and escapes LIKE wildcards for use with
// `LOWER(col) LIKE ? ESCAPE '\'`.
func LikePattern(term string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.ToLower(term)) + "%"
}

// LikeClause builds an OR of case-insensitive LIKE matches over columns,
// returning the SQL fragment and its arguments.
func LikeClause(term string, columns ...string) (string, []any) {
	pattern := LikePattern(term)
	parts := make([]string, 0, len(columns))
	args := make([]any, 0, len(columns))
	for _, col := range columns {
		parts = append(parts, "LOWER("+col+`) LIKE ? ESCAPE '\'`)
		args = append(args, pattern)
	}
	return "(" + strings.Join(parts, " OR ") + ")", args
}
