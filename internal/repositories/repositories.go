package repositories

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
)

// nullString maps an empty string to NULL for optional text columns.
func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// nullInt maps zero to NULL for optional integer columns.
func nullInt(n int) any {
	if n == 0 {
		return nil
	}
	return n
}

// nullInt64 maps zero to NULL for optional epoch-millisecond columns.
func nullInt64(n int64) any {
	if n == 0 {
		return nil
	}
	return n
}

// encodeJSONColumn serializes a slice into a TEXT column, NULL when empty.
func encodeJSONColumn[T any](v []T) (any, error) {
	if len(v) == 0 {
		return nil, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode json column: %w", err)
	}
	return string(data), nil
}

// decodeJSONColumn deserializes a TEXT column into a slice; NULL and
// malformed values decode to nil.
func decodeJSONColumn[T any](col sql.NullString) []T {
	if !col.Valid || col.String == "" {
		return nil
	}
	var out []T
	if err := json.Unmarshal([]byte(col.String), &out); err != nil {
		return nil
	}
	return out
}

// placeholders returns a comma-joined list of n "?" markers for IN clauses.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

// setClause joins assignment fragments for a dynamic UPDATE statement.
type setClause struct {
	assignments []string
	args        []any
}

func (c *setClause) add(column string, value any) {
	c.assignments = append(c.assignments, column+" = ?")
	c.args = append(c.args, value)
}

func (c *setClause) empty() bool {
	return len(c.assignments) == 0
}

func (c *setClause) sql() string {
	return strings.Join(c.assignments, ", ")
}
