// ABOUTME: Parameterized statement builder for the SQLite store table
// ABOUTME: Identifiers are validated, values only ever travel as placeholders

package sqlite

import (
	"fmt"
	"regexp"
	"strings"

	readererrors "pagereader-api/core/errors"
)

var (
	safeNamePattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

	maxKeyLength   = 255
	maxValueLength = 1024 * 1024
)

var allowedOperators = map[string]bool{"=": true, "!=": true, ">": true, "<": true, ">=": true, "<=": true}

// QueryBuilder assembles a single statement. The first invalid identifier
// or operator is kept in err and reported by Build.
type QueryBuilder struct {
	parts  []string
	where  []string
	params []interface{}
	err    error
}

// NewQueryBuilder creates a new query builder instance
func NewQueryBuilder() *QueryBuilder {
	return &QueryBuilder{}
}

func (qb *QueryBuilder) name(n string) string {
	if qb.err != nil {
		return n
	}
	if !safeNamePattern.MatchString(n) || len(n) > 64 {
		qb.err = fmt.Errorf("invalid identifier %q", n)
	}
	return n
}

// Select starts a SELECT over columns
func (qb *QueryBuilder) Select(columns ...string) *QueryBuilder {
	if len(columns) == 0 {
		qb.err = fmt.Errorf("select needs at least one column")
		return qb
	}
	for _, col := range columns {
		qb.name(col)
	}
	qb.parts = append(qb.parts, "SELECT "+strings.Join(columns, ", "))
	return qb
}

// Count starts a SELECT COUNT(*)
func (qb *QueryBuilder) Count() *QueryBuilder {
	qb.parts = append(qb.parts, "SELECT COUNT(*)")
	return qb
}

// From adds the table
func (qb *QueryBuilder) From(table string) *QueryBuilder {
	qb.parts = append(qb.parts, "FROM "+qb.name(table))
	return qb
}

// Where adds a condition; conditions are joined with AND
func (qb *QueryBuilder) Where(column, operator string, value interface{}) *QueryBuilder {
	if !allowedOperators[operator] && qb.err == nil {
		qb.err = fmt.Errorf("invalid operator %q", operator)
	}
	qb.where = append(qb.where, qb.name(column)+" "+operator+" ?")
	qb.params = append(qb.params, value)
	return qb
}

// Upsert builds an INSERT OR REPLACE over columns
func (qb *QueryBuilder) Upsert(table string, columns ...string) *QueryBuilder {
	for _, col := range columns {
		qb.name(col)
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ")
	qb.parts = append(qb.parts, fmt.Sprintf("INSERT OR REPLACE INTO %s (%s) VALUES (%s)",
		qb.name(table), strings.Join(columns, ", "), placeholders))
	return qb
}

// Delete starts a DELETE
func (qb *QueryBuilder) Delete(table string) *QueryBuilder {
	qb.parts = append(qb.parts, "DELETE FROM "+qb.name(table))
	return qb
}

// Build returns the statement and the parameters collected by Where
func (qb *QueryBuilder) Build() (string, []interface{}, error) {
	if qb.err != nil {
		return "", nil, qb.err
	}
	query := strings.Join(qb.parts, " ")
	if len(qb.where) > 0 {
		query += " WHERE " + strings.Join(qb.where, " AND ")
	}
	return query, qb.params, nil
}

// statements are the prepared texts used by Client
type statements struct {
	get     string
	set     string
	delete  string
	cleanup string
	count   string
}

func buildStatements(table string) (statements, error) {
	var s statements
	var err error
	build := func(qb *QueryBuilder) string {
		if err != nil {
			return ""
		}
		var q string
		q, _, err = qb.Build()
		return q
	}

	s.get = build(NewQueryBuilder().Select("value").From(table).Where("key", "=", nil).Where("expiry", ">", nil))
	s.set = build(NewQueryBuilder().Upsert(table, "key", "value", "expiry"))
	s.delete = build(NewQueryBuilder().Delete(table).Where("key", "=", nil))
	s.cleanup = build(NewQueryBuilder().Delete(table).Where("expiry", "<=", nil))
	s.count = build(NewQueryBuilder().Count().From(table))
	return s, err
}

// ValidateKey rejects keys the store cannot hold
func ValidateKey(key string) error {
	switch {
	case key == "":
		return &readererrors.ValidationError{Field: "key", Message: "cannot be empty"}
	case len(key) > maxKeyLength:
		return &readererrors.ValidationError{Field: "key", Message: fmt.Sprintf("longer than %d bytes", maxKeyLength)}
	case strings.Contains(key, "\x00"):
		return &readererrors.ValidationError{Field: "key", Message: "contains a null byte"}
	}
	return nil
}

// ValidateValue rejects oversize values
func ValidateValue(value []byte) error {
	if len(value) > maxValueLength {
		return &readererrors.ValidationError{Field: "value", Message: fmt.Sprintf("larger than %d bytes", maxValueLength)}
	}
	return nil
}
