package builder

import (
	"fmt"
	"strings"
)

// SQLBuilder assembles PostgreSQL statements with "?" markers rewritten to $n placeholders.
type SQLBuilder struct {
	table    string
	columns  []string
	rows     [][]interface{}
	where    []string
	args     []interface{}
	joins    []string
	orderBy  []string
	limit    int
	isInsert bool
	isDelete bool
	isSelect bool
	suffix   string
}

// NewSQLBuilder creates a new instance of SQLBuilder.
func NewSQLBuilder() *SQLBuilder {
	return &SQLBuilder{}
}

// Select specifies the columns to retrieve.
func (b *SQLBuilder) Select(cols ...string) *SQLBuilder {
	b.isSelect = true
	b.columns = cols
	return b
}

// Insert specifies the table and columns for insertion.
func (b *SQLBuilder) Insert(table string, cols ...string) *SQLBuilder {
	b.isInsert = true
	b.table = table
	b.columns = cols
	return b
}

// Delete specifies the table to delete from.
func (b *SQLBuilder) Delete(table string) *SQLBuilder {
	b.isDelete = true
	b.table = table
	return b
}

// From specifies the table to select from.
func (b *SQLBuilder) From(table string) *SQLBuilder {
	b.table = table
	return b
}

// Values adds one row of values for insertion. Call it repeatedly for a multi-row insert.
func (b *SQLBuilder) Values(vals ...interface{}) *SQLBuilder {
	b.rows = append(b.rows, vals)
	return b
}

// Where adds a condition; conditions are combined with AND.
func (b *SQLBuilder) Where(condition string, args ...interface{}) *SQLBuilder {
	b.where = append(b.where, condition)
	b.args = append(b.args, args...)
	return b
}

// Join adds a JOIN clause.
func (b *SQLBuilder) Join(joinType, table, on string) *SQLBuilder {
	b.joins = append(b.joins, fmt.Sprintf("%s JOIN %s ON %s", joinType, table, on))
	return b
}

// OrderBy adds an ORDER BY clause.
func (b *SQLBuilder) OrderBy(order string) *SQLBuilder {
	b.orderBy = append(b.orderBy, order)
	return b
}

// Limit adds a LIMIT clause.
func (b *SQLBuilder) Limit(limit int) *SQLBuilder {
	b.limit = limit
	return b
}

// Suffix appends raw SQL after the statement, e.g. "ON CONFLICT DO NOTHING".
func (b *SQLBuilder) Suffix(sql string) *SQLBuilder {
	b.suffix = sql
	return b
}

// BuildSafe constructs the statement and checks that every placeholder has an argument.
func (b *SQLBuilder) BuildSafe() (string, []interface{}, error) {
	sql, args := b.Build()

	placeholders := 0
	for i := 1; strings.Contains(sql, fmt.Sprintf("$%d", i)); i++ {
		placeholders++
	}
	if placeholders != len(args) {
		return "", nil, fmt.Errorf("placeholder count (%d) does not match argument count (%d)", placeholders, len(args))
	}
	return sql, args, nil
}

// Build constructs the final SQL string and arguments.
func (b *SQLBuilder) Build() (string, []interface{}) {
	var sb strings.Builder
	var args []interface{}
	argIndex := 1

	switch {
	case b.isInsert:
		sb.WriteString("INSERT INTO ")
		sb.WriteString(b.table)
		sb.WriteString(" (")
		sb.WriteString(strings.Join(b.columns, ", "))
		sb.WriteString(") VALUES ")
		tuples := make([]string, len(b.rows))
		for r, row := range b.rows {
			placeholders := make([]string, len(row))
			for i := range row {
				placeholders[i] = fmt.Sprintf("$%d", argIndex)
				argIndex++
			}
			tuples[r] = "(" + strings.Join(placeholders, ", ") + ")"
			args = append(args, row...)
		}
		sb.WriteString(strings.Join(tuples, ", "))
	case b.isDelete:
		sb.WriteString("DELETE FROM ")
		sb.WriteString(b.table)
	default:
		sb.WriteString("SELECT ")
		sb.WriteString(strings.Join(b.columns, ", "))
		sb.WriteString(" FROM ")
		sb.WriteString(b.table)
		for _, join := range b.joins {
			sb.WriteString(" ")
			sb.WriteString(join)
		}
	}

	if len(b.where) > 0 && !b.isInsert {
		sb.WriteString(" WHERE ")
		sb.WriteString(numberPlaceholders(strings.Join(b.where, " AND "), &argIndex))
		args = append(args, b.args...)
	}

	if len(b.orderBy) > 0 {
		sb.WriteString(" ORDER BY ")
		sb.WriteString(strings.Join(b.orderBy, ", "))
	}

	if b.limit > 0 {
		sb.WriteString(fmt.Sprintf(" LIMIT %d", b.limit))
	}

	if b.suffix != "" {
		sb.WriteString(" ")
		sb.WriteString(b.suffix)
	}

	return sb.String(), args
}

// numberPlaceholders replaces each "?" in clause with the next $n.
func numberPlaceholders(clause string, next *int) string {
	parts := strings.Split(clause, "?")
	var sb strings.Builder
	for i, part := range parts {
		sb.WriteString(part)
		if i < len(parts)-1 {
			sb.WriteString(fmt.Sprintf("$%d", *next))
			*next++
		}
	}
	return sb.String()
}
