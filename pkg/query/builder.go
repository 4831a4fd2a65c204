package query

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Mihail-K/Dart/pkg/value"
)

// SelectBuilder assembles a SELECT statement.
type SelectBuilder struct {
	dialect Dialect
	columns []string
	table   string
	limit   int
	where   *Where
}

// NewSelect returns a SELECT builder for the given dialect.
func NewSelect(d Dialect) *SelectBuilder {
	return &SelectBuilder{dialect: d}
}

// Columns sets the projected columns. An empty projection renders as *.
func (b *SelectBuilder) Columns(cols ...string) *SelectBuilder {
	b.columns = append(b.columns, cols...)
	return b
}

// From sets the source table.
func (b *SelectBuilder) From(table string) *SelectBuilder {
	b.table = table
	return b
}

// Limit caps the number of returned rows. Zero means no limit.
func (b *SelectBuilder) Limit(n int) *SelectBuilder {
	b.limit = n
	return b
}

// Where attaches the predicate.
func (b *SelectBuilder) Where(w *Where) *SelectBuilder {
	b.where = w
	return b
}

// Build renders the statement and its ordered parameters.
func (b *SelectBuilder) Build() (string, []value.Value, error) {
	if b.table == "" {
		return "", nil, fmt.Errorf("select: no table set")
	}

	var sb strings.Builder
	var params []value.Value
	n := 1

	sb.WriteString("SELECT ")
	if len(b.columns) == 0 {
		sb.WriteByte('*')
	} else {
		writeColumnList(&sb, b.dialect, b.columns)
	}
	sb.WriteString(" FROM ")
	sb.WriteString(b.dialect.QuoteIdent(b.table))

	if !b.where.Empty() {
		sb.WriteString(" WHERE ")
		b.where.render(b.dialect, &sb, &params, &n)
	}
	if b.limit > 0 {
		sb.WriteString(" LIMIT ")
		sb.WriteString(strconv.Itoa(b.limit))
	}
	return sb.String(), params, nil
}

// InsertBuilder assembles an INSERT statement. Value is called once per
// column, in the same order the columns were declared.
type InsertBuilder struct {
	dialect Dialect
	columns []string
	table   string
	values  []value.Value
}

// NewInsert returns an INSERT builder for the given dialect.
func NewInsert(d Dialect) *InsertBuilder {
	return &InsertBuilder{dialect: d}
}

// Columns sets the inserted columns.
func (b *InsertBuilder) Columns(cols ...string) *InsertBuilder {
	b.columns = append(b.columns, cols...)
	return b
}

// Into sets the target table.
func (b *InsertBuilder) Into(table string) *InsertBuilder {
	b.table = table
	return b
}

// Value appends the value for the next column.
func (b *InsertBuilder) Value(v value.Value) *InsertBuilder {
	b.values = append(b.values, v)
	return b
}

// Build renders the statement and its ordered parameters.
func (b *InsertBuilder) Build() (string, []value.Value, error) {
	if b.table == "" {
		return "", nil, fmt.Errorf("insert: no table set")
	}
	if len(b.columns) == 0 {
		return "", nil, fmt.Errorf("insert: no columns set")
	}
	if len(b.values) != len(b.columns) {
		return "", nil, fmt.Errorf("insert: %d values for %d columns", len(b.values), len(b.columns))
	}

	var sb strings.Builder
	params := make([]value.Value, 0, len(b.values))
	n := 1

	sb.WriteString("INSERT INTO ")
	sb.WriteString(b.dialect.QuoteIdent(b.table))
	sb.WriteString(" (")
	writeColumnList(&sb, b.dialect, b.columns)
	sb.WriteString(") VALUES (")
	for i, v := range b.values {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(b.dialect.Placeholder(n))
		params = append(params, v)
		n++
	}
	sb.WriteByte(')')
	return sb.String(), params, nil
}

// UpdateBuilder assembles an UPDATE statement.
type UpdateBuilder struct {
	dialect Dialect
	table   string
	limit   int
	cols    []string
	vals    []value.Value
	where   *Where
}

// NewUpdate returns an UPDATE builder for the given dialect and table.
func NewUpdate(d Dialect, table string) *UpdateBuilder {
	return &UpdateBuilder{dialect: d, table: table}
}

// Limit caps the number of updated rows. Zero means no limit.
func (b *UpdateBuilder) Limit(n int) *UpdateBuilder {
	b.limit = n
	return b
}

// Set appends one column assignment.
func (b *UpdateBuilder) Set(column string, v value.Value) *UpdateBuilder {
	b.cols = append(b.cols, column)
	b.vals = append(b.vals, v)
	return b
}

// Where attaches the predicate.
func (b *UpdateBuilder) Where(w *Where) *UpdateBuilder {
	b.where = w
	return b
}

// Build renders the statement and its ordered parameters. Assignment
// parameters precede predicate parameters, matching placeholder order.
func (b *UpdateBuilder) Build() (string, []value.Value, error) {
	if b.table == "" {
		return "", nil, fmt.Errorf("update: no table set")
	}
	if len(b.cols) == 0 {
		return "", nil, fmt.Errorf("update: no assignments set")
	}

	var sb strings.Builder
	var params []value.Value
	n := 1

	sb.WriteString("UPDATE ")
	sb.WriteString(b.dialect.QuoteIdent(b.table))
	sb.WriteString(" SET ")
	for i, col := range b.cols {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(b.dialect.QuoteIdent(col))
		sb.WriteByte('=')
		sb.WriteString(b.dialect.Placeholder(n))
		params = append(params, b.vals[i])
		n++
	}
	if !b.where.Empty() {
		sb.WriteString(" WHERE ")
		b.where.render(b.dialect, &sb, &params, &n)
	}
	if b.limit > 0 {
		sb.WriteString(" LIMIT ")
		sb.WriteString(strconv.Itoa(b.limit))
	}
	return sb.String(), params, nil
}

// DeleteBuilder assembles a DELETE statement.
type DeleteBuilder struct {
	dialect Dialect
	table   string
	limit   int
	where   *Where
}

// NewDelete returns a DELETE builder for the given dialect.
func NewDelete(d Dialect) *DeleteBuilder {
	return &DeleteBuilder{dialect: d}
}

// From sets the target table.
func (b *DeleteBuilder) From(table string) *DeleteBuilder {
	b.table = table
	return b
}

// Limit caps the number of deleted rows. Zero means no limit.
func (b *DeleteBuilder) Limit(n int) *DeleteBuilder {
	b.limit = n
	return b
}

// Where attaches the predicate.
func (b *DeleteBuilder) Where(w *Where) *DeleteBuilder {
	b.where = w
	return b
}

// Build renders the statement and its ordered parameters.
func (b *DeleteBuilder) Build() (string, []value.Value, error) {
	if b.table == "" {
		return "", nil, fmt.Errorf("delete: no table set")
	}

	var sb strings.Builder
	var params []value.Value
	n := 1

	sb.WriteString("DELETE FROM ")
	sb.WriteString(b.dialect.QuoteIdent(b.table))
	if !b.where.Empty() {
		sb.WriteString(" WHERE ")
		b.where.render(b.dialect, &sb, &params, &n)
	}
	if b.limit > 0 {
		sb.WriteString(" LIMIT ")
		sb.WriteString(strconv.Itoa(b.limit))
	}
	return sb.String(), params, nil
}

func writeColumnList(sb *strings.Builder, d Dialect, cols []string) {
	for i, col := range cols {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(d.QuoteIdent(col))
	}
}
