// Package query builds parameterized Spanner SELECT statements for the catalog and
// discount tables.
package query

import (
	"fmt"
	"strings"

	"cloud.google.com/go/spanner"
)

// Direction is an ORDER BY direction.
type Direction string

const (
	Asc  Direction = "ASC"
	Desc Direction = "DESC"
)

type orderTerm struct {
	column    string
	direction Direction
}

// Builder assembles a single-table SELECT. Builders are immutable: every method
// returns a copy, so a base builder can be shared between queries.
type Builder struct {
	table      string
	columns    []string
	conditions []Condition
	order      []orderTerm
	limit      int64
}

// From starts a query on table.
func From(table string) *Builder {
	return &Builder{table: table}
}

// Select appends columns. A builder without columns selects *.
func (b *Builder) Select(columns ...string) *Builder {
	next := b.clone()
	next.columns = append(next.columns, columns...)
	return next
}

// Where appends conditions. All conditions are combined with AND.
func (b *Builder) Where(conditions ...Condition) *Builder {
	next := b.clone()
	next.conditions = append(next.conditions, conditions...)
	return next
}

// OrderBy appends a sort key. Earlier keys take precedence.
func (b *Builder) OrderBy(column string, direction Direction) *Builder {
	next := b.clone()
	next.order = append(next.order, orderTerm{column: column, direction: direction})
	return next
}

// Limit caps the number of rows. Zero means no limit.
func (b *Builder) Limit(limit int64) *Builder {
	next := b.clone()
	next.limit = limit
	return next
}

// Build renders the statement. Condition parameters are named @p0, @p1, ... in order.
func (b *Builder) Build() spanner.Statement {
	params := make(map[string]interface{})

	cols := "*"
	if len(b.columns) > 0 {
		cols = strings.Join(b.columns, ", ")
	}
	sql := "SELECT " + cols + " FROM " + b.table

	if len(b.conditions) > 0 {
		fragments := make([]string, 0, len(b.conditions))
		next := 0
		for _, c := range b.conditions {
			fragment, condParams := c.SQL(next)
			fragments = append(fragments, fragment)
			for name, value := range condParams {
				params[name] = value
			}
			next += len(condParams)
		}
		sql += " WHERE " + strings.Join(fragments, " AND ")
	}

	if len(b.order) > 0 {
		keys := make([]string, 0, len(b.order))
		for _, term := range b.order {
			keys = append(keys, term.column+" "+string(term.direction))
		}
		sql += " ORDER BY " + strings.Join(keys, ", ")
	}

	if b.limit > 0 {
		sql += " LIMIT @limit"
		params["limit"] = b.limit
	}

	return spanner.Statement{SQL: sql, Params: params}
}

// String renders the statement for logs and test failures.
func (b *Builder) String() string {
	stmt := b.Build()
	return fmt.Sprintf("%s %v", stmt.SQL, stmt.Params)
}

func (b *Builder) clone() *Builder {
	return &Builder{
		table:      b.table,
		columns:    append([]string(nil), b.columns...),
		conditions: append([]Condition(nil), b.conditions...),
		order:      append([]orderTerm(nil), b.order...),
		limit:      b.limit,
	}
}
