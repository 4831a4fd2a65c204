// Package provider supplies the connection contract consumed by the
// lifecycle engine: acquire a connection, prepare a statement, bind
// ordered parameters, and execute for either a row set or an affected-row
// count. A database/sql-backed implementation and a driver registry are
// included; anything beyond this narrow surface (pooling, transactions,
// retries) belongs to the underlying driver.
package provider

import (
	"context"

	"github.com/Mihail-K/Dart/pkg/value"
)

// Provider hands out connections to the lifecycle engine.
type Provider interface {
	// Acquire obtains a connection context. It fails when no database
	// is configured.
	Acquire(ctx context.Context) (Conn, error)
}

// Conn prepares statements on one connection context.
type Conn interface {
	// Prepare compiles a parameterized SQL statement.
	Prepare(ctx context.Context, sqlText string) (Statement, error)

	// Close releases the connection context.
	Close() error
}

// Statement is a prepared statement awaiting ordered parameters.
type Statement interface {
	// Query binds params in order and executes for a row set.
	Query(ctx context.Context, params []value.Value) (*RowSet, error)

	// Exec binds params in order and executes for an affected-row count.
	Exec(ctx context.Context, params []value.Value) (int64, error)

	// Close releases the statement.
	Close() error
}

// RowSet is a fully materialized query result: the returned column names
// in order, and one ordered Value slice per row.
type RowSet struct {
	Columns []string
	Rows    [][]value.Value
}

// Empty reports whether the result holds no rows.
func (rs *RowSet) Empty() bool {
	return rs == nil || len(rs.Rows) == 0
}
