package provider

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/Mihail-K/Dart/pkg/query"
	"github.com/Mihail-K/Dart/pkg/value"
)

// SQLProvider implements Provider over a database/sql handle. The handle
// owns pooling and per-connection concurrency; this layer only adapts the
// statement surface and converts cells to tagged values.
type SQLProvider struct {
	db      *sql.DB
	dialect query.Dialect
	logger  *slog.Logger
}

// NewSQLProvider wraps an open database/sql handle. A nil logger
// discards debug output.
func NewSQLProvider(db *sql.DB, dialect query.Dialect, logger *slog.Logger) *SQLProvider {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &SQLProvider{db: db, dialect: dialect, logger: logger}
}

// Open connects using a registered driver named by cfg.Driver.
func Open(cfg *Config, logger *slog.Logger) (*SQLProvider, error) {
	if cfg == nil || cfg.Driver == "" {
		return nil, fmt.Errorf("driver not specified")
	}
	drv, ok := GetDriver(cfg.Driver)
	if !ok {
		return nil, &UnknownDriverError{Name: cfg.Driver, Available: ListDrivers()}
	}

	dsn, err := drv.DSN(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s DSN: %w", cfg.Driver, err)
	}
	db, err := sql.Open(drv.SQLName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", cfg.Driver, err)
	}
	return NewSQLProvider(db, drv.Dialect, logger), nil
}

// Dialect returns the SQL dialect of the underlying driver.
func (p *SQLProvider) Dialect() query.Dialect {
	return p.dialect
}

// Ping verifies the database is reachable.
func (p *SQLProvider) Ping(ctx context.Context) error {
	if p.db == nil {
		return fmt.Errorf("no database connection configured")
	}
	if err := p.db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	return nil
}

// Acquire pins one physical connection from the pool. Every statement
// prepared on the returned Conn runs on that session, so session-scoped
// queries such as the last-generated-identity fetch see the effects of
// earlier statements on the same Conn. Close returns it to the pool.
func (p *SQLProvider) Acquire(ctx context.Context) (Conn, error) {
	if p.db == nil {
		return nil, fmt.Errorf("no database connection configured")
	}
	conn, err := p.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire connection: %w", err)
	}
	return &sqlConn{conn: conn, logger: p.logger}, nil
}

// Close closes the underlying handle.
func (p *SQLProvider) Close() error {
	if p.db != nil {
		p.logger.Debug("closing database handle")
		return p.db.Close()
	}
	return nil
}

type sqlConn struct {
	conn   *sql.Conn
	logger *slog.Logger
}

func (c *sqlConn) Prepare(ctx context.Context, sqlText string) (Statement, error) {
	stmt, err := c.conn.PrepareContext(ctx, sqlText)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare statement: %w", err)
	}
	c.logger.Debug("prepared statement", "sql", sqlText)
	return &sqlStmt{stmt: stmt}, nil
}

func (c *sqlConn) Close() error {
	return c.conn.Close()
}

type sqlStmt struct {
	stmt *sql.Stmt
}

func (s *sqlStmt) Query(ctx context.Context, params []value.Value) (*RowSet, error) {
	rows, err := s.stmt.QueryContext(ctx, driverArgs(params)...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	defer func() { _ = rows.Close() }()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read result columns: %w", err)
	}

	rs := &RowSet{Columns: columns}
	for rows.Next() {
		cells := make([]any, len(columns))
		for i := range cells {
			cells[i] = new(any)
		}
		if err := rows.Scan(cells...); err != nil {
			return nil, fmt.Errorf("failed to scan result row: %w", err)
		}

		row := make([]value.Value, len(columns))
		for i, cell := range cells {
			v, err := value.FromAny(*cell.(*any))
			if err != nil {
				return nil, fmt.Errorf("column %q: %w", columns[i], err)
			}
			row[i] = v
		}
		rs.Rows = append(rs.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating result rows: %w", err)
	}
	return rs, nil
}

func (s *sqlStmt) Exec(ctx context.Context, params []value.Value) (int64, error) {
	res, err := s.stmt.ExecContext(ctx, driverArgs(params)...)
	if err != nil {
		return 0, fmt.Errorf("failed to execute statement: %w", err)
	}
	count, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read affected row count: %w", err)
	}
	return count, nil
}

func (s *sqlStmt) Close() error {
	return s.stmt.Close()
}

func driverArgs(params []value.Value) []any {
	args := make([]any, len(params))
	for i, p := range params {
		args[i] = p.Driver()
	}
	return args
}
