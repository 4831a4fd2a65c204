// Package record implements the entity lifecycle operations: get, find,
// create, save, and remove. A Table binds an entity type's derived
// metadata to a connection provider and turns each operation into one
// parameterized statement; result rows bind back into freshly allocated
// instances through the column accessors.
package record

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/Mihail-K/Dart/pkg/provider"
	"github.com/Mihail-K/Dart/pkg/query"
	"github.com/Mihail-K/Dart/pkg/schema"
	"github.com/Mihail-K/Dart/pkg/value"
)

// Table exposes the lifecycle operations for one entity type. It is
// stateless across calls and safe for concurrent use; each operation
// acquires its own connection and owns its own instances.
type Table[T any] struct {
	provider provider.Provider
	meta     *schema.Metadata
	dialect  query.Dialect
	logger   *slog.Logger
}

// Option configures a Table.
type Option func(*options)

type options struct {
	dialect    query.Dialect
	hasDialect bool
	logger     *slog.Logger
}

// WithDialect overrides the SQL dialect. Without it the provider's
// dialect is used when it exposes one, else the default dialect.
func WithDialect(d query.Dialect) Option {
	return func(o *options) {
		o.dialect = d
		o.hasDialect = true
	}
}

// WithLogger sets the logger for statement traces. Nil discards them.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// New binds the entity type T to a connection provider. Metadata
// derivation runs here, so an invalid entity declaration surfaces as a
// DefinitionError before any lifecycle call can execute.
func New[T any](p provider.Provider, opts ...Option) (*Table[T], error) {
	meta, err := schema.Of[T]()
	if err != nil {
		return nil, err
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	dialect := query.Default
	if d, ok := p.(interface{ Dialect() query.Dialect }); ok {
		dialect = d.Dialect()
	}
	if o.hasDialect {
		dialect = o.dialect
	}

	logger := o.logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Table[T]{provider: p, meta: meta, dialect: dialect, logger: logger}, nil
}

// Metadata returns the entity type's derived metadata.
func (t *Table[T]) Metadata() *schema.Metadata {
	return t.meta
}

// operation identifies one lifecycle call. Its id correlates the
// statement traces logged for the call with the RecordError it may
// return.
type operation struct {
	name string
	id   string
}

func newOp(name string) operation {
	return operation{name: name, id: uuid.NewString()}
}

// Get fetches the entity whose identity column equals key. A key that
// matches no row is a RecordError, never a nil result.
func (t *Table[T]) Get(ctx context.Context, key any) (*T, error) {
	op := newOp("get")

	kv, err := value.FromAny(key)
	if err != nil {
		return nil, t.errorf(op, err, "invalid key")
	}

	sqlText, params, err := query.NewSelect(t.dialect).
		Columns(t.meta.Columns()...).
		From(t.meta.Table).
		Limit(1).
		Where(query.NewWhere().Equals(t.meta.ID, kv)).
		Build()
	if err != nil {
		return nil, t.errorf(op, err, "failed to build query")
	}

	rs, err := t.queryRows(ctx, op, sqlText, params)
	if err != nil {
		return nil, err
	}
	if rs.Empty() {
		return nil, t.errorf(op, nil, "no records found for key %v", key)
	}
	return t.bindRow(op, rs.Columns, rs.Rows[0])
}

// Find fetches every entity matching the condition mapping. Conditions
// conjoin with AND in column declaration order. An empty result is a
// RecordError.
func (t *Table[T]) Find(ctx context.Context, conditions map[string]any) ([]*T, error) {
	op := newOp("find")

	if len(conditions) == 0 {
		return nil, t.errorf(op, nil, "no conditions given")
	}
	for name := range conditions {
		if _, ok := t.meta.Column(name); !ok {
			return nil, t.errorf(op, nil, "unknown column %q", name)
		}
	}

	// Render the mapping as one pre-joined fragment so the condition
	// order is the declaration order, not map iteration order.
	var fragment strings.Builder
	var values []value.Value
	for _, name := range t.meta.Columns() {
		cv, ok := conditions[name]
		if !ok {
			continue
		}
		v, err := value.FromAny(cv)
		if err != nil {
			return nil, t.errorf(op, err, "invalid condition value for column %q", name)
		}
		if fragment.Len() > 0 {
			fragment.WriteString(" AND ")
		}
		fragment.WriteString(t.dialect.QuoteIdent(name))
		fragment.WriteString("=?")
		values = append(values, v)
	}

	sqlText, params, err := query.NewSelect(t.dialect).
		Columns(t.meta.Columns()...).
		From(t.meta.Table).
		Where(query.NewWhere().Raw(fragment.String(), values...)).
		Build()
	if err != nil {
		return nil, t.errorf(op, err, "failed to build query")
	}

	rs, err := t.queryRows(ctx, op, sqlText, params)
	if err != nil {
		return nil, err
	}
	if rs.Empty() {
		return nil, t.errorf(op, nil, "no records found")
	}

	out := make([]*T, 0, len(rs.Rows))
	for _, row := range rs.Rows {
		inst, err := t.bindRow(op, rs.Columns, row)
		if err != nil {
			return nil, err
		}
		out = append(out, inst)
	}
	return out, nil
}

// Create inserts the entity. Column values are read through the
// accessors, so constraint violations surface before any SQL executes.
// An auto-increment identity is omitted from the insert; the database
// generates it, and the generated value is fetched on the same session
// and bound back into the instance.
func (t *Table[T]) Create(ctx context.Context, rec *T) error {
	op := newOp("create")
	identity := t.meta.Identity()

	ins := query.NewInsert(t.dialect).Into(t.meta.Table)
	for _, name := range t.meta.Columns() {
		col, _ := t.meta.Column(name)
		if col.AutoIncrement {
			continue
		}
		v, err := col.Read(rec)
		if err != nil {
			return t.errorf(op, err, "cannot read column %q", name)
		}
		ins.Columns(name).Value(v)
	}

	sqlText, params, err := ins.Build()
	if err != nil {
		return t.errorf(op, err, "failed to build query")
	}

	// The identity query is session-scoped, so the insert and the fetch
	// must share one acquired connection.
	conn, err := t.provider.Acquire(ctx)
	if err != nil {
		return t.errorf(op, err, "cannot acquire connection")
	}
	defer func() { _ = conn.Close() }()

	count, err := t.execOn(ctx, op, conn, sqlText, params)
	if err != nil {
		return err
	}
	if count < 1 {
		return t.errorf(op, nil, "no rows inserted")
	}

	if !identity.AutoIncrement {
		return nil
	}

	rs, err := t.queryOn(ctx, op, conn, t.dialect.IdentityQuery, nil)
	if err != nil {
		return err
	}
	if rs.Empty() || len(rs.Rows[0]) == 0 {
		return t.errorf(op, nil, "no generated identity returned")
	}
	if err := identity.Write(rec, rs.Rows[0][0]); err != nil {
		return t.errorf(op, err, "cannot bind generated identity")
	}
	return nil
}

// Save updates the given columns (all by default) of an existing entity,
// keyed by its current identity value. Zero affected rows is a
// RecordError.
func (t *Table[T]) Save(ctx context.Context, rec *T, columns ...string) error {
	op := newOp("save")

	idValue, err := t.meta.Identity().Read(rec)
	if err != nil {
		return t.errorf(op, err, "cannot read identity column %q", t.meta.ID)
	}

	if len(columns) == 0 {
		columns = t.meta.Columns()
	}
	upd := query.NewUpdate(t.dialect, t.meta.Table)
	for _, name := range columns {
		col, ok := t.meta.Column(name)
		if !ok {
			return t.errorf(op, nil, "unknown column %q", name)
		}
		v, err := col.Read(rec)
		if err != nil {
			return t.errorf(op, err, "cannot read column %q", name)
		}
		upd.Set(name, v)
	}
	upd.Where(query.NewWhere().Equals(t.meta.ID, idValue))

	sqlText, params, err := upd.Build()
	if err != nil {
		return t.errorf(op, err, "failed to build query")
	}

	count, err := t.execCount(ctx, op, sqlText, params)
	if err != nil {
		return err
	}
	if count < 1 {
		return t.errorf(op, nil, "no rows updated")
	}
	return nil
}

// Remove deletes the entity keyed by its current identity value. Zero
// affected rows is a RecordError.
func (t *Table[T]) Remove(ctx context.Context, rec *T) error {
	op := newOp("remove")

	idValue, err := t.meta.Identity().Read(rec)
	if err != nil {
		return t.errorf(op, err, "cannot read identity column %q", t.meta.ID)
	}

	sqlText, params, err := query.NewDelete(t.dialect).
		From(t.meta.Table).
		Where(query.NewWhere().Equals(t.meta.ID, idValue)).
		Build()
	if err != nil {
		return t.errorf(op, err, "failed to build query")
	}

	count, err := t.execCount(ctx, op, sqlText, params)
	if err != nil {
		return err
	}
	if count < 1 {
		return t.errorf(op, nil, "no rows deleted")
	}
	return nil
}

// bindRow allocates a fresh instance and writes every returned column
// through its accessor. Returned columns without a descriptor are
// ignored.
func (t *Table[T]) bindRow(op operation, columns []string, row []value.Value) (*T, error) {
	inst := new(T)
	for i, name := range columns {
		col, ok := t.meta.Column(name)
		if !ok {
			continue
		}
		if err := col.Write(inst, row[i]); err != nil {
			return nil, t.errorf(op, err, "cannot bind column %q", name)
		}
	}
	return inst, nil
}

// queryRows runs one query on its own acquired connection.
func (t *Table[T]) queryRows(ctx context.Context, op operation, sqlText string, params []value.Value) (*provider.RowSet, error) {
	conn, err := t.provider.Acquire(ctx)
	if err != nil {
		return nil, t.errorf(op, err, "cannot acquire connection")
	}
	defer func() { _ = conn.Close() }()
	return t.queryOn(ctx, op, conn, sqlText, params)
}

// execCount runs one statement on its own acquired connection.
func (t *Table[T]) execCount(ctx context.Context, op operation, sqlText string, params []value.Value) (int64, error) {
	conn, err := t.provider.Acquire(ctx)
	if err != nil {
		return 0, t.errorf(op, err, "cannot acquire connection")
	}
	defer func() { _ = conn.Close() }()
	return t.execOn(ctx, op, conn, sqlText, params)
}

func (t *Table[T]) queryOn(ctx context.Context, op operation, conn provider.Conn, sqlText string, params []value.Value) (*provider.RowSet, error) {
	stmt, err := t.prepareOn(ctx, op, conn, sqlText, params)
	if err != nil {
		return nil, err
	}
	defer func() { _ = stmt.Close() }()

	rs, err := stmt.Query(ctx, params)
	if err != nil {
		return nil, t.errorf(op, err, "query failed")
	}
	return rs, nil
}

func (t *Table[T]) execOn(ctx context.Context, op operation, conn provider.Conn, sqlText string, params []value.Value) (int64, error) {
	stmt, err := t.prepareOn(ctx, op, conn, sqlText, params)
	if err != nil {
		return 0, err
	}
	defer func() { _ = stmt.Close() }()

	count, err := stmt.Exec(ctx, params)
	if err != nil {
		return 0, t.errorf(op, err, "statement failed")
	}
	return count, nil
}

func (t *Table[T]) prepareOn(ctx context.Context, op operation, conn provider.Conn, sqlText string, params []value.Value) (provider.Statement, error) {
	t.logger.Debug("executing statement",
		"op", op.name,
		"op_id", op.id,
		"table", t.meta.Table,
		"sql", sqlText,
		"params", len(params))

	stmt, err := conn.Prepare(ctx, sqlText)
	if err != nil {
		return nil, t.errorf(op, err, "cannot prepare statement")
	}
	return stmt, nil
}

func (t *Table[T]) errorf(op operation, cause error, format string, args ...any) error {
	// Already-typed failures pass through unmodified.
	var rerr *RecordError
	if errors.As(cause, &rerr) {
		return cause
	}
	return &RecordError{
		Op:      op.name,
		Table:   t.meta.Table,
		Message: fmt.Sprintf(format, args...),
		OpID:    op.id,
		Err:     cause,
	}
}
