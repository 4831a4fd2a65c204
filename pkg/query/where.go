package query

import (
	"strings"

	"github.com/Mihail-K/Dart/pkg/value"
)

// Where composes equality and raw-fragment conditions conjunctively.
// Conditions render in the order they were added, and every condition's
// values are appended at the moment its placeholders are rendered, which
// keeps parameter order aligned with placeholder order.
type Where struct {
	conds []condition
}

type condition struct {
	// column/v for an equality condition; raw/values for a pre-joined
	// fragment whose ? markers stand for the ordered values.
	column string
	v      value.Value
	raw    string
	values []value.Value
	isRaw  bool
}

// NewWhere returns an empty predicate builder.
func NewWhere() *Where {
	return &Where{}
}

// Equals appends a `column`=? condition with its parameter.
func (w *Where) Equals(column string, v value.Value) *Where {
	w.conds = append(w.conds, condition{column: column, v: v})
	return w
}

// Raw appends a pre-joined condition fragment. Each ? in the fragment is
// a placeholder for the corresponding entry of values, in order.
func (w *Where) Raw(fragment string, values ...value.Value) *Where {
	w.conds = append(w.conds, condition{raw: fragment, values: values, isRaw: true})
	return w
}

// Empty reports whether no conditions were added.
func (w *Where) Empty() bool {
	return w == nil || len(w.conds) == 0
}

// render writes the predicate body (without the WHERE keyword) and
// appends its parameters. n is the running 1-based placeholder counter,
// shared with the enclosing statement for numbered-placeholder dialects.
func (w *Where) render(d Dialect, sb *strings.Builder, params *[]value.Value, n *int) {
	for i, c := range w.conds {
		if i > 0 {
			sb.WriteString(" AND ")
		}
		if c.isRaw {
			vi := 0
			for _, r := range c.raw {
				if r == '?' && vi < len(c.values) {
					sb.WriteString(d.Placeholder(*n))
					*params = append(*params, c.values[vi])
					*n++
					vi++
					continue
				}
				sb.WriteRune(r)
			}
			continue
		}
		sb.WriteString(d.QuoteIdent(c.column))
		sb.WriteByte('=')
		sb.WriteString(d.Placeholder(*n))
		*params = append(*params, c.v)
		*n++
	}
}
