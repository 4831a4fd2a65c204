// Package query provides composable builders for parameterized SQL
// statements. Each builder accumulates structured parts and renders one
// statement plus its ordered parameter list; identifiers are always
// quoted through the dialect and values only ever travel as parameters.
package query

import (
	"fmt"
	"strings"
)

// Dialect captures the lexical differences between supported databases:
// identifier quoting, parameter placeholders, and the query that fetches
// the last generated identity after an auto-increment insert.
type Dialect struct {
	// Name identifies the dialect ("mysql", "sqlite", "postgres").
	Name string

	// IdentityQuery fetches the identity generated by the last insert
	// on the current connection.
	IdentityQuery string

	quote    byte
	numbered bool
}

// MySQL quotes identifiers with backticks and uses ? placeholders.
var MySQL = Dialect{
	Name:          "mysql",
	IdentityQuery: "SELECT LAST_INSERT_ID()",
	quote:         '`',
}

// SQLite quotes identifiers with double quotes and uses ? placeholders.
var SQLite = Dialect{
	Name:          "sqlite",
	IdentityQuery: "SELECT last_insert_rowid()",
	quote:         '"',
}

// Postgres quotes identifiers with double quotes and uses numbered $N
// placeholders.
var Postgres = Dialect{
	Name:          "postgres",
	IdentityQuery: "SELECT lastval()",
	quote:         '"',
	numbered:      true,
}

// Default is the dialect used when none is configured.
var Default = MySQL

// QuoteIdent quotes an identifier, escaping embedded quote characters by
// doubling them. Qualified names quote each dot-separated part.
func (d Dialect) QuoteIdent(name string) string {
	q := d.quote
	if q == 0 {
		q = '`'
	}
	parts := strings.Split(name, ".")
	for i, part := range parts {
		escaped := strings.ReplaceAll(part, string(q), string(q)+string(q))
		parts[i] = string(q) + escaped + string(q)
	}
	return strings.Join(parts, ".")
}

// Placeholder returns the parameter placeholder for the 1-based position n.
func (d Dialect) Placeholder(n int) string {
	if d.numbered {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}
