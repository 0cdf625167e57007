package visitors

import (
	"fmt"

	"github.com/bawdo/pgdistinct/dialect"
	"github.com/bawdo/pgdistinct/internal/quoting"
)

// PostgresVisitor generates PostgreSQL-dialect SQL.
// Identifiers are quoted with double quotes: "table"."column".
// DISTINCT_ON is registered, so DISTINCT_ON(e.department, e) in the first
// projection renders as DISTINCT ON("e"."department") "e".*.
type PostgresVisitor struct {
	*baseVisitor
}

// NewPostgresVisitor creates a PostgresVisitor ready for use.
// Parameterized mode is enabled by default.
func NewPostgresVisitor(opts ...Option) *PostgresVisitor {
	v := &PostgresVisitor{}
	v.baseVisitor = &baseVisitor{
		outer:        v,
		quoteIdent:   quoting.DoubleQuote,
		functions:    dialect.Postgres(),
		placeholder:  func(i int) string { return fmt.Sprintf("$%d", i) },
		parameterize: true,
	}
	v.applyOptions(opts)
	return v
}
