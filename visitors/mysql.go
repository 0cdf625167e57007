package visitors

import (
	"github.com/bawdo/pgdistinct/dialect"
	"github.com/bawdo/pgdistinct/internal/quoting"
)

// MySQLVisitor generates MySQL-dialect SQL.
// Identifiers are quoted with backticks: `table`.`column`.
// DISTINCT_ON and native DISTINCT ON are rejected.
type MySQLVisitor struct {
	*baseVisitor
}

// NewMySQLVisitor creates a MySQLVisitor ready for use.
// Parameterized mode is enabled by default for SQL injection protection.
// Pass WithoutParams() to disable (not recommended for production).
func NewMySQLVisitor(opts ...Option) *MySQLVisitor {
	v := &MySQLVisitor{}
	v.baseVisitor = &baseVisitor{
		outer:        v,
		quoteIdent:   quoting.Backtick,
		functions:    dialect.MySQL(),
		placeholder:  func(_ int) string { return "?" },
		parameterize: true,
	}
	v.applyOptions(opts)
	return v
}
