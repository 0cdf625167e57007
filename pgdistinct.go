// Package pgdistinct builds PostgreSQL "pick first row per group" queries.
//
// The DISTINCT_ON function takes grouping columns followed by the entity to
// select and renders DISTINCT ON(c1,c2) entity directly after SELECT:
//
//	e := pgdistinct.NewTable("employees").Alias("e")
//	sql, params, err := pgdistinct.NewSelect(e).
//	    PickFirst(e.Col("department"), e.Star()).
//	    Order(e.Col("salary").Desc()).
//	    Use(distinctorder.New()).
//	    ToSQL(pgdistinct.NewPostgresVisitor())
//
// This package re-exports commonly used types and functions from subpackages
// for convenience. Advanced users can import subpackages directly:
//   - github.com/bawdo/pgdistinct/dialect (function registry and the clause renderer)
//   - github.com/bawdo/pgdistinct/managers (query builders)
//   - github.com/bawdo/pgdistinct/nodes (AST nodes)
//   - github.com/bawdo/pgdistinct/visitors (SQL generation)
//   - github.com/bawdo/pgdistinct/plugins (query transformers)
package pgdistinct

import (
	"github.com/bawdo/pgdistinct/dialect"
	"github.com/bawdo/pgdistinct/managers"
	"github.com/bawdo/pgdistinct/nodes"
	"github.com/bawdo/pgdistinct/visitors"
)

// SelectManager provides a fluent API for building SELECT queries.
type SelectManager = managers.SelectManager

// NewSelect creates a new SelectManager with the given table as FROM.
func NewSelect(from nodes.Node) *managers.SelectManager {
	return managers.NewSelectManager(from)
}

// --- Core Node Types ---

// Table represents a SQL table reference.
type Table = nodes.Table

// Attribute represents a column reference (e.g., table.column).
type Attribute = nodes.Attribute

// Node is the base interface all AST nodes implement.
type Node = nodes.Node

// NewTable creates a new table reference.
func NewTable(name string) *nodes.Table {
	return nodes.NewTable(name)
}

// Literal creates a SQL literal node (e.g., numbers, strings).
func Literal(value any) nodes.Node {
	return nodes.Literal(value)
}

// BindParam creates a parameterised placeholder (e.g., $1, ?).
func BindParam(value any) *nodes.BindParamNode {
	return nodes.NewBindParam(value)
}

// Star creates an unqualified star (*) for SELECT *.
func Star() *nodes.StarNode {
	return nodes.Star()
}

// DistinctOn creates a DISTINCT_ON(columns..., entity) call for use as the
// first projection.
func DistinctOn(columnsAndEntity ...nodes.Node) *nodes.NamedFunctionNode {
	return nodes.DistinctOn(columnsAndEntity...)
}

// --- Clause rendering ---

// RenderDistinctOn renders already-compiled tokens. The last token is the
// entity, every token before it a grouping column.
func RenderDistinctOn(tokens ...string) (string, error) {
	return dialect.RenderDistinctOn(tokens)
}

var (
	// ErrMissingArguments reports a DISTINCT_ON call with no arguments.
	ErrMissingArguments = dialect.ErrMissingArguments
	// ErrInsufficientArguments reports a DISTINCT_ON call without a
	// grouping column.
	ErrInsufficientArguments = dialect.ErrInsufficientArguments
)

// --- Visitors ---

// SQLiteVisitor generates SQLite-compatible SQL.
type SQLiteVisitor = visitors.SQLiteVisitor

// PostgresVisitor generates PostgreSQL-compatible SQL.
type PostgresVisitor = visitors.PostgresVisitor

// MySQLVisitor generates MySQL-compatible SQL.
type MySQLVisitor = visitors.MySQLVisitor

// NewSQLiteVisitor creates a new SQLite visitor.
func NewSQLiteVisitor(opts ...visitors.Option) *visitors.SQLiteVisitor {
	return visitors.NewSQLiteVisitor(opts...)
}

// NewPostgresVisitor creates a new PostgreSQL visitor.
func NewPostgresVisitor(opts ...visitors.Option) *visitors.PostgresVisitor {
	return visitors.NewPostgresVisitor(opts...)
}

// NewMySQLVisitor creates a new MySQL visitor.
func NewMySQLVisitor(opts ...visitors.Option) *visitors.MySQLVisitor {
	return visitors.NewMySQLVisitor(opts...)
}

// WithoutParams disables parameterised query mode.
//
// ⚠️ WARNING: Disables SQL injection protection. Only use for debugging or when
// you're certain all values are trusted.
func WithoutParams() visitors.Option {
	return visitors.WithoutParams()
}

// WithFunctions replaces a visitor's function registry.
func WithFunctions(r *dialect.Registry) visitors.Option {
	return visitors.WithFunctions(r)
}
