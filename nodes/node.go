// Package nodes defines the AST node types used to represent SQL query elements.
package nodes

// Node is the interface that all AST nodes implement.
type Node interface {
	Accept(visitor Visitor) string
}

// Visitor defines the interface for walking the AST and producing output.
// Concrete visitors (Postgres, MySQL, SQLite) implement this interface.
type Visitor interface {
	VisitTable(node *Table) string
	VisitTableAlias(node *TableAlias) string
	VisitAttribute(node *Attribute) string
	VisitLiteral(node *LiteralNode) string
	VisitStar(node *StarNode) string
	VisitSqlLiteral(node *SqlLiteral) string
	VisitBindParam(node *BindParamNode) string
	VisitComparison(node *ComparisonNode) string
	VisitAnd(node *AndNode) string
	VisitGrouping(node *GroupingNode) string
	VisitOrdering(node *OrderingNode) string
	VisitNamedFunction(node *NamedFunctionNode) string
	VisitSelectCore(node *SelectCore) string
}

// Parameterizer is implemented by visitors that support parameterized queries.
// Callers use type assertion to extract collected parameters after SQL generation.
type Parameterizer interface {
	Params() []any
	Reset()
}

// ErrorReporter is implemented by visitors that can fail while compiling,
// for example when a registered function rejects its arguments. Accept
// returns a string, so the first failure is held until the caller asks.
type ErrorReporter interface {
	Err() error
}

// Literal wraps a raw Go value into a LiteralNode. If val already
// implements Node, it is returned as-is.
func Literal(val any) Node {
	if n, ok := val.(Node); ok {
		return n
	}
	lit := &LiteralNode{Value: val}
	lit.Predications.self = lit
	lit.Combinable.self = lit
	return lit
}
