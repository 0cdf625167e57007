package nodes

// LiteralNode wraps a raw Go value (string, int, float, bool, etc.) as an AST node.
type LiteralNode struct {
	Predications
	Combinable
	Value any
}

func (n *LiteralNode) Accept(v Visitor) string { return v.VisitLiteral(n) }

// StarNode represents a SQL star (*) or qualified star (table.* / alias.*).
type StarNode struct {
	Relation Node // nil for unqualified *
}

func (n *StarNode) Accept(v Visitor) string { return v.VisitStar(n) }

// Star returns an unqualified StarNode representing SQL *.
func Star() *StarNode {
	return &StarNode{}
}

// SqlLiteral represents a raw SQL fragment injected verbatim into the query.
//
// SECURITY: The Raw field is rendered directly into SQL output without escaping
// or parameterization. Never pass user-controlled input to NewSqlLiteral.
type SqlLiteral struct {
	Predications
	Combinable
	Raw string
}

func NewSqlLiteral(raw string) *SqlLiteral {
	n := &SqlLiteral{Raw: raw}
	n.Predications.self = n
	n.Combinable.self = n
	return n
}

func (n *SqlLiteral) Accept(v Visitor) string { return v.VisitSqlLiteral(n) }

// BindParamNode represents an explicit bind parameter placeholder.
// Its Value is always emitted as a bind parameter in parameterized mode,
// or rendered as a literal value in non-parameterized mode.
type BindParamNode struct {
	Value any
}

func (n *BindParamNode) Accept(v Visitor) string { return v.VisitBindParam(n) }

// NewBindParam creates a BindParamNode.
func NewBindParam(value any) *BindParamNode {
	return &BindParamNode{Value: value}
}
