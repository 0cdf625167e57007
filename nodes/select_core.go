package nodes

import "github.com/bawdo/pgdistinct/dialect"

// SelectCore represents the data container for a SELECT clause.
// The fluent API for building queries lives in the managers package.
type SelectCore struct {
	From        Node
	Projections []Node
	Wheres      []Node
	Orders      []Node // OrderingNode values
	Limit       Node   // nil or LiteralNode
	Offset      Node   // nil or LiteralNode
	Distinct    bool
	DistinctOn  []Node // DISTINCT ON columns (PostgreSQL)
}

func (n *SelectCore) Accept(v Visitor) string { return v.VisitSelectCore(n) }

// PickFirst returns the DISTINCT_ON call in the first projection, if any.
func (n *SelectCore) PickFirst() (*NamedFunctionNode, bool) {
	if len(n.Projections) == 0 {
		return nil, false
	}
	fn, ok := n.Projections[0].(*NamedFunctionNode)
	if !ok || fn.Name != dialect.DistinctOnName {
		return nil, false
	}
	return fn, true
}
