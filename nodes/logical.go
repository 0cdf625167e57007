package nodes

// Combinable provides logical chaining to types that embed it.
// The self field must be set to the embedding node.
type Combinable struct {
	self Node
}

// And creates an AndNode combining self with other.
func (c Combinable) And(other Node) *AndNode {
	n := &AndNode{Left: c.self, Right: other}
	n.self = n
	return n
}

// AndNode represents a logical AND between two expressions.
type AndNode struct {
	Combinable
	Left  Node
	Right Node
}

func (n *AndNode) Accept(v Visitor) string { return v.VisitAnd(n) }

// GroupingNode wraps an expression in parentheses for precedence control.
type GroupingNode struct {
	Combinable
	Expr Node
}

func (n *GroupingNode) Accept(v Visitor) string { return v.VisitGrouping(n) }

// NewGrouping wraps expr in a GroupingNode.
func NewGrouping(expr Node) *GroupingNode {
	g := &GroupingNode{Expr: expr}
	g.self = g
	return g
}
