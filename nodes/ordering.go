package nodes

// OrderDirection represents ASC or DESC ordering.
type OrderDirection int

const (
	Asc OrderDirection = iota
	Desc
)

// NullsDirection controls NULLS FIRST/LAST positioning.
type NullsDirection int

const (
	NullsDefault NullsDirection = iota
	NullsFirst
	NullsLast
)

// OrderingNode represents an ORDER BY expression with a direction.
type OrderingNode struct {
	Expr      Node
	Direction OrderDirection
	Nulls     NullsDirection
}

func (n *OrderingNode) Accept(v Visitor) string { return v.VisitOrdering(n) }

// NullsFirst returns n with NULLS FIRST set.
func (n *OrderingNode) NullsFirst() *OrderingNode {
	n.Nulls = NullsFirst
	return n
}

// NullsLast returns n with NULLS LAST set.
func (n *OrderingNode) NullsLast() *OrderingNode {
	n.Nulls = NullsLast
	return n
}
