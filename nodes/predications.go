package nodes

// Predications provides comparison and ordering methods to types that embed
// it. The self field must be set to the embedding node so that comparisons
// reference the correct left-hand side.
type Predications struct {
	self Node
}

func (p Predications) compare(op ComparisonOp, val any) *ComparisonNode {
	return NewComparisonNode(p.self, Literal(val), op)
}

// Eq creates an equality comparison: self = val.
func (p Predications) Eq(val any) *ComparisonNode { return p.compare(OpEq, val) }

// NotEq creates an inequality comparison: self != val.
func (p Predications) NotEq(val any) *ComparisonNode { return p.compare(OpNotEq, val) }

// Gt creates a greater-than comparison: self > val.
func (p Predications) Gt(val any) *ComparisonNode { return p.compare(OpGt, val) }

// GtEq creates a greater-than-or-equal comparison: self >= val.
func (p Predications) GtEq(val any) *ComparisonNode { return p.compare(OpGtEq, val) }

// Lt creates a less-than comparison: self < val.
func (p Predications) Lt(val any) *ComparisonNode { return p.compare(OpLt, val) }

// LtEq creates a less-than-or-equal comparison: self <= val.
func (p Predications) LtEq(val any) *ComparisonNode { return p.compare(OpLtEq, val) }

// Asc creates an ascending OrderingNode for self.
func (p Predications) Asc() *OrderingNode {
	return &OrderingNode{Expr: p.self, Direction: Asc}
}

// Desc creates a descending OrderingNode for self.
func (p Predications) Desc() *OrderingNode {
	return &OrderingNode{Expr: p.self, Direction: Desc}
}
