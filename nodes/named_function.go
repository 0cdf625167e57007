package nodes

import "github.com/bawdo/pgdistinct/dialect"

// NamedFunctionNode represents a named SQL function call like COALESCE or
// LOWER, or a dialect-registered function such as DISTINCT_ON.
type NamedFunctionNode struct {
	Predications
	Combinable
	Name string
	Args []Node
}

func (n *NamedFunctionNode) Accept(v Visitor) string { return v.VisitNamedFunction(n) }

// NewNamedFunction creates a NamedFunctionNode with properly initialised embedded structs.
func NewNamedFunction(name string, args ...Node) *NamedFunctionNode {
	n := &NamedFunctionNode{Name: name, Args: args}
	n.Predications.self = n
	n.Combinable.self = n
	return n
}

// Coalesce creates a COALESCE(args...) function call.
func Coalesce(args ...Node) *NamedFunctionNode {
	return NewNamedFunction("COALESCE", args...)
}

// Lower creates a LOWER(expr) function call.
func Lower(expr Node) *NamedFunctionNode {
	return NewNamedFunction("LOWER", expr)
}

// DistinctOn creates a DISTINCT_ON(columns..., entity) call. The last
// argument is the entity to select; every argument before it is a grouping
// column. Use it as the first projection of a SELECT.
func DistinctOn(columnsAndEntity ...Node) *NamedFunctionNode {
	return NewNamedFunction(dialect.DistinctOnName, columnsAndEntity...)
}

// GroupingColumns returns the grouping columns of a DISTINCT_ON call:
// every argument but the last. It returns nil when n is not a DISTINCT_ON
// call or has fewer than two arguments.
func (n *NamedFunctionNode) GroupingColumns() []Node {
	if n.Name != dialect.DistinctOnName || len(n.Args) < 2 {
		return nil
	}
	return n.Args[:len(n.Args)-1]
}
