package plugins

import "github.com/bawdo/pgdistinct/nodes"

// GroupingColumns returns the columns a SELECT keeps one row per group of.
// A DISTINCT_ON call in the first projection wins over the native
// DistinctOn list. A DISTINCT_ON call with fewer than two arguments yields
// nil so that rendering reports the argument error unchanged.
func GroupingColumns(core *nodes.SelectCore) []nodes.Node {
	if call, ok := core.PickFirst(); ok {
		return call.GroupingColumns()
	}
	return core.DistinctOn
}

// SameExpr reports whether a and b render the same expression. Attributes
// match by relation name and column; any other node matches only itself.
func SameExpr(a, b nodes.Node) bool {
	if a == b {
		return true
	}
	aa, ok := a.(*nodes.Attribute)
	if !ok {
		return false
	}
	ba, ok := b.(*nodes.Attribute)
	if !ok {
		return false
	}
	return aa.SameColumn(ba)
}
