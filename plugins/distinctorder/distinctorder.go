// Package distinctorder provides a Transformer that aligns ORDER BY with
// the grouping columns of a DISTINCT ON query.
//
// PostgreSQL requires the DISTINCT ON expressions to match the leftmost
// ORDER BY expressions. Which row of each group is kept is then decided by
// the orderings that follow them.
//
// # Basic usage
//
//	query := managers.NewSelectManager(e).
//	    PickFirst(e.Col("department"), e.Star()).
//	    Order(e.Col("salary").Desc()).
//	    Use(distinctorder.New())
//	// ... ORDER BY "e"."department" ASC, "e"."salary" DESC
//
// A grouping column that is already ordered keeps its direction and
// NULLS placement; it is only moved to the front.
//
// # Strict mode
//
//	distinctorder.New(distinctorder.Strict())
//
// reports ErrOrderMismatch instead of rewriting the ORDER BY clause.
package distinctorder

import (
	"errors"
	"fmt"

	"github.com/bawdo/pgdistinct/nodes"
	"github.com/bawdo/pgdistinct/plugins"
)

// ErrOrderMismatch is returned in strict mode when ORDER BY does not start
// with the grouping columns.
var ErrOrderMismatch = errors.New("ORDER BY must start with the DISTINCT ON columns")

// DistinctOrder is a Transformer that prefixes ORDER BY with the grouping
// columns of DISTINCT_ON or native DISTINCT ON.
type DistinctOrder struct {
	plugins.BaseTransformer
	// Direction is used for grouping columns that are not already ordered.
	Direction nodes.OrderDirection
	strict    bool
}

// Option configures a DistinctOrder transformer.
type Option func(*DistinctOrder)

// WithDirection sets the direction for grouping columns added to ORDER BY.
// Default is ascending.
func WithDirection(d nodes.OrderDirection) Option {
	return func(do *DistinctOrder) { do.Direction = d }
}

// Strict makes the transformer fail rather than rewrite a mismatched ORDER BY.
func Strict() Option {
	return func(do *DistinctOrder) { do.strict = true }
}

// New creates a DistinctOrder transformer with the given options.
func New(opts ...Option) *DistinctOrder {
	do := &DistinctOrder{Direction: nodes.Asc}
	for _, o := range opts {
		o(do)
	}
	return do
}

// TransformSelect rewrites core.Orders so it begins with the grouping
// columns, followed by the remaining orderings in their original order.
func (do *DistinctOrder) TransformSelect(core *nodes.SelectCore) (*nodes.SelectCore, error) {
	cols := plugins.GroupingColumns(core)
	if len(cols) == 0 {
		return core, nil
	}

	if do.strict {
		if !aligned(cols, core.Orders) {
			return nil, fmt.Errorf("distinctorder: %w", ErrOrderMismatch)
		}
		return core, nil
	}

	used := make([]bool, len(core.Orders))
	orders := make([]nodes.Node, 0, len(cols)+len(core.Orders))
	for _, col := range cols {
		if i := indexOf(core.Orders, col, used); i >= 0 {
			used[i] = true
			orders = append(orders, core.Orders[i])
			continue
		}
		orders = append(orders, &nodes.OrderingNode{Expr: col, Direction: do.Direction})
	}
	for i, o := range core.Orders {
		if !used[i] {
			orders = append(orders, o)
		}
	}
	core.Orders = orders
	return core, nil
}

// indexOf returns the first unused ordering over col, or -1.
func indexOf(orders []nodes.Node, col nodes.Node, used []bool) int {
	for i, o := range orders {
		if used[i] {
			continue
		}
		if ord, ok := o.(*nodes.OrderingNode); ok && plugins.SameExpr(ord.Expr, col) {
			return i
		}
	}
	return -1
}

// aligned reports whether orders starts with the grouping columns, in any
// order among themselves.
func aligned(cols, orders []nodes.Node) bool {
	if len(orders) < len(cols) {
		return false
	}
	used := make([]bool, len(cols))
	for _, o := range orders[:len(cols)] {
		ord, ok := o.(*nodes.OrderingNode)
		if !ok {
			return false
		}
		found := false
		for j, col := range cols {
			if !used[j] && plugins.SameExpr(ord.Expr, col) {
				used[j] = true
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
