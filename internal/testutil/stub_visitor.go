// Package testutil provides shared test helpers for the pgdistinct project.
package testutil

import (
	"strings"

	"github.com/bawdo/pgdistinct/nodes"
)

// StubVisitor implements nodes.Visitor with minimal return values for testing.
// Attributes render as relation.name so transformer tests can compare
// orderings without a dialect.
type StubVisitor struct{}

var _ nodes.Visitor = StubVisitor{}

func (sv StubVisitor) VisitTable(n *nodes.Table) string           { return n.Name }
func (sv StubVisitor) VisitTableAlias(n *nodes.TableAlias) string { return n.AliasName }
func (sv StubVisitor) VisitAttribute(n *nodes.Attribute) string {
	return nodes.RelationName(n.Relation) + "." + n.Name
}
func (sv StubVisitor) VisitLiteral(n *nodes.LiteralNode) string     { return "lit" }
func (sv StubVisitor) VisitStar(n *nodes.StarNode) string           { return "*" }
func (sv StubVisitor) VisitSqlLiteral(n *nodes.SqlLiteral) string   { return n.Raw }
func (sv StubVisitor) VisitBindParam(n *nodes.BindParamNode) string { return "?" }
func (sv StubVisitor) VisitComparison(n *nodes.ComparisonNode) string {
	return n.Left.Accept(sv) + "=?" + n.Right.Accept(sv)
}
func (sv StubVisitor) VisitAnd(n *nodes.AndNode) string           { return "and" }
func (sv StubVisitor) VisitGrouping(n *nodes.GroupingNode) string { return "grouping" }
func (sv StubVisitor) VisitOrdering(n *nodes.OrderingNode) string {
	if n.Direction == nodes.Desc {
		return n.Expr.Accept(sv) + " desc"
	}
	return n.Expr.Accept(sv) + " asc"
}
func (sv StubVisitor) VisitNamedFunction(n *nodes.NamedFunctionNode) string {
	args := make([]string, len(n.Args))
	for i, a := range n.Args {
		args[i] = a.Accept(sv)
	}
	return n.Name + "(" + strings.Join(args, ",") + ")"
}
func (sv StubVisitor) VisitSelectCore(n *nodes.SelectCore) string { return "select_core" }

// Orders renders each ORDER BY entry of core with the stub visitor.
func Orders(core *nodes.SelectCore) []string {
	out := make([]string, len(core.Orders))
	for i, o := range core.Orders {
		out[i] = o.Accept(StubVisitor{})
	}
	return out
}
