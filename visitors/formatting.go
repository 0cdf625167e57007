package visitors

import (
	"strings"

	"github.com/bawdo/pgdistinct/nodes"
)

// modifierRenderer is implemented by the dialect visitors through
// baseVisitor.
type modifierRenderer interface {
	SelectModifier(core *nodes.SelectCore) (string, bool)
	NativeDistinctOnAllowed() bool
}

// FormattingVisitor wraps a dialect visitor and produces human-readable
// multi-line SQL. Only VisitSelectCore differs from the wrapped visitor;
// every other node is delegated.
type FormattingVisitor struct {
	inner nodes.Visitor
}

var _ nodes.Visitor = (*FormattingVisitor)(nil)
var _ nodes.Parameterizer = (*FormattingVisitor)(nil)
var _ nodes.ErrorReporter = (*FormattingVisitor)(nil)

// NewFormattingVisitor constructs a FormattingVisitor wrapping the given
// dialect visitor.
func NewFormattingVisitor(inner nodes.Visitor) *FormattingVisitor {
	if inner == nil {
		panic("pgdistinct: FormattingVisitor requires a non-nil inner visitor")
	}
	return &FormattingVisitor{inner: inner}
}

// Params delegates to the inner visitor if it implements nodes.Parameterizer.
func (f *FormattingVisitor) Params() []any {
	if p, ok := f.inner.(nodes.Parameterizer); ok {
		return p.Params()
	}
	return nil
}

// Reset delegates to the inner visitor if it implements nodes.Parameterizer.
func (f *FormattingVisitor) Reset() {
	if p, ok := f.inner.(nodes.Parameterizer); ok {
		p.Reset()
	}
}

// Err delegates to the inner visitor if it implements nodes.ErrorReporter.
func (f *FormattingVisitor) Err() error {
	if r, ok := f.inner.(nodes.ErrorReporter); ok {
		return r.Err()
	}
	return nil
}

func (f *FormattingVisitor) VisitTable(node *nodes.Table) string {
	return f.inner.VisitTable(node)
}

func (f *FormattingVisitor) VisitTableAlias(node *nodes.TableAlias) string {
	return f.inner.VisitTableAlias(node)
}

func (f *FormattingVisitor) VisitAttribute(node *nodes.Attribute) string {
	return f.inner.VisitAttribute(node)
}

func (f *FormattingVisitor) VisitLiteral(node *nodes.LiteralNode) string {
	return f.inner.VisitLiteral(node)
}

func (f *FormattingVisitor) VisitStar(node *nodes.StarNode) string {
	return f.inner.VisitStar(node)
}

func (f *FormattingVisitor) VisitSqlLiteral(node *nodes.SqlLiteral) string {
	return f.inner.VisitSqlLiteral(node)
}

func (f *FormattingVisitor) VisitBindParam(node *nodes.BindParamNode) string {
	return f.inner.VisitBindParam(node)
}

func (f *FormattingVisitor) VisitComparison(node *nodes.ComparisonNode) string {
	return f.inner.VisitComparison(node)
}

func (f *FormattingVisitor) VisitAnd(node *nodes.AndNode) string {
	return f.inner.VisitAnd(node)
}

func (f *FormattingVisitor) VisitGrouping(node *nodes.GroupingNode) string {
	return f.inner.VisitGrouping(node)
}

func (f *FormattingVisitor) VisitOrdering(node *nodes.OrderingNode) string {
	return f.inner.VisitOrdering(node)
}

func (f *FormattingVisitor) VisitNamedFunction(node *nodes.NamedFunctionNode) string {
	return f.inner.VisitNamedFunction(node)
}

// VisitSelectCore renders each clause on its own line, with leading commas
// for projections and orderings.
func (f *FormattingVisitor) VisitSelectCore(node *nodes.SelectCore) string {
	var sb strings.Builder

	sb.WriteString("SELECT")
	projections := node.Projections
	modifier, hasModifier := "", false
	mr, isDialect := f.inner.(modifierRenderer)
	if isDialect {
		modifier, hasModifier = mr.SelectModifier(node)
	}
	switch {
	case hasModifier:
		sb.WriteString(" ")
		sb.WriteString(strings.TrimRight(modifier, " "))
		projections = projections[1:]
	case len(node.DistinctOn) > 0 && isDialect && !mr.NativeDistinctOnAllowed():
		// denied; the inner visitor holds the error
	case len(node.DistinctOn) > 0:
		sb.WriteString(" DISTINCT ON (")
		for i, c := range node.DistinctOn {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(c.Accept(f.inner))
		}
		sb.WriteString(")")
	case node.Distinct:
		sb.WriteString(" DISTINCT")
	}

	if len(projections) == 0 && !hasModifier {
		sb.WriteString(" *")
	}
	for i, p := range projections {
		if i == 0 && !hasModifier {
			sb.WriteString(" ")
		} else {
			sb.WriteString("\n\t,")
		}
		sb.WriteString(p.Accept(f.inner))
	}

	if node.From != nil {
		sb.WriteString("\nFROM ")
		sb.WriteString(node.From.Accept(f.inner))
	}

	if len(node.Wheres) > 0 {
		sb.WriteString("\nWHERE ")
		sb.WriteString(node.Wheres[0].Accept(f.inner))
		for _, w := range node.Wheres[1:] {
			sb.WriteString("\n\tAND ")
			sb.WriteString(w.Accept(f.inner))
		}
	}

	if len(node.Orders) > 0 {
		sb.WriteString("\nORDER BY ")
		sb.WriteString(node.Orders[0].Accept(f.inner))
		for _, o := range node.Orders[1:] {
			sb.WriteString("\n\t,")
			sb.WriteString(o.Accept(f.inner))
		}
	}

	if node.Limit != nil {
		sb.WriteString("\nLIMIT ")
		sb.WriteString(node.Limit.Accept(f.inner))
	}
	if node.Offset != nil {
		sb.WriteString("\nOFFSET ")
		sb.WriteString(node.Offset.Accept(f.inner))
	}

	return sb.String()
}
