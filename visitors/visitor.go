// Package visitors provides SQL dialect generators that walk the AST.
package visitors

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bawdo/pgdistinct/dialect"
	"github.com/bawdo/pgdistinct/internal/quoting"
	"github.com/bawdo/pgdistinct/nodes"
)

// Operator SQL strings for ComparisonOp values.
var comparisonOpSQL = [...]string{
	nodes.OpEq:    "=",
	nodes.OpNotEq: "!=",
	nodes.OpGt:    ">",
	nodes.OpGtEq:  ">=",
	nodes.OpLt:    "<",
	nodes.OpLtEq:  "<=",
}

// ErrFunctionName is recorded when an unregistered function name contains
// characters outside [A-Za-z0-9_].
var ErrFunctionName = errors.New("invalid SQL function name")

// PlacementError is recorded when a select-modifier function (DISTINCT_ON)
// appears anywhere other than the first projection of a SELECT.
type PlacementError struct {
	Function string
}

func (e *PlacementError) Error() string {
	return e.Function + " must be the first projection of a SELECT"
}

// Option configures a visitor at construction time.
type Option func(*baseVisitor)

// WithParams enables parameterized query mode. Parameterized mode is the
// default; the option exists for symmetry with WithoutParams.
func WithParams() Option {
	return func(b *baseVisitor) {
		b.parameterize = true
	}
}

// WithoutParams disables parameterized query mode.
//
// ⚠️ WARNING: Disables SQL injection protection. Literal values are
// interpolated into the SQL string with basic escaping only. Use it for
// debugging output, never for untrusted input.
func WithoutParams() Option {
	return func(b *baseVisitor) {
		b.parameterize = false
	}
}

// WithFunctions replaces the dialect's function registry.
func WithFunctions(r *dialect.Registry) Option {
	return func(b *baseVisitor) {
		b.functions = r
	}
}

// baseVisitor implements the shared SQL generation logic used by all dialects.
// Dialect-specific visitors embed *baseVisitor and set the outer field to
// themselves, enabling correct virtual dispatch through the Visitor interface.
type baseVisitor struct {
	// outer is the concrete dialect visitor. All recursive Accept calls
	// go through outer so that dialect overrides are respected.
	outer nodes.Visitor

	// quoteIdent quotes a SQL identifier (table name, column name).
	quoteIdent func(string) string

	// functions holds the dialect's registered and denied functions.
	functions *dialect.Registry

	parameterize bool
	params       []any
	paramIndex   int

	// placeholder returns the bind placeholder for a given parameter index.
	// PostgreSQL uses $1, $2; MySQL/SQLite use ?.
	placeholder func(int) string

	// err is the first compilation error. Later errors are dropped.
	err error
}

func (b *baseVisitor) applyOptions(opts []Option) {
	for _, o := range opts {
		o(b)
	}
}

// Params returns the collected bind parameters from the last SQL generation.
func (b *baseVisitor) Params() []any {
	return b.params
}

// Err returns the first error recorded since the last Reset.
func (b *baseVisitor) Err() error {
	return b.err
}

// Reset clears collected parameters and the recorded error for reuse.
func (b *baseVisitor) Reset() {
	b.params = nil
	b.paramIndex = 0
	b.err = nil
}

// Functions returns the visitor's function registry.
func (b *baseVisitor) Functions() *dialect.Registry {
	return b.functions
}

func (b *baseVisitor) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}

func (b *baseVisitor) VisitTable(n *nodes.Table) string {
	return b.quoteIdent(n.Name)
}

func (b *baseVisitor) VisitTableAlias(n *nodes.TableAlias) string {
	if tbl, ok := n.Relation.(*nodes.Table); ok {
		return b.quoteIdent(tbl.Name) + " AS " + b.quoteIdent(n.AliasName)
	}
	return "(" + n.Relation.Accept(b.outer) + ") AS " + b.quoteIdent(n.AliasName)
}

func (b *baseVisitor) VisitAttribute(n *nodes.Attribute) string {
	return b.quoteIdent(nodes.RelationName(n.Relation)) + "." + b.quoteIdent(n.Name)
}

func (b *baseVisitor) VisitLiteral(n *nodes.LiteralNode) string {
	return b.literalToSQL(n.Value)
}

func (b *baseVisitor) literalToSQL(val any) string {
	// nil always renders as NULL keyword, never parameterized.
	if val == nil {
		return "NULL"
	}

	if b.parameterize {
		b.paramIndex++
		b.params = append(b.params, val)
		return b.placeholder(b.paramIndex)
	}

	switch v := val.(type) {
	case string:
		return "'" + quoting.EscapeString(v) + "'"
	case bool:
		if v {
			return "TRUE"
		}
		return "FALSE"
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", v)
	case float32, float64:
		return fmt.Sprintf("%g", v)
	default:
		b.fail(fmt.Errorf("unsupported literal type %T", v))
		return ""
	}
}

func (b *baseVisitor) VisitStar(n *nodes.StarNode) string {
	if n.Relation != nil {
		return b.quoteIdent(nodes.RelationName(n.Relation)) + ".*"
	}
	return "*"
}

func (b *baseVisitor) VisitSqlLiteral(n *nodes.SqlLiteral) string {
	return n.Raw
}

func (b *baseVisitor) VisitBindParam(n *nodes.BindParamNode) string {
	if b.parameterize {
		b.paramIndex++
		b.params = append(b.params, n.Value)
		return b.placeholder(b.paramIndex)
	}
	return b.literalToSQL(n.Value)
}

func (b *baseVisitor) VisitComparison(n *nodes.ComparisonNode) string {
	left := n.Left.Accept(b.outer)
	right := n.Right.Accept(b.outer)
	return left + " " + comparisonOpSQL[n.Op] + " " + right
}

func (b *baseVisitor) VisitAnd(n *nodes.AndNode) string {
	return n.Left.Accept(b.outer) + " AND " + n.Right.Accept(b.outer)
}

func (b *baseVisitor) VisitGrouping(n *nodes.GroupingNode) string {
	return "(" + n.Expr.Accept(b.outer) + ")"
}

func (b *baseVisitor) VisitOrdering(n *nodes.OrderingNode) string {
	expr := n.Expr.Accept(b.outer)
	if n.Direction == nodes.Desc {
		expr += " DESC"
	} else {
		expr += " ASC"
	}
	switch n.Nulls {
	case nodes.NullsFirst:
		expr += " NULLS FIRST"
	case nodes.NullsLast:
		expr += " NULLS LAST"
	}
	return expr
}

// VisitNamedFunction renders a function call. Names registered with the
// dialect are rendered by their registration; everything else renders as
// NAME(arg, ...).
func (b *baseVisitor) VisitNamedFunction(n *nodes.NamedFunctionNode) string {
	if fn, ok := b.functions.Lookup(n.Name); ok {
		if fn.SelectModifier {
			b.fail(&PlacementError{Function: n.Name})
			return ""
		}
		return b.renderFunction(fn, n)
	}
	if err := b.functions.Denied(n.Name); err != nil {
		b.fail(err)
		return ""
	}
	if !dialect.ValidName(n.Name) {
		b.fail(fmt.Errorf("%w: %q", ErrFunctionName, n.Name))
		return ""
	}

	args := make([]string, len(n.Args))
	for i, arg := range n.Args {
		args[i] = arg.Accept(b.outer)
	}
	return n.Name + "(" + strings.Join(args, ", ") + ")"
}

// renderFunction reduces each argument to its SQL text and hands the
// tokens to the registered render function.
func (b *baseVisitor) renderFunction(fn dialect.Function, n *nodes.NamedFunctionNode) string {
	tokens := make([]string, len(n.Args))
	for i, arg := range n.Args {
		tokens[i] = arg.Accept(b.outer)
	}
	out, err := fn.Render(tokens)
	if err != nil {
		b.fail(err)
		return ""
	}
	return out
}

func (b *baseVisitor) VisitSelectCore(n *nodes.SelectCore) string {
	var sb strings.Builder

	sb.WriteString("SELECT ")
	projections := n.Projections
	if modifier, ok := b.SelectModifier(n); ok {
		// The modifier clause replaces DISTINCT / DISTINCT ON and already
		// ends with the entity and a trailing space.
		sb.WriteString(modifier)
		projections = projections[1:]
		if len(projections) > 0 {
			sb.WriteString(", ")
		}
	} else {
		b.writeDistinct(&sb, n.Distinct, n.DistinctOn)
		if len(projections) == 0 {
			sb.WriteString("*")
		}
	}
	b.writeList(&sb, projections, ", ")
	b.writeFrom(&sb, n.From)
	b.writeClause(&sb, " WHERE ", n.Wheres, " AND ")
	b.writeClause(&sb, " ORDER BY ", n.Orders, ", ")
	b.writeNodeClause(&sb, " LIMIT ", n.Limit)
	b.writeNodeClause(&sb, " OFFSET ", n.Offset)

	return sb.String()
}

// SelectModifier renders the first projection of n when it is a registered
// select-modifier function such as DISTINCT_ON.
func (b *baseVisitor) SelectModifier(n *nodes.SelectCore) (string, bool) {
	if len(n.Projections) == 0 {
		return "", false
	}
	call, ok := n.Projections[0].(*nodes.NamedFunctionNode)
	if !ok {
		return "", false
	}
	fn, ok := b.functions.Lookup(call.Name)
	if !ok || !fn.SelectModifier {
		return "", false
	}
	return b.renderFunction(fn, call), true
}

func (b *baseVisitor) writeList(sb *strings.Builder, items []nodes.Node, sep string) {
	for i, item := range items {
		if i > 0 {
			sb.WriteString(sep)
		}
		sb.WriteString(item.Accept(b.outer))
	}
}

// writeClause writes "keyword item1 sep item2 sep ..." if items is non-empty.
func (b *baseVisitor) writeClause(sb *strings.Builder, keyword string, items []nodes.Node, sep string) {
	if len(items) == 0 {
		return
	}
	sb.WriteString(keyword)
	b.writeList(sb, items, sep)
}

// writeNodeClause writes "keyword node" if node is non-nil.
func (b *baseVisitor) writeNodeClause(sb *strings.Builder, keyword string, n nodes.Node) {
	if n != nil {
		sb.WriteString(keyword)
		sb.WriteString(n.Accept(b.outer))
	}
}

// NativeDistinctOnAllowed reports whether the dialect renders a native
// DISTINCT ON list, recording an UnsupportedFunctionError when it does not.
func (b *baseVisitor) NativeDistinctOnAllowed() bool {
	if err := b.functions.Denied(dialect.DistinctOnName); err != nil {
		b.fail(err)
		return false
	}
	return true
}

func (b *baseVisitor) writeDistinct(sb *strings.Builder, distinct bool, distinctOn []nodes.Node) {
	if len(distinctOn) > 0 {
		if !b.NativeDistinctOnAllowed() {
			return
		}
		sb.WriteString("DISTINCT ON (")
		b.writeList(sb, distinctOn, ", ")
		sb.WriteString(") ")
	} else if distinct {
		sb.WriteString("DISTINCT ")
	}
}

func (b *baseVisitor) writeFrom(sb *strings.Builder, from nodes.Node) {
	if from != nil {
		sb.WriteString(" FROM ")
		sb.WriteString(from.Accept(b.outer))
	}
}
