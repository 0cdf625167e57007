// Package parse turns the textual column, ordering and condition syntax
// used by the CLI and REPL into AST nodes bound to one relation.
package parse

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/bawdo/pgdistinct/internal/quoting"
	"github.com/bawdo/pgdistinct/nodes"
)

// ErrUnknownRelation is returned for a qualifier that is neither the table
// nor its alias.
var ErrUnknownRelation = errors.New("unknown relation")

// Scope resolves references against a single FROM relation.
type Scope struct {
	table    *nodes.Table
	relation nodes.Node // table or alias
}

// NewScope creates a scope for table, aliased when alias is non-empty.
func NewScope(table, alias string) *Scope {
	t := nodes.NewTable(table)
	s := &Scope{table: t, relation: t}
	if alias != "" {
		s.relation = t.Alias(alias)
	}
	return s
}

// Relation returns the node to use in FROM.
func (s *Scope) Relation() nodes.Node { return s.relation }

// Table returns the underlying table name.
func (s *Scope) Table() string { return s.table.Name }

// Name returns the name references qualify with: the alias if set,
// otherwise the table name.
func (s *Scope) Name() string { return nodes.RelationName(s.relation) }

func (s *Scope) qualified(qualifier string) error {
	if qualifier == "" || qualifier == s.Name() {
		return nil
	}
	return fmt.Errorf("%w %q (query is FROM %q)", ErrUnknownRelation, qualifier, s.Name())
}

func (s *Scope) col(name string) *nodes.Attribute {
	return nodes.NewAttribute(s.relation, name)
}

// Column resolves "col" or "rel.col" to an attribute.
func (s *Scope) Column(ref string) (*nodes.Attribute, error) {
	qualifier, name := quoting.SplitRef(ref)
	if name == "" {
		return nil, fmt.Errorf("empty column reference %q", ref)
	}
	if err := s.qualified(qualifier); err != nil {
		return nil, err
	}
	return s.col(name), nil
}

// Columns resolves a comma-separated list of column references.
func (s *Scope) Columns(list string) ([]nodes.Node, error) {
	var cols []nodes.Node
	for _, ref := range strings.Split(list, ",") {
		if strings.TrimSpace(ref) == "" {
			continue
		}
		col, err := s.Column(ref)
		if err != nil {
			return nil, err
		}
		cols = append(cols, col)
	}
	return cols, nil
}

// Entity resolves the entity argument of DISTINCT_ON. The relation name,
// "rel.*" and "*" select whole rows; anything else is a column.
func (s *Scope) Entity(ref string) (nodes.Node, error) {
	ref = strings.TrimSpace(ref)
	switch {
	case ref == "":
		return nil, errors.New("empty entity reference")
	case ref == "*":
		return nodes.Star(), nil
	case ref == s.Name(), ref == s.Name()+".*":
		return &nodes.StarNode{Relation: s.relation}, nil
	}
	return s.Column(ref)
}

// PickFirst resolves "col, col, entity": every item but the last is a
// grouping column and the last is the entity.
func (s *Scope) PickFirst(list string) ([]nodes.Node, error) {
	var refs []string
	for _, ref := range strings.Split(list, ",") {
		if ref = strings.TrimSpace(ref); ref != "" {
			refs = append(refs, ref)
		}
	}
	if len(refs) == 0 {
		return nil, nil
	}
	args := make([]nodes.Node, 0, len(refs))
	for _, ref := range refs[:len(refs)-1] {
		col, err := s.Column(ref)
		if err != nil {
			return nil, err
		}
		args = append(args, col)
	}
	entity, err := s.Entity(refs[len(refs)-1])
	if err != nil {
		return nil, err
	}
	return append(args, entity), nil
}

// Ordering parses "col [asc|desc] [nulls first|last]".
func (s *Scope) Ordering(expr string) (*nodes.OrderingNode, error) {
	fields := strings.Fields(expr)
	if len(fields) == 0 {
		return nil, errors.New("empty ordering")
	}
	col, err := s.Column(fields[0])
	if err != nil {
		return nil, err
	}
	ord := &nodes.OrderingNode{Expr: col, Direction: nodes.Asc}
	i := 1
	if i < len(fields) {
		switch strings.ToLower(fields[i]) {
		case "desc":
			ord.Direction = nodes.Desc
			i++
		case "asc":
			i++
		}
	}
	if i < len(fields) && strings.ToLower(fields[i]) == "nulls" {
		i++
		if i >= len(fields) {
			return nil, errors.New("expected FIRST or LAST after NULLS")
		}
		switch strings.ToLower(fields[i]) {
		case "first":
			ord.Nulls = nodes.NullsFirst
		case "last":
			ord.Nulls = nodes.NullsLast
		default:
			return nil, fmt.Errorf("expected FIRST or LAST after NULLS, got %q", fields[i])
		}
		i++
	}
	if i < len(fields) {
		return nil, fmt.Errorf("unexpected token %q in ordering", fields[i])
	}
	return ord, nil
}

// Orderings parses a comma-separated list of orderings.
func (s *Scope) Orderings(list string) ([]nodes.Node, error) {
	var out []nodes.Node
	for _, p := range strings.Split(list, ",") {
		if strings.TrimSpace(p) == "" {
			continue
		}
		ord, err := s.Ordering(p)
		if err != nil {
			return nil, err
		}
		out = append(out, ord)
	}
	return out, nil
}

// operators in match order; two-character operators first.
var operators = []struct {
	text string
	op   nodes.ComparisonOp
}{
	{">=", nodes.OpGtEq},
	{"<=", nodes.OpLtEq},
	{"!=", nodes.OpNotEq},
	{"<>", nodes.OpNotEq},
	{"=", nodes.OpEq},
	{">", nodes.OpGt},
	{"<", nodes.OpLt},
}

// Condition parses "col op value" where op is one of = != <> > >= < <=.
// The leftmost operator splits the expression, so values may contain
// operator characters.
func (s *Scope) Condition(expr string) (*nodes.ComparisonNode, error) {
	at, width := -1, 0
	var op nodes.ComparisonOp
	for _, o := range operators {
		i := strings.Index(expr, o.text)
		if i < 0 || (at >= 0 && i >= at) {
			continue
		}
		at, width, op = i, len(o.text), o.op
	}
	if at < 0 {
		return nil, fmt.Errorf("no comparison operator in %q", expr)
	}
	left := strings.TrimSpace(expr[:at])
	right := strings.TrimSpace(expr[at+width:])
	if left == "" || right == "" {
		return nil, fmt.Errorf("incomplete condition %q", expr)
	}
	col, err := s.Column(left)
	if err != nil {
		return nil, err
	}
	return nodes.NewComparisonNode(col, nodes.Literal(Value(right)), op), nil
}

// Value converts a literal token: 'quoted' or "quoted" strings, integers,
// floats, true/false and null. Anything else is kept as a string.
func Value(tok string) any {
	tok = strings.TrimSpace(tok)
	if len(tok) >= 2 {
		first, last := tok[0], tok[len(tok)-1]
		if (first == '\'' || first == '"') && first == last {
			return tok[1 : len(tok)-1]
		}
	}
	switch strings.ToLower(tok) {
	case "true":
		return true
	case "false":
		return false
	case "null":
		return nil
	}
	if n, err := strconv.Atoi(tok); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(tok, 64); err == nil {
		return f
	}
	return tok
}
