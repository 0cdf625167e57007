// Package managers provides high-level fluent APIs for building SQL ASTs.
package managers

import (
	"github.com/bawdo/pgdistinct/nodes"
	"github.com/bawdo/pgdistinct/plugins"
)

// SelectManager provides a fluent API for building SELECT queries.
// It wraps a SelectCore and applies transformer plugins before SQL generation.
type SelectManager struct {
	treeManager
	Core *nodes.SelectCore
}

// NewSelectManager creates a new SelectManager with the given table as FROM.
// If from is nil, the FROM clause is left unset.
func NewSelectManager(from nodes.Node) *SelectManager {
	return &SelectManager{
		Core: &nodes.SelectCore{From: from},
	}
}

// Select sets the projection list, replacing any existing projections.
// A DISTINCT_ON call set by PickFirst is kept in front.
func (m *SelectManager) Select(projections ...nodes.Node) *SelectManager {
	if call, ok := m.Core.PickFirst(); ok {
		m.Core.Projections = append([]nodes.Node{call}, projections...)
		return m
	}
	m.Core.Projections = projections
	return m
}

// Project is an alias for Select.
func (m *SelectManager) Project(projections ...nodes.Node) *SelectManager {
	return m.Select(projections...)
}

// Distinct enables or disables the DISTINCT modifier on the SELECT clause.
func (m *SelectManager) Distinct(on ...bool) *SelectManager {
	m.Core.Distinct = len(on) == 0 || on[0]
	return m
}

// DistinctOn sets the native DISTINCT ON columns (PostgreSQL).
func (m *SelectManager) DistinctOn(cols ...nodes.Node) *SelectManager {
	m.Core.DistinctOn = cols
	return m
}

// PickFirst selects the first row of each group: every argument but the
// last is a grouping column and the last is the entity to select, usually
// an alias star such as e.Star(). The DISTINCT_ON call becomes the first
// projection, replacing an earlier PickFirst.
//
//	m.PickFirst(e.Col("department"), e.Star())
//	// SELECT DISTINCT ON("e"."department") "e".*  FROM ...
func (m *SelectManager) PickFirst(columnsAndEntity ...nodes.Node) *SelectManager {
	call := nodes.DistinctOn(columnsAndEntity...)
	if _, ok := m.Core.PickFirst(); ok {
		m.Core.Projections[0] = call
		return m
	}
	m.Core.Projections = append([]nodes.Node{call}, m.Core.Projections...)
	return m
}

// Where appends one or more conditions to the WHERE clause.
// Multiple calls to Where are combined with AND at the visitor level.
func (m *SelectManager) Where(conditions ...nodes.Node) *SelectManager {
	m.Core.Wheres = append(m.Core.Wheres, conditions...)
	return m
}

// From sets or changes the FROM source.
func (m *SelectManager) From(table nodes.Node) *SelectManager {
	m.Core.From = table
	return m
}

// Order appends to the ORDER BY clause. Pass OrderingNode values
// (e.g., e.Col("salary").Desc()).
func (m *SelectManager) Order(orderings ...nodes.Node) *SelectManager {
	m.Core.Orders = append(m.Core.Orders, orderings...)
	return m
}

// Limit sets the LIMIT value.
func (m *SelectManager) Limit(n int) *SelectManager {
	m.Core.Limit = nodes.Literal(n)
	return m
}

// Offset sets the OFFSET value.
func (m *SelectManager) Offset(n int) *SelectManager {
	m.Core.Offset = nodes.Literal(n)
	return m
}

// Use registers a transformer plugin to be applied before SQL generation.
func (m *SelectManager) Use(t plugins.Transformer) *SelectManager {
	m.addTransformer(t)
	return m
}

// toSQLCore applies all registered transformers to a copy of the SelectCore,
// then generates SQL using the given visitor.
func (m *SelectManager) toSQLCore(v nodes.Visitor) (string, error) {
	core := m.CloneCore()
	for _, t := range m.transformers {
		var err error
		core, err = t.TransformSelect(core)
		if err != nil {
			return "", err
		}
	}
	return core.Accept(v), nil
}

// ToSQL applies all registered transformers and generates SQL with parameters.
// Argument errors from DISTINCT_ON and dialect rejections are returned here,
// before any SQL reaches a database.
func (m *SelectManager) ToSQL(v nodes.Visitor) (string, []any, error) {
	return toSQLParams(v, m.toSQLCore)
}

// Accept implements the Node interface so that a SelectManager can be
// used as a subquery. It delegates to the underlying SelectCore.
func (m *SelectManager) Accept(v nodes.Visitor) string {
	return m.Core.Accept(v)
}

// As wraps the query's SelectCore in a TableAlias, enabling it to be
// used as a named subquery in FROM.
func (m *SelectManager) As(name string) *nodes.TableAlias {
	return &nodes.TableAlias{Relation: m.Core, AliasName: name}
}

// CloneCore returns a shallow copy of the SelectCore so transformers
// don't modify the original.
func (m *SelectManager) CloneCore() *nodes.SelectCore {
	return &nodes.SelectCore{
		From:        m.Core.From,
		Projections: cloneNodes(m.Core.Projections),
		Wheres:      cloneNodes(m.Core.Wheres),
		Orders:      cloneNodes(m.Core.Orders),
		Limit:       m.Core.Limit,
		Offset:      m.Core.Offset,
		Distinct:    m.Core.Distinct,
		DistinctOn:  cloneNodes(m.Core.DistinctOn),
	}
}

func cloneNodes(in []nodes.Node) []nodes.Node {
	if in == nil {
		return nil
	}
	out := make([]nodes.Node, len(in))
	copy(out, in)
	return out
}
