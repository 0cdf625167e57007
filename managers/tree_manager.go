package managers

import (
	"github.com/bawdo/pgdistinct/nodes"
	"github.com/bawdo/pgdistinct/plugins"
)

// treeManager holds the transformer pipeline shared by managers.
type treeManager struct {
	transformers []plugins.Transformer
}

// addTransformer appends a transformer plugin to the pipeline.
func (tm *treeManager) addTransformer(t plugins.Transformer) {
	tm.transformers = append(tm.transformers, t)
}

// Transformers returns the registered transformer pipeline.
func (tm *treeManager) Transformers() []plugins.Transformer {
	return tm.transformers
}

// toSQLParams resets the visitor (if it supports it), calls generate, and
// returns SQL + params. A compilation error recorded by the visitor is
// returned instead of the SQL.
func toSQLParams(v nodes.Visitor, generate func(nodes.Visitor) (string, error)) (string, []any, error) {
	p, _ := v.(nodes.Parameterizer)
	if p != nil {
		p.Reset()
	}

	sql, err := generate(v)
	if err != nil {
		return "", nil, err
	}
	if r, ok := v.(nodes.ErrorReporter); ok {
		if err := r.Err(); err != nil {
			return "", nil, err
		}
	}

	if p != nil {
		return sql, p.Params(), nil
	}
	return sql, nil, nil
}
