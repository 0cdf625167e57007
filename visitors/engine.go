package visitors

import (
	"fmt"

	"github.com/bawdo/pgdistinct/nodes"
)

// Engines lists the accepted engine names.
var Engines = []string{"mysql", "postgres", "sqlite"}

// ForEngine returns the dialect visitor for an engine name.
func ForEngine(engine string, opts ...Option) (nodes.Visitor, error) {
	switch engine {
	case "postgres":
		return NewPostgresVisitor(opts...), nil
	case "mysql":
		return NewMySQLVisitor(opts...), nil
	case "sqlite":
		return NewSQLiteVisitor(opts...), nil
	default:
		return nil, fmt.Errorf("unknown engine %q (use postgres, mysql or sqlite)", engine)
	}
}
