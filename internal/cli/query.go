package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bawdo/pgdistinct/internal/db"
	"github.com/bawdo/pgdistinct/internal/parse"
	"github.com/bawdo/pgdistinct/managers"
	"github.com/bawdo/pgdistinct/nodes"
	"github.com/bawdo/pgdistinct/plugins/distinctorder"
	"github.com/bawdo/pgdistinct/visitors"
)

type queryOptions struct {
	from   string
	alias  string
	on     []string
	entity string
	orders []string
	wheres []string
	limit  int
	exec   bool
	pretty bool
	strict bool
}

func newQueryCmd(a *app) *cobra.Command {
	opts := &queryOptions{}

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Build a DISTINCT ON query and print or run it",
		Long: `Query builds SELECT DISTINCT ON(<on>...) <entity> FROM <table> and aligns
ORDER BY with the DISTINCT ON columns. The entity defaults to the whole row
of the table or alias.`,
		Example: `  pgdistinct query --from employees --alias e --on department --order "salary desc"
  pgdistinct query --from employees --on department,name --where "salary>=50000" --exec`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runQuery(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.from, "from", "", "table to select from (required)")
	f.StringVar(&opts.alias, "alias", "", "alias for the table")
	f.StringSliceVar(&opts.on, "on", nil, "grouping column (repeatable or comma-separated)")
	f.StringVar(&opts.entity, "entity", "", "entity to select (default: the table or alias)")
	f.StringArrayVar(&opts.orders, "order", nil, `ordering such as "salary desc" (repeatable)`)
	f.StringArrayVar(&opts.wheres, "where", nil, `condition such as "salary>=50000" (repeatable, ANDed)`)
	f.IntVar(&opts.limit, "limit", 0, "LIMIT (0 for none)")
	f.BoolVar(&opts.exec, "exec", false, "run the query against the configured database")
	f.BoolVar(&opts.pretty, "pretty", false, "print multi-line SQL")
	f.BoolVar(&opts.strict, "strict", false, "fail instead of rewriting an ORDER BY that does not start with the DISTINCT ON columns")
	_ = cmd.MarkFlagRequired("from")

	return cmd
}

// build assembles the select manager from the flags.
func (o *queryOptions) build() (*managers.SelectManager, error) {
	scope := parse.NewScope(o.from, o.alias)

	args := make([]nodes.Node, 0, len(o.on)+1)
	for _, ref := range o.on {
		col, err := scope.Column(ref)
		if err != nil {
			return nil, fmt.Errorf("--on: %w", err)
		}
		args = append(args, col)
	}
	entity := o.entity
	if entity == "" {
		entity = scope.Name()
	}
	ent, err := scope.Entity(entity)
	if err != nil {
		return nil, fmt.Errorf("--entity: %w", err)
	}
	args = append(args, ent)

	q := managers.NewSelectManager(scope.Relation()).PickFirst(args...)
	for _, w := range o.wheres {
		cond, err := scope.Condition(w)
		if err != nil {
			return nil, fmt.Errorf("--where: %w", err)
		}
		q.Where(cond)
	}
	for _, ord := range o.orders {
		orderings, err := scope.Orderings(ord)
		if err != nil {
			return nil, fmt.Errorf("--order: %w", err)
		}
		q.Order(orderings...)
	}
	if o.limit > 0 {
		q.Limit(o.limit)
	}

	var doOpts []distinctorder.Option
	if o.strict {
		doOpts = append(doOpts, distinctorder.Strict())
	}
	return q.Use(distinctorder.New(doOpts...)), nil
}

func (a *app) runQuery(cmd *cobra.Command, o *queryOptions) error {
	q, err := o.build()
	if err != nil {
		return QueryError("invalid query", err)
	}

	var vopts []visitors.Option
	if !a.cfg.Parameterize && !o.exec {
		vopts = append(vopts, visitors.WithoutParams())
	}
	v, err := visitors.ForEngine(a.cfg.Engine, vopts...)
	if err != nil {
		return ConfigError("engine", err)
	}
	if o.pretty && !o.exec {
		v = visitors.NewFormattingVisitor(v)
	}

	sql, params, err := q.ToSQL(v)
	if err != nil {
		return QueryError("building query", err)
	}
	a.logger.Debug("query built", "engine", a.cfg.Engine, "params", len(params))

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintln(out, sql)
	if len(params) > 0 {
		_, _ = fmt.Fprintf(out, "-- params: %v\n", params)
	}
	if !o.exec {
		return nil
	}

	dsn, err := a.dsn()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	conn, err := db.Open(ctx, a.cfg.Engine, dsn, db.WithMaxRows(a.cfg.MaxRows))
	if err != nil {
		if errors.Is(err, db.ErrNoDriver) {
			return ConfigError("engine", err)
		}
		return DBConnectError("connecting to "+db.SanitizeDSN(dsn), err)
	}
	defer func() { _ = conn.Close() }()

	result, err := conn.Query(ctx, sql, params)
	if err != nil {
		return QueryError("executing query", err)
	}
	_, _ = fmt.Fprint(out, result)
	return nil
}
