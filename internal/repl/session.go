// Package repl implements the interactive pick-first query builder.
package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/ergochat/readline"

	"github.com/bawdo/pgdistinct/internal/db"
	"github.com/bawdo/pgdistinct/internal/parse"
	"github.com/bawdo/pgdistinct/managers"
	"github.com/bawdo/pgdistinct/nodes"
	"github.com/bawdo/pgdistinct/plugins/distinctorder"
	"github.com/bawdo/pgdistinct/visitors"
)

var (
	errNoQuery      = errors.New("no query defined (use 'from <table>' first)")
	errNotConnected = errors.New("not connected (use 'connect <dsn>' first)")
)

// Options configures a Session.
type Options struct {
	Engine       string
	Parameterize bool
	// DSN is used by a bare "connect".
	DSN     string
	MaxRows int
	Out     io.Writer
	Logger  *slog.Logger
}

// Session holds the REPL state: the FROM scope, the query being built,
// the active engine and an optional database connection.
type Session struct {
	engine       string
	parameterize bool
	pretty       bool
	align        bool
	scope        *parse.Scope
	query        *managers.SelectManager
	conn         *db.Conn
	dsn          string
	maxRows      int
	tables       []string // from the connected database, for completion
	commands     []commandEntry
	out          io.Writer
	log          *slog.Logger
}

// New creates a session. An unknown engine falls back to postgres.
func New(opts Options) *Session {
	s := &Session{
		engine:       opts.Engine,
		parameterize: opts.Parameterize,
		align:        true,
		dsn:          opts.DSN,
		maxRows:      opts.MaxRows,
		out:          opts.Out,
		log:          opts.Logger,
	}
	if s.out == nil {
		s.out = os.Stdout
	}
	if s.log == nil {
		s.log = slog.New(slog.DiscardHandler)
	}
	if _, err := visitors.ForEngine(s.engine); err != nil {
		s.engine = "postgres"
	}
	s.initCommands()
	return s
}

// Engine returns the active engine name.
func (s *Session) Engine() string { return s.engine }

// LineReader is the part of *readline.Instance the loop needs.
type LineReader interface {
	ReadLine() (string, error)
}

// Run reads and executes commands until EOF, "exit" or "quit". Command
// errors are printed to errOut and do not stop the loop.
func (s *Session) Run(ctx context.Context, r LineReader, errOut io.Writer) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		line, err := r.ReadLine()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if lower := strings.ToLower(line); lower == "exit" || lower == "quit" {
			return nil
		}
		if err := s.Execute(ctx, line); err != nil {
			s.log.Debug("command failed", "line", line, "error", err)
			_, _ = fmt.Fprintf(errOut, "  Error: %v\n", err)
		}
	}
}

// Execute runs one command line.
func (s *Session) Execute(ctx context.Context, line string) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}
	lower := strings.ToLower(line)

	for _, cmd := range s.commands {
		if strings.HasSuffix(cmd.prefix, " ") {
			if strings.HasPrefix(lower, cmd.prefix) {
				return cmd.handler(ctx, line[len(cmd.prefix):])
			}
		} else if lower == cmd.prefix {
			return cmd.handler(ctx, "")
		}
	}

	word := strings.Fields(line)[0]
	return fmt.Errorf("unknown command: %s (type 'help' for commands)", word)
}

// Close disconnects if connected.
func (s *Session) Close() error {
	if s.conn == nil {
		return nil
	}
	err := s.conn.Close()
	s.conn = nil
	return err
}

// visitor builds the visitor for display output.
func (s *Session) visitor() (nodes.Visitor, error) {
	var opts []visitors.Option
	if !s.parameterize {
		opts = append(opts, visitors.WithoutParams())
	}
	v, err := visitors.ForEngine(s.engine, opts...)
	if err != nil {
		return nil, err
	}
	if s.pretty {
		return visitors.NewFormattingVisitor(v), nil
	}
	return v, nil
}

// build returns the current query with the session's transformers attached.
func (s *Session) build() (*managers.SelectManager, error) {
	if s.query == nil {
		return nil, errNoQuery
	}
	q := managers.NewSelectManager(nil)
	q.Core = s.query.CloneCore()
	if s.align {
		q.Use(distinctorder.New())
	}
	return q, nil
}

// --- Command handlers ---

func (s *Session) cmdFrom(args string) error {
	fields := strings.Fields(args)
	var table, alias string
	switch {
	case len(fields) == 1:
		table = fields[0]
	case len(fields) == 2:
		table, alias = fields[0], fields[1]
	case len(fields) == 3 && strings.EqualFold(fields[1], "as"):
		table, alias = fields[0], fields[2]
	default:
		return errors.New("usage: from <table> [[as] alias]")
	}
	s.scope = parse.NewScope(table, alias)
	s.query = managers.NewSelectManager(s.scope.Relation())
	if alias != "" {
		_, _ = fmt.Fprintf(s.out, "  Query FROM %q AS %q\n", table, alias)
	} else {
		_, _ = fmt.Fprintf(s.out, "  Query FROM %q\n", table)
	}
	return nil
}

func (s *Session) cmdAlias(args string) error {
	if s.query == nil {
		return errNoQuery
	}
	alias := strings.TrimSpace(args)
	if alias == "" || strings.ContainsAny(alias, " \t") {
		return errors.New("usage: alias <name>")
	}
	if err := s.cmdFrom(s.scope.Table() + " " + alias); err != nil {
		return err
	}
	_, _ = fmt.Fprintln(s.out, "  Query reset with the new alias")
	return nil
}

func (s *Session) cmdSelect(args string) error {
	if s.query == nil {
		return errNoQuery
	}
	var projs []nodes.Node
	for _, ref := range strings.Split(args, ",") {
		if strings.TrimSpace(ref) == "" {
			continue
		}
		n, err := s.scope.Entity(ref)
		if err != nil {
			return err
		}
		projs = append(projs, n)
	}
	s.query.Select(projs...)
	_, _ = fmt.Fprintf(s.out, "  Projections set (%d columns)\n", len(projs))
	return nil
}

func (s *Session) cmdPick(args string) error {
	if s.query == nil {
		return errNoQuery
	}
	pickArgs, err := s.scope.PickFirst(args)
	if err != nil {
		return err
	}
	s.query.PickFirst(pickArgs...)
	_, _ = fmt.Fprintf(s.out, "  DISTINCT_ON set (%d arguments)\n", len(pickArgs))
	return nil
}

func (s *Session) cmdDistinctOn(args string) error {
	if s.query == nil {
		return errNoQuery
	}
	cols, err := s.scope.Columns(args)
	if err != nil {
		return err
	}
	s.query.DistinctOn(cols...)
	_, _ = fmt.Fprintf(s.out, "  DISTINCT ON set (%d columns)\n", len(cols))
	return nil
}

func (s *Session) cmdDistinct() error {
	if s.query == nil {
		return errNoQuery
	}
	s.query.Distinct()
	_, _ = fmt.Fprintln(s.out, "  DISTINCT enabled")
	return nil
}

func (s *Session) cmdWhere(args string) error {
	if s.query == nil {
		return errNoQuery
	}
	cond, err := s.scope.Condition(args)
	if err != nil {
		return fmt.Errorf("where: %w", err)
	}
	s.query.Where(cond)
	_, _ = fmt.Fprintln(s.out, "  WHERE condition added")
	return nil
}

func (s *Session) cmdOrder(args string) error {
	if s.query == nil {
		return errNoQuery
	}
	orderings, err := s.scope.Orderings(args)
	if err != nil {
		return fmt.Errorf("order: %w", err)
	}
	s.query.Order(orderings...)
	_, _ = fmt.Fprintf(s.out, "  ORDER BY set (%d columns)\n", len(orderings))
	return nil
}

func (s *Session) cmdLimit(args string) error {
	if s.query == nil {
		return errNoQuery
	}
	n, err := strconv.Atoi(strings.TrimSpace(args))
	if err != nil {
		return fmt.Errorf("limit requires an integer, got %q", args)
	}
	s.query.Limit(n)
	_, _ = fmt.Fprintf(s.out, "  LIMIT set to %d\n", n)
	return nil
}

func (s *Session) cmdOffset(args string) error {
	if s.query == nil {
		return errNoQuery
	}
	n, err := strconv.Atoi(strings.TrimSpace(args))
	if err != nil {
		return fmt.Errorf("offset requires an integer, got %q", args)
	}
	s.query.Offset(n)
	_, _ = fmt.Fprintf(s.out, "  OFFSET set to %d\n", n)
	return nil
}

// GenerateSQL renders the current query with the session's engine and
// display settings.
func (s *Session) GenerateSQL() (string, []any, error) {
	q, err := s.build()
	if err != nil {
		return "", nil, err
	}
	v, err := s.visitor()
	if err != nil {
		return "", nil, err
	}
	return q.ToSQL(v)
}

func (s *Session) cmdSQL() error {
	sql, params, err := s.GenerateSQL()
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(s.out, "  %s;\n", sql)
	if len(params) > 0 {
		_, _ = fmt.Fprintf(s.out, "  Params: %v\n", params)
	}
	return nil
}

func (s *Session) cmdEngine(args string) error {
	engine := strings.ToLower(strings.TrimSpace(args))
	if _, err := visitors.ForEngine(engine); err != nil {
		return err
	}
	s.engine = engine
	_, _ = fmt.Fprintf(s.out, "  Engine set to %s\n", engine)
	return nil
}

func (s *Session) cmdParameterize() error {
	s.parameterize = !s.parameterize
	if s.parameterize {
		_, _ = fmt.Fprintln(s.out, "  Parameterized queries enabled")
	} else {
		_, _ = fmt.Fprintln(s.out, "  Parameterized queries disabled")
	}
	return nil
}

func (s *Session) cmdFormat() error {
	s.pretty = !s.pretty
	if s.pretty {
		_, _ = fmt.Fprintln(s.out, "  Formatted output enabled")
	} else {
		_, _ = fmt.Fprintln(s.out, "  Formatted output disabled")
	}
	return nil
}

func (s *Session) cmdAlign() error {
	s.align = !s.align
	if s.align {
		_, _ = fmt.Fprintln(s.out, "  ORDER BY alignment enabled")
	} else {
		_, _ = fmt.Fprintln(s.out, "  ORDER BY alignment disabled")
	}
	return nil
}

func (s *Session) cmdReset() error {
	s.scope = nil
	s.query = nil
	_, _ = fmt.Fprintln(s.out, "  Query reset")
	return nil
}

func (s *Session) cmdConnect(ctx context.Context, args string) error {
	if s.conn != nil {
		return fmt.Errorf("already connected to %s (use 'disconnect' first)", s.conn.DSN())
	}
	dsn := strings.TrimSpace(args)
	if dsn == "" {
		dsn = s.dsn
	}
	if dsn == "" {
		return errors.New("usage: connect <dsn>")
	}

	s.log.Debug("connecting", "engine", s.engine, "dsn", db.SanitizeDSN(dsn))
	conn, err := db.Open(ctx, s.engine, dsn, db.WithMaxRows(s.maxRows))
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	s.conn = conn
	s.dsn = dsn
	if tables, err := conn.Tables(ctx); err == nil {
		s.tables = tables
	} else {
		s.log.Warn("schema introspection failed", "error", err)
	}
	_, _ = fmt.Fprintf(s.out, "  Connected to %s (%s)\n", conn.DSN(), s.engine)
	return nil
}

func (s *Session) cmdDisconnect() error {
	if s.conn == nil {
		return errors.New("not connected")
	}
	dsn := s.conn.DSN()
	if err := s.Close(); err != nil {
		return fmt.Errorf("disconnect: %w", err)
	}
	s.tables = nil
	_, _ = fmt.Fprintf(s.out, "  Disconnected from %s\n", dsn)
	return nil
}

func (s *Session) cmdTables(ctx context.Context) error {
	if s.conn == nil {
		return errNotConnected
	}
	tables, err := s.conn.Tables(ctx)
	if err != nil {
		return err
	}
	s.tables = tables
	for _, t := range tables {
		_, _ = fmt.Fprintf(s.out, "  %s\n", t)
	}
	return nil
}

// cmdExec runs the current query against the connection, always with
// bind parameters.
func (s *Session) cmdExec(ctx context.Context) error {
	if s.conn == nil {
		return errNotConnected
	}
	if s.conn.Engine() != s.engine {
		_, _ = fmt.Fprintf(s.out, "  Warning: connected to %s but engine is set to %s\n", s.conn.Engine(), s.engine)
	}
	q, err := s.build()
	if err != nil {
		return err
	}
	v, err := visitors.ForEngine(s.engine)
	if err != nil {
		return err
	}
	sql, params, err := q.ToSQL(v)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(s.out, "  %s;\n", sql)
	if len(params) > 0 {
		_, _ = fmt.Fprintf(s.out, "  Params: %v\n", params)
	}
	s.log.Debug("executing", "sql", sql, "params", len(params))
	result, err := s.conn.Query(ctx, sql, params)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprint(s.out, result)
	return nil
}
