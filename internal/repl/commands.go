package repl

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// commandEntry maps a REPL prefix to its handler and optional tab-completer.
// A prefix ending in a space takes arguments; any other prefix must match
// the whole line.
type commandEntry struct {
	prefix    string
	handler   func(ctx context.Context, args string) error
	completer func(args string) (completionContext, string) // nil = no arg completion
	hidden    bool                                          // excluded from CommandNames()
	help      string
}

func noArgs(fn func() error) func(context.Context, string) error {
	return func(context.Context, string) error { return fn() }
}

func withArgs(fn func(string) error) func(context.Context, string) error {
	return func(_ context.Context, a string) error { return fn(a) }
}

func usage(msg string) func(context.Context, string) error {
	return func(context.Context, string) error { return errors.New("usage: " + msg) }
}

// initCommands builds the command registry and sorts by prefix length descending.
func (s *Session) initCommands() {
	s.commands = []commandEntry{
		// --- query building ---
		{prefix: "from ", handler: withArgs(s.cmdFrom), completer: completeTableArgs,
			help: "from <table> [[as] alias]   start a new query"},
		{prefix: "from", handler: usage("from <table> [[as] alias]"), hidden: true},
		{prefix: "alias ", handler: withArgs(s.cmdAlias),
			help: "alias <name>                re-alias the FROM table (resets the query)"},
		{prefix: "select ", handler: withArgs(s.cmdSelect), completer: completeColumnArgs,
			help: "select <ref>, ...           set the remaining projections"},
		{prefix: "project ", handler: withArgs(s.cmdSelect), completer: completeColumnArgs, hidden: true},
		{prefix: "pick ", handler: withArgs(s.cmdPick), completer: completeColumnArgs,
			help: "pick <col>, ..., <entity>   DISTINCT_ON: first row per group"},
		{prefix: "pick", handler: withArgs(s.cmdPick), hidden: true},
		{prefix: "distinct on ", handler: withArgs(s.cmdDistinctOn), completer: completeColumnArgs,
			help: "distinct on <col>, ...      native DISTINCT ON (PostgreSQL)"},
		{prefix: "distinct", handler: noArgs(s.cmdDistinct),
			help: "distinct                    plain DISTINCT"},
		{prefix: "where ", handler: withArgs(s.cmdWhere), completer: completeColumnArgs,
			help: "where <col> <op> <value>    add a condition (ANDed)"},
		{prefix: "order ", handler: withArgs(s.cmdOrder), completer: completeOrderArgs,
			help: "order <col> [asc|desc], ... append orderings"},
		{prefix: "limit ", handler: withArgs(s.cmdLimit), help: "limit <n>"},
		{prefix: "take ", handler: withArgs(s.cmdLimit), hidden: true},
		{prefix: "offset ", handler: withArgs(s.cmdOffset), help: "offset <n>"},
		{prefix: "reset", handler: noArgs(s.cmdReset), help: "reset                       clear the query"},

		// --- output ---
		{prefix: "sql", handler: noArgs(s.cmdSQL), help: "sql                         show the generated SQL"},
		{prefix: "tosql", handler: noArgs(s.cmdSQL), hidden: true},
		{prefix: "format", handler: noArgs(s.cmdFormat), help: "format                      toggle multi-line SQL"},
		{prefix: "align", handler: noArgs(s.cmdAlign),
			help: "align                       toggle ORDER BY alignment with DISTINCT ON"},
		{prefix: "parameterize", handler: noArgs(s.cmdParameterize), hidden: true},
		{prefix: "params", handler: noArgs(s.cmdParameterize),
			help: "params                      toggle bind parameters"},
		{prefix: "set_engine ", handler: withArgs(s.cmdEngine), completer: completeEngineArgs, hidden: true},
		{prefix: "engine ", handler: withArgs(s.cmdEngine), completer: completeEngineArgs,
			help: "engine <postgres|mysql|sqlite>"},
		{prefix: "engine", handler: noArgs(s.cmdShowEngine), hidden: true},

		// --- database connectivity ---
		{prefix: "connect ", handler: s.cmdConnect, help: "connect [dsn]               open a database connection"},
		{prefix: "connect", handler: s.cmdConnect, hidden: true},
		{prefix: "disconnect", handler: noArgs(s.cmdDisconnect), help: "disconnect"},
		{prefix: "tables", handler: func(ctx context.Context, _ string) error { return s.cmdTables(ctx) },
			help: "tables                      list tables in the connected database"},
		{prefix: "exec", handler: func(ctx context.Context, _ string) error { return s.cmdExec(ctx) },
			help: "exec                        run the query"},
		{prefix: "run", handler: func(ctx context.Context, _ string) error { return s.cmdExec(ctx) }, hidden: true},

		{prefix: "help", handler: noArgs(s.cmdHelp), help: "help"},
	}

	// Sort by prefix length descending so longest prefixes match first.
	sort.SliceStable(s.commands, func(i, j int) bool {
		return len(s.commands[i].prefix) > len(s.commands[j].prefix)
	})
}

// CommandNames derives the command name list from the registry for tab completion.
func (s *Session) CommandNames() []string {
	seen := make(map[string]bool)
	var names []string
	for _, cmd := range s.commands {
		if cmd.hidden {
			continue
		}
		name := strings.TrimRight(cmd.prefix, " ")
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	// exit/quit are handled by Run, not Execute.
	names = append(names, "exit", "quit")
	sort.Strings(names)
	return names
}

func (s *Session) cmdShowEngine() error {
	_, _ = fmt.Fprintf(s.out, "  Engine: %s\n", s.engine)
	return nil
}

func (s *Session) cmdHelp() error {
	var lines []string
	for _, cmd := range s.commands {
		if cmd.help != "" {
			lines = append(lines, cmd.help)
		}
	}
	sort.Strings(lines)
	_, _ = fmt.Fprintln(s.out, "  Commands:")
	for _, l := range lines {
		_, _ = fmt.Fprintf(s.out, "    %s\n", l)
	}
	_, _ = fmt.Fprintln(s.out, "    exit | quit")
	return nil
}

// --- Shared completion helpers ---

// completeTableArgs completes the table name of "from".
func completeTableArgs(args string) (completionContext, string) {
	arg := strings.TrimSpace(args)
	if !strings.Contains(arg, " ") {
		return contextTableName, arg
	}
	return contextCommand, ""
}

// completeColumnArgs completes comma-separated references.
func completeColumnArgs(args string) (completionContext, string) {
	if strings.HasSuffix(args, " ") {
		prev := strings.Fields(args)
		if len(prev) > 0 && !strings.HasSuffix(prev[len(prev)-1], ",") {
			return contextOperator, ""
		}
		return contextColumnRef, ""
	}
	return contextColumnRef, lastToken(args)
}

// completeOrderArgs completes column refs, then a direction after a column.
func completeOrderArgs(args string) (completionContext, string) {
	if strings.HasSuffix(args, " ") {
		parts := strings.Fields(args)
		if len(parts) > 0 && !strings.HasSuffix(parts[len(parts)-1], ",") {
			return contextOrderDir, ""
		}
		return contextColumnRef, ""
	}
	last := lastToken(args)
	for _, dir := range orderDirs {
		if prevIsColumn(args) && strings.HasPrefix(dir, strings.ToLower(last)) {
			return contextOrderDir, last
		}
	}
	return contextColumnRef, last
}

// completeEngineArgs completes engine names.
func completeEngineArgs(args string) (completionContext, string) {
	return contextEngine, strings.TrimSpace(args)
}

// lastToken returns the word being typed, split on spaces and commas.
func lastToken(s string) string {
	i := strings.LastIndexAny(s, " ,")
	return s[i+1:]
}

// prevIsColumn reports whether the word before the one being typed is a
// column reference rather than a separator.
func prevIsColumn(args string) bool {
	head := strings.TrimRight(args[:len(args)-len(lastToken(args))], " ")
	return head != "" && !strings.HasSuffix(head, ",")
}
