package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ergochat/readline"
	"github.com/spf13/cobra"

	"github.com/bawdo/pgdistinct/internal/repl"
)

func newReplCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Interactively build and run DISTINCT ON queries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dsn, err := a.cfg.DSN()
			if err != nil {
				return ConfigError("invalid database config", err)
			}
			out := cmd.OutOrStdout()

			sess := repl.New(repl.Options{
				Engine:       a.cfg.Engine,
				Parameterize: a.cfg.Parameterize,
				DSN:          dsn,
				MaxRows:      a.cfg.MaxRows,
				Out:          out,
				Logger:       a.logger,
			})
			defer func() { _ = sess.Close() }()

			rl, err := readline.NewFromConfig(&readline.Config{
				Prompt:          "pgdistinct> ",
				HistoryFile:     historyPath(a.cfg.HistoryFile),
				HistoryLimit:    500,
				AutoComplete:    repl.NewCompleter(sess),
				InterruptPrompt: "^C",
				EOFPrompt:       "exit",
			})
			if err != nil {
				return GeneralError("readline init", err)
			}
			defer func() { _ = rl.Close() }()

			if dsn != "" {
				if err := sess.Execute(cmd.Context(), "connect"); err != nil {
					_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "  Warning: connect failed: %v\n", err)
				}
			}

			_, _ = fmt.Fprintf(out, "pgdistinct REPL (engine: %s), type 'help' for commands, 'exit' to quit\n\n", sess.Engine())
			return sess.Run(cmd.Context(), rl, cmd.ErrOrStderr())
		},
	}
}

// historyPath returns the configured history file, or ~/.pgdistinct_history.
func historyPath(configured string) string {
	if configured != "" {
		return configured
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".pgdistinct_history")
}
