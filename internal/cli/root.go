// Package cli provides the command-line interface for pgdistinct.
package cli

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bawdo/pgdistinct/internal/config"
)

// Version information (set at build time).
var Version = "0.1.0"

// Commands annotated with annotationConfig: configUnused run without a
// valid engine or database setting.
const (
	annotationConfig = "pgdistinct/config"
	configUnused     = "unused"
)

// app carries the global flags and the state PersistentPreRunE prepares
// for subcommands.
type app struct {
	configPath  string
	engine      string
	databaseURL string
	verbose     bool
	noParams    bool

	cfg    *config.Config
	logger *slog.Logger
}

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "pgdistinct",
		Short: "Build and run PostgreSQL DISTINCT ON (pick first row per group) queries",
		Long: `pgdistinct renders DISTINCT ON clauses from a list of grouping columns
followed by the entity to select, and builds queries around them.

  pgdistinct render e.department e
  pgdistinct query --from employees --alias e --on department --order "salary desc"
  pgdistinct repl`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}
			return a.load(cmd)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "config file (default: pgdistinct.yaml, searched upward)")
	flags.StringVar(&a.engine, "engine", "", "SQL engine: postgres, mysql or sqlite")
	flags.StringVar(&a.databaseURL, "database-url", "", "database connection string")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "verbose logging")
	flags.BoolVar(&a.noParams, "no-params", false, "inline literals instead of bind parameters")

	_ = rootCmd.RegisterFlagCompletionFunc("engine", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{config.EnginePostgres, config.EngineMySQL, config.EngineSQLite}, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(newRenderCmd())
	rootCmd.AddCommand(newQueryCmd(a))
	rootCmd.AddCommand(newReplCmd(a))

	return rootCmd
}

// load reads the configuration, applies flag overrides and builds the logger.
func (a *app) load(cmd *cobra.Command) error {
	level := slog.LevelWarn
	if a.verbose {
		level = slog.LevelDebug
	}
	a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	cfg, path, err := config.Load(a.configPath)
	if err != nil {
		return ConfigError("loading config", err)
	}
	if path != "" {
		a.logger.Debug("using config file", "path", path)
	}

	if a.engine != "" {
		cfg.Engine = strings.ToLower(a.engine)
	}
	if a.databaseURL != "" {
		cfg.Database.URL = a.databaseURL
	}
	if a.noParams {
		cfg.Parameterize = false
	}
	if cmd.Annotations[annotationConfig] != configUnused {
		if err := cfg.Validate(); err != nil {
			return ConfigError("invalid config", err)
		}
	}

	a.cfg = cfg
	a.logger.Debug("config loaded", "engine", cfg.Engine, "parameterize", cfg.Parameterize, "max_rows", cfg.MaxRows)
	return nil
}

// dsn returns the configured connection string or a config error when none
// is set.
func (a *app) dsn() (string, error) {
	dsn, err := a.cfg.DSN()
	if err != nil {
		return "", ConfigError("invalid database config", err)
	}
	if dsn == "" {
		return "", ConfigError("no database configured", fmt.Errorf("set --database-url, PGDISTINCT_DATABASE_URL or DATABASE_URL"))
	}
	return dsn, nil
}
