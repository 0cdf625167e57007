package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bawdo/pgdistinct/dialect"
)

func newRenderCmd() *cobra.Command {
	var quote bool

	cmd := &cobra.Command{
		Use:   "render <column>... <entity>",
		Short: "Render a DISTINCT ON clause from raw tokens",
		Long: `Render prints the DISTINCT ON clause for the given tokens. Every token
but the last is a grouping column; the last is the entity to select.
Tokens are used exactly as given.`,
		Example: `  pgdistinct render e.department e
  # DISTINCT ON(e.department) e`,
		Annotations: map[string]string{annotationConfig: configUnused},
		RunE: func(cmd *cobra.Command, args []string) error {
			clause, err := dialect.RenderDistinctOn(args)
			if err != nil {
				return QueryError("render", err)
			}
			if quote {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%q\n", clause)
				return nil
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), clause)
			return nil
		},
	}

	cmd.Flags().BoolVar(&quote, "quote", false, "print the clause as a Go-quoted string to show the trailing space")
	return cmd
}
