package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harborview-labs/querygate/internal/cli/config"
	"github.com/harborview-labs/querygate/pkg/sqlparse"
)

// NewSplitCommand creates the split command.
func NewSplitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "split [sql]",
		Short: "Split a script into individual statements",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			query, err := readQuery(cmd, args)
			if err != nil {
				return err
			}

			cfg := config.GetCurrentConfig()
			script, err := sqlparse.NewScript(query, cfg.Engine, newGrammarEngine(cfg.Engine))
			if err != nil {
				return err
			}

			if cfg.Output == "json" {
				parts := make([]string, 0, len(script.Statements()))
				for _, stmt := range script.Statements() {
					parts = append(parts, stmt.String())
				}
				return renderJSON(cmd.OutOrStdout(), parts)
			}

			for _, stmt := range script.Statements() {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s;\n", stmt)
			}
			return nil
		},
	}
}
