package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harborview-labs/querygate/internal/cli/config"
	"github.com/harborview-labs/querygate/pkg/sqlparse"
)

// NewFormatCommand creates the format command.
func NewFormatCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "format [sql]",
		Short: "Reprint a script in canonical form",
		Example: `  querygate format "select   a,b from t where x=1"
  querygate format --no-comments "SELECT 1 -- scratch note"`,
		Args: cobra.ArbitraryArgs,
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

			out, err := script.Format(cfg.Comments)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
}
