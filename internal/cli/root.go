// Package cli provides the command-line interface for querygate.
package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/harborview-labs/querygate/internal/cli/commands"
	"github.com/harborview-labs/querygate/internal/cli/config"
	"github.com/harborview-labs/querygate/pkg/sqlparse"
)

var cfgFile string

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "querygate",
		Short: "querygate - SQL statement analysis",
		Long: `querygate inspects SQL before it runs: it splits scripts into
statements and reports, per statement, the physical tables referenced
(CTE aliases excluded), whether the statement mutates data, and any
session settings it assigns.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip config loading for help and completion commands
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			cfg, err := config.LoadConfig(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}

			level := slog.LevelWarn
			if cfg.Verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
				Level: level,
			})))

			if cfg.Verbose {
				if configFile := config.GetConfigFileUsed(); configFile != "" {
					fmt.Fprintf(os.Stderr, "Using config file: %s\n", configFile)
				}
			}

			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
SQL statement analysis for gated query execution
`)

	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./querygate.yaml)")
	rootCmd.PersistentFlags().StringP("engine", "e", "", fmt.Sprintf("Engine identifier (default: %s)", config.DefaultEngine))
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output format (text|json)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().Bool("no-comments", false, "Strip comments when formatting")

	_ = rootCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"text", "json"}, cobra.ShellCompDirectiveNoFileComp
	})
	_ = rootCmd.RegisterFlagCompletionFunc("engine", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return sqlparse.Engines(), cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(commands.NewAnalyzeCommand())
	rootCmd.AddCommand(commands.NewSplitCommand())
	rootCmd.AddCommand(commands.NewFormatCommand())
	rootCmd.AddCommand(commands.NewVersionCommand(Version))

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", describeError(err))
		return err
	}
	return nil
}

// describeError maps the library's typed errors to operator-friendly
// messages; everything else prints as-is.
func describeError(err error) string {
	var unparseable *sqlparse.UnparseableQueryError
	if errors.As(err, &unparseable) {
		return fmt.Sprintf("could not parse query for engine %q: %v", unparseable.Engine, unparseable.Unwrap())
	}
	var invalid *sqlparse.InvalidEngineError
	if errors.As(err, &invalid) {
		return fmt.Sprintf("engine %q is not supported here", invalid.Engine)
	}
	if errors.Is(err, sqlparse.ErrNotSingleStatement) {
		return "expected exactly one statement"
	}
	return err.Error()
}
