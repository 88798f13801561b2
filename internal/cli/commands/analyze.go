package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/harborview-labs/querygate/internal/cli/config"
	"github.com/harborview-labs/querygate/pkg/sqlparse"
)

// statementReport is the JSON shape for one analyzed statement.
type statementReport struct {
	SQL      string            `json:"sql"`
	Tables   []string          `json:"tables"`
	Mutating bool              `json:"mutating"`
	Settings sqlparse.Settings `json:"settings,omitempty"`
}

type scriptReport struct {
	Engine      string            `json:"engine"`
	Statements  []statementReport `json:"statements"`
	Tables      []string          `json:"tables"`
	HasMutation bool              `json:"has_mutation"`
	Settings    sqlparse.Settings `json:"settings,omitempty"`
}

// NewAnalyzeCommand creates the analyze command.
func NewAnalyzeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze [sql]",
		Short: "Show tables, mutation status and settings per statement",
		Example: `  querygate analyze "SELECT * FROM orders o JOIN users u ON o.user_id = u.id"
  echo "SET search_path = public; DROP TABLE t" | querygate analyze
  querygate analyze -e kustokql ".show tables"`,
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

			report := buildReport(cfg.Engine, script)
			if cfg.Output == "json" {
				return renderJSON(cmd.OutOrStdout(), report)
			}
			renderAnalyzeTable(cmd.OutOrStdout(), report)
			return nil
		},
	}
}

func buildReport(engine string, script *sqlparse.Script) *scriptReport {
	report := &scriptReport{
		Engine:      engine,
		Statements:  make([]statementReport, 0, len(script.Statements())),
		Tables:      tableStrings(script.Tables()),
		HasMutation: script.HasMutation(),
		Settings:    script.Settings(),
	}
	for _, stmt := range script.Statements() {
		report.Statements = append(report.Statements, statementReport{
			SQL:      stmt.String(),
			Tables:   tableStrings(stmt.Tables()),
			Mutating: stmt.IsMutating(),
			Settings: stmt.Settings(),
		})
	}
	return report
}

func tableStrings(set sqlparse.TableSet) []string {
	sorted := set.Sorted()
	names := make([]string, 0, len(sorted))
	for _, t := range sorted {
		names = append(names, t.String())
	}
	return names
}

func renderAnalyzeTable(w io.Writer, report *scriptReport) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "Statement", "Tables", "Mutating", "Settings"})

	for i, stmt := range report.Statements {
		t.AppendRow(table.Row{
			i + 1,
			truncate(stmt.SQL, 60),
			strings.Join(stmt.Tables, "\n"),
			stmt.Mutating,
			formatSettings(stmt.Settings),
		})
	}
	t.Render()

	mutation := "no"
	if report.HasMutation {
		mutation = "yes"
	}
	_, _ = fmt.Fprintf(w, "%d statements, mutation: %s\n", len(report.Statements), mutation)
}

func renderJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func formatSettings(settings sqlparse.Settings) string {
	if len(settings) == 0 {
		return ""
	}
	keys := make([]string, 0, len(settings))
	for k := range settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, fmt.Sprintf("%s=%v", k, settings[k]))
	}
	return strings.Join(pairs, "\n")
}

func truncate(s string, max int) string {
	s = strings.Join(strings.Fields(s), " ")
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
