// Package commands implements the querygate subcommands.
package commands

import (
	"errors"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/harborview-labs/querygate/pkg/grammar"
	"github.com/harborview-labs/querygate/pkg/grammar/pgengine"
	"github.com/harborview-labs/querygate/pkg/sqlparse"
)

// readQuery returns the SQL to analyze: positional arguments joined, or
// stdin when no arguments (or a lone "-") were given.
func readQuery(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 && !(len(args) == 1 && args[0] == "-") {
		return strings.Join(args, " "), nil
	}

	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", err
	}
	query := strings.TrimSpace(string(data))
	if query == "" {
		return "", errors.New("no SQL given: pass it as an argument or on stdin")
	}
	return query, nil
}

// newGrammarEngine returns the grammar engine for an engine identifier.
// kustokql has none; NewScript handles it textually.
func newGrammarEngine(engine string) grammar.Engine {
	if engine == sqlparse.KustoKQLEngine {
		return nil
	}
	return pgengine.New()
}
