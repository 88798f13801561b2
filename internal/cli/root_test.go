package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestAnalyzeCommand_JSON(t *testing.T) {
	out, err := execute(t, "analyze", "-o", "json",
		"SET search_path = public; SELECT * FROM a JOIN b ON a.id = b.id; DROP TABLE c")
	require.NoError(t, err)

	var report struct {
		Engine      string         `json:"engine"`
		Tables      []string       `json:"tables"`
		HasMutation bool           `json:"has_mutation"`
		Settings    map[string]any `json:"settings"`
		Statements  []struct {
			Mutating bool `json:"mutating"`
		} `json:"statements"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report))

	assert.Equal(t, "postgresql", report.Engine)
	assert.Equal(t, []string{"a", "b", "c"}, report.Tables)
	assert.True(t, report.HasMutation)
	assert.Equal(t, map[string]any{"search_path": "public"}, report.Settings)
	require.Len(t, report.Statements, 3)
	assert.False(t, report.Statements[1].Mutating)
	assert.True(t, report.Statements[2].Mutating)
}

func TestAnalyzeCommand_Text(t *testing.T) {
	out, err := execute(t, "analyze", "SELECT * FROM orders")
	require.NoError(t, err)
	assert.Contains(t, out, "orders")
	assert.Contains(t, out, "1 statements, mutation: no")
}

func TestAnalyzeCommand_KustoKQL(t *testing.T) {
	out, err := execute(t, "analyze", "-e", "kustokql", "-o", "json", ".drop table Logs")
	require.NoError(t, err)

	var report struct {
		HasMutation bool `json:"has_mutation"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.True(t, report.HasMutation)
}

func TestAnalyzeCommand_ParseError(t *testing.T) {
	_, err := execute(t, "analyze", "SELECT FROM FROM")
	require.Error(t, err)
	assert.Contains(t, describeError(err), "could not parse query")
}

func TestSplitCommand(t *testing.T) {
	out, err := execute(t, "split", "SELECT 1; SELECT 2")
	require.NoError(t, err)
	assert.Equal(t, "SELECT 1;\nSELECT 2;\n", out)
}

func TestFormatCommand(t *testing.T) {
	out, err := execute(t, "format", "select   a,b from t where x=1")
	require.NoError(t, err)
	assert.Equal(t, "SELECT a, b FROM t WHERE x = 1\n", out)
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "querygate v")
}

func TestRootCommand_Flags(t *testing.T) {
	cmd := NewRootCmd()
	for _, flag := range []string{"config", "engine", "output", "verbose", "no-comments"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(flag), "flag %q should exist", flag)
	}
}
