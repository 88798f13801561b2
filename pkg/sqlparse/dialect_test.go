package sqlparse_test

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/harborview-labs/querygate/pkg/grammar"
	"github.com/harborview-labs/querygate/pkg/sqlparse"
)

func TestDialectFor(t *testing.T) {
	cases := []struct {
		engine string
		want   grammar.Dialect
	}{
		{"postgresql", grammar.Postgres},
		{"vertica", grammar.Postgres},
		{"cockroachdb", grammar.Postgres},
		{"mssql", grammar.TSQL},
		{"awsathena", grammar.Presto},
		{"ascend", grammar.Hive},
		{"pydoris", grammar.Doris},
		{"teradatasql", grammar.Teradata},
		{"bigquery", grammar.BigQuery},
		{"snowflake", grammar.Snowflake},
	}
	for _, tc := range cases {
		t.Run(tc.engine, func(t *testing.T) {
			assert.Equal(t, tc.want, sqlparse.DialectFor(tc.engine))
		})
	}
}

func TestDialectFor_Unknown(t *testing.T) {
	assert.Equal(t, grammar.ANSI, sqlparse.DialectFor("no-such-engine"))
}

// kustokql has no grammar and is intentionally not in the dialect map.
func TestDialectFor_KustoKQL(t *testing.T) {
	assert.Equal(t, grammar.ANSI, sqlparse.DialectFor(sqlparse.KustoKQLEngine))
}

func TestEngines(t *testing.T) {
	engines := sqlparse.Engines()
	assert.Contains(t, engines, "postgresql")
	assert.Contains(t, engines, sqlparse.KustoKQLEngine)
	assert.True(t, sort.StringsAreSorted(engines))
}
