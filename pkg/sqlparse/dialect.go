package sqlparse

import (
	"sort"

	"github.com/harborview-labs/querygate/pkg/grammar"
)

// KustoKQLEngine is the engine identifier for Kusto KQL, the one dialect
// with no grammar-based parser. It is intentionally absent from the
// dialect table below; NewScript routes it to the textual KQLStatement.
const KustoKQLEngine = "kustokql"

// engineDialects maps execution-layer engine identifiers to the grammar
// dialect used to parse their SQL. Engines without a matching grammar
// (crate, db2, dremio, druid, elasticsearch, impala, pinot, solr, ...)
// are deliberately unmapped and parse in the generic ANSI mode.
//
// Loaded once at process start; read-only thereafter, so concurrent
// lookups need no synchronization.
var engineDialects = map[string]grammar.Dialect{
	"ascend":      grammar.Hive,
	"awsathena":   grammar.Presto,
	"bigquery":    grammar.BigQuery,
	"clickhouse":  grammar.ClickHouse,
	"cockroachdb": grammar.Postgres,
	"databricks":  grammar.Databricks,
	"drill":       grammar.Drill,
	"duckdb":      grammar.DuckDB,
	"hana":        grammar.Postgres,
	"hive":        grammar.Hive,
	"mssql":       grammar.TSQL,
	"mysql":       grammar.MySQL,
	"netezza":     grammar.Postgres,
	"oracle":      grammar.Oracle,
	"postgresql":  grammar.Postgres,
	"presto":      grammar.Presto,
	"pydoris":     grammar.Doris,
	"redshift":    grammar.Redshift,
	"snowflake":   grammar.Snowflake,
	"spark":       grammar.Spark,
	"sqlite":      grammar.SQLite,
	"starrocks":   grammar.StarRocks,
	"teradatasql": grammar.Teradata,
	"trino":       grammar.Trino,
	"vertica":     grammar.Postgres,
}

// DialectFor returns the grammar dialect for an engine identifier. The
// zero dialect (grammar.ANSI) is returned for unknown engines, which
// requests a dialect-agnostic parse.
func DialectFor(engine string) grammar.Dialect {
	return engineDialects[engine]
}

// Engines returns every known engine identifier, kustokql included,
// sorted for stable display.
func Engines() []string {
	names := make([]string, 0, len(engineDialects)+1)
	for name := range engineDialects {
		names = append(names, name)
	}
	names = append(names, KustoKQLEngine)
	sort.Strings(names)
	return names
}
