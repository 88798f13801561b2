package grammar

// Dialect tags a SQL grammar variant understood by an Engine. The empty
// dialect requests a generic, ANSI-ish parse.
type Dialect string

// Dialects understood by the engines this layer is deployed against.
// The list mirrors the parser side and is not exhaustive; an Engine may
// support a subset and approximate the rest.
const (
	ANSI       Dialect = ""
	BigQuery   Dialect = "bigquery"
	ClickHouse Dialect = "clickhouse"
	Databricks Dialect = "databricks"
	Doris      Dialect = "doris"
	Drill      Dialect = "drill"
	DuckDB     Dialect = "duckdb"
	Hive       Dialect = "hive"
	MySQL      Dialect = "mysql"
	Oracle     Dialect = "oracle"
	Postgres   Dialect = "postgres"
	Presto     Dialect = "presto"
	Redshift   Dialect = "redshift"
	Snowflake  Dialect = "snowflake"
	Spark      Dialect = "spark"
	SQLite     Dialect = "sqlite"
	StarRocks  Dialect = "starrocks"
	Teradata   Dialect = "teradata"
	Trino      Dialect = "trino"
	TSQL       Dialect = "tsql"
)

// GenerateOptions controls text generation.
type GenerateOptions struct {
	// Pretty requests multi-line, indented output.
	Pretty bool
	// Comments requests that source comments be carried into the output,
	// where the engine preserved them at parse time.
	Comments bool
}

// Engine is the external grammar-based parsing engine. Implementations
// must be safe for concurrent use: all three operations are pure
// functions of their inputs.
type Engine interface {
	// Parse splits sql into statements and parses each one. It returns an
	// error if the text is not valid in the given dialect. Implementations
	// may return nil entries for empty statements; callers drop them.
	Parse(sql string, dialect Dialect) ([]*Node, error)

	// Generate renders a previously parsed statement back to SQL.
	Generate(node *Node, dialect Dialect, opts GenerateOptions) (string, error)

	// ResolveScopes computes the lexical scope tree for a parsed
	// statement and returns every scope in it. Statements without
	// resolvable sources (DDL, commands) yield an empty slice.
	ResolveScopes(root *Node) []*Scope
}
