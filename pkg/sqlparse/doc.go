// Package sqlparse analyzes SQL scripts submitted to a multi-dialect
// query execution layer. It splits scripts into statements, determines
// which tables each statement references (the input to per-table access
// control), classifies DDL/DML mutations, extracts session settings, and
// renders canonical formatted SQL.
//
// Grammar-based parsing is delegated to an external grammar.Engine; the
// one dialect with no available grammar (Kusto KQL) is handled textually
// by KQLStatement and the quote-aware splitter.
package sqlparse
