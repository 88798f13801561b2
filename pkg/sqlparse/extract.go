package sqlparse

import (
	"log/slog"

	"github.com/harborview-labs/querygate/pkg/grammar"
)

// extractTables finds every table genuinely referenced by a parsed
// statement. Three cases, in priority order:
//
//  1. Descriptive statements (DESCRIBE t) have no resolvable sources in
//     the scope model, so the whole tree is scanned for table nodes.
//  2. Opaque commands (SHOW COLUMNS FROM t) carry their target as a
//     string literal. The literal is re-parsed as `SELECT <literal>` to
//     recover a table node; if that fails the statement contributes no
//     tables (soft failure, logged).
//  3. General queries traverse the engine's resolved scopes and keep
//     every table-shaped source that is not a CTE alias.
func extractTables(eng grammar.Engine, root *grammar.Node, dialect grammar.Dialect) TableSet {
	var sources []*grammar.Node

	switch root.Kind {
	case grammar.KindDescribe:
		sources = root.FindAll(grammar.KindTable)

	case grammar.KindCommand:
		lit := root.Find(grammar.KindLiteral)
		if lit == nil {
			return TableSet{}
		}
		pseudo, err := eng.Parse("SELECT "+lit.Value, dialect)
		if err != nil || len(pseudo) == 0 || pseudo[0] == nil {
			slog.Debug("command literal could not be re-parsed; no table references found",
				"literal", lit.Value)
			return TableSet{}
		}
		sources = pseudo[0].FindAll(grammar.KindTable)

	default:
		for _, scope := range eng.ResolveScopes(root) {
			for _, src := range scope.Sources {
				if src.Table != nil && !isCTE(src.Table, scope) {
					sources = append(sources, src.Table)
				}
			}
		}
	}

	tables := TableSet{}
	for _, src := range sources {
		tables.Add(Table{
			Name:    src.Name,
			Schema:  src.Schema,
			Catalog: src.Catalog,
		})
	}
	return tables
}

// isCTE reports whether a table-shaped source found in scope is actually
// an alias bound by a common-table-expression in the enclosing scope.
//
// Without this check a principal with access only to table `foo` could
// read any table via
//
//	WITH foo AS (SELECT * FROM target_table) SELECT * FROM foo
//
// because the resolver's lexical scope would report `foo` as a distinct,
// separately-authorized table.
func isCTE(source *grammar.Node, scope *grammar.Scope) bool {
	if scope.Parent == nil {
		return false
	}
	for name, src := range scope.Parent.Sources {
		if src.Scope != nil && src.Scope.Kind == grammar.ScopeCTE && name == source.Name {
			return true
		}
	}
	return false
}
