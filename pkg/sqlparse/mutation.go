package sqlparse

import (
	"strings"

	"github.com/harborview-labs/querygate/pkg/grammar"
)

// mutatingKinds are the node kinds that always mark a statement as
// DDL/DML.
var mutatingKinds = map[grammar.Kind]bool{
	grammar.KindInsert:   true,
	grammar.KindUpdate:   true,
	grammar.KindDelete:   true,
	grammar.KindMerge:    true,
	grammar.KindCreate:   true,
	grammar.KindDrop:     true,
	grammar.KindTruncate: true,
}

const analyzePrefix = "ANALYZE "

// isMutating walks every node of a parsed statement looking for DDL/DML,
// including mutations hidden in CTE bodies.
//
// Postgres special case: `EXPLAIN ANALYZE <stmt>` actually executes
// <stmt>, so the analyzed text is classified recursively as a fresh
// statement. Other dialects' EXPLAIN forms never recurse.
func isMutating(eng grammar.Engine, root *grammar.Node, dialect grammar.Dialect, engine string) bool {
	mutating := false
	root.Walk(func(n *grammar.Node) bool {
		if mutatingKinds[n.Kind] ||
			(n.Kind == grammar.KindCommand && strings.EqualFold(n.Name, "ALTER")) {
			mutating = true
			return false
		}
		return true
	})
	if mutating {
		return true
	}

	if dialect == grammar.Postgres &&
		root.Kind == grammar.KindCommand &&
		strings.EqualFold(root.Name, "EXPLAIN") {
		if lit := root.Find(grammar.KindLiteral); lit != nil {
			if len(lit.Value) > len(analyzePrefix) &&
				strings.EqualFold(lit.Value[:len(analyzePrefix)], analyzePrefix) {
				analyzed := lit.Value[len(analyzePrefix):]
				if st, err := NewSQLStatement(analyzed, engine, eng); err == nil {
					return st.IsMutating()
				}
			}
		}
	}

	return false
}
