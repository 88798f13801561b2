package sqlparse

import (
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/harborview-labs/querygate/pkg/grammar"
)

// Settings maps a session setting name to its assigned value: the
// right-hand-side source text verbatim (quoting preserved) for
// grammar-backed statements, or a token / boolean true for KQL flags.
// Values are only ever string or bool.
type Settings map[string]any

// Statement is a single analyzed SQL statement. Exactly two variants
// exist: SQLStatement (grammar-backed) and KQLStatement (textual).
// Callers dispatch on capability through this interface, never on the
// concrete type.
type Statement interface {
	fmt.Stringer

	// Engine returns the execution-layer engine identifier the statement
	// was analyzed for.
	Engine() string

	// Tables returns the set of tables the statement genuinely
	// references. Computed once at construction; callers must not mutate
	// the returned set.
	Tables() TableSet

	// IsMutating reports whether the statement mutates data (DDL/DML).
	IsMutating() bool

	// Format renders the statement canonically. Comments are stripped
	// when comments is false, where the underlying engine preserves them
	// at all.
	Format(comments bool) (string, error)

	// Settings returns session-scoped assignments made by the statement.
	Settings() Settings
}

// SQLStatement is a statement backed by a grammar engine's parse tree.
// It is used for every engine with a known dialect grammar.
type SQLStatement struct {
	engine  string
	dialect grammar.Dialect
	eng     grammar.Engine
	parsed  *grammar.Node
	tables  TableSet
}

// NewSQLStatement parses text containing exactly one statement. It
// returns an UnparseableQueryError if the engine rejects the text and
// ErrNotSingleStatement if it holds zero or more than one statement.
func NewSQLStatement(sql, engine string, eng grammar.Engine) (*SQLStatement, error) {
	nodes, err := parseUnits(sql, engine, eng)
	if err != nil {
		return nil, err
	}
	if len(nodes) != 1 {
		return nil, ErrNotSingleStatement
	}
	return newParsedStatement(nodes[0], engine, eng), nil
}

// SplitStatements splits a query into analyzed statements using the
// engine's multi-statement parse. Empty parse units are dropped.
// Statements are independent, so per-statement analysis runs
// concurrently; order follows the source text.
func SplitStatements(sql, engine string, eng grammar.Engine) ([]*SQLStatement, error) {
	nodes, err := parseUnits(sql, engine, eng)
	if err != nil {
		return nil, err
	}

	stmts := make([]*SQLStatement, len(nodes))
	var g errgroup.Group
	for i, node := range nodes {
		i, node := i, node
		g.Go(func() error {
			stmts[i] = newParsedStatement(node, engine, eng)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return stmts, nil
}

// parseUnits parses sql in the engine's dialect and drops empty units.
func parseUnits(sql, engine string, eng grammar.Engine) ([]*grammar.Node, error) {
	nodes, err := eng.Parse(sql, DialectFor(engine))
	if err != nil {
		return nil, &UnparseableQueryError{Engine: engine, Err: err}
	}
	units := nodes[:0:0]
	for _, node := range nodes {
		if node != nil {
			units = append(units, node)
		}
	}
	return units, nil
}

// newParsedStatement wraps an already parsed unit. The table set is
// computed eagerly here and never recomputed.
func newParsedStatement(node *grammar.Node, engine string, eng grammar.Engine) *SQLStatement {
	dialect := DialectFor(engine)
	return &SQLStatement{
		engine:  engine,
		dialect: dialect,
		eng:     eng,
		parsed:  node,
		tables:  extractTables(eng, node, dialect),
	}
}

// Engine implements Statement.
func (s *SQLStatement) Engine() string { return s.engine }

// Tables implements Statement.
func (s *SQLStatement) Tables() TableSet { return s.tables }

// IsMutating implements Statement.
func (s *SQLStatement) IsMutating() bool {
	return isMutating(s.eng, s.parsed, s.dialect, s.engine)
}

// Format implements Statement: pretty-generation in the statement's own
// dialect, optionally without comments.
func (s *SQLStatement) Format(comments bool) (string, error) {
	return s.eng.Generate(s.parsed, s.dialect, grammar.GenerateOptions{
		Pretty:   true,
		Comments: comments,
	})
}

// Settings implements Statement. Every SET item's equality pairs are
// collected with their right-hand side kept exactly as written; the
// value is opaque data to this layer.
func (s *SQLStatement) Settings() Settings {
	settings := Settings{}
	for _, item := range s.parsed.FindAll(grammar.KindSetItem) {
		for _, eq := range item.FindAll(grammar.KindEq) {
			if len(eq.Children) == 2 {
				settings[eq.Children[0].SQL] = eq.Children[1].SQL
			}
		}
	}
	return settings
}

// String returns the pretty-formatted statement, or the raw parse-unit
// text if generation fails.
func (s *SQLStatement) String() string {
	out, err := s.Format(true)
	if err != nil {
		return s.parsed.SQL
	}
	return out
}
