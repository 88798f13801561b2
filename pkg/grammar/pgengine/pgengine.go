// Package pgengine binds the grammar.Engine contract to libpg_query via
// github.com/pganalyze/pg_query_go. It parses with the Postgres grammar
// regardless of the requested dialect tag: for the Postgres-family
// engines this is exact, for everything else it is the best available
// approximation when no other engine is wired in.
//
// Limitations inherited from libpg_query: deparsed SQL is canonical
// single-line form (the Pretty option has no effect) and comments are
// discarded at parse time (the Comments option has nothing to carry).
package pgengine

import (
	"errors"
	"fmt"

	pg_query "github.com/pganalyze/pg_query_go/v6"

	"github.com/harborview-labs/querygate/pkg/grammar"
)

// Engine implements grammar.Engine. The zero value is ready to use and
// safe for concurrent calls.
type Engine struct{}

// New returns a ready engine.
func New() *Engine { return &Engine{} }

// Parse implements grammar.Engine.
func (e *Engine) Parse(sql string, _ grammar.Dialect) ([]*grammar.Node, error) {
	result, err := pg_query.Parse(sql)
	if err != nil {
		return nil, fmt.Errorf("libpg_query: %w", err)
	}

	c := &converter{sql: sql}
	nodes := make([]*grammar.Node, 0, len(result.Stmts))
	for _, raw := range result.Stmts {
		if raw.GetStmt() == nil {
			continue
		}
		node := c.convertRaw(raw)
		nodes = append(nodes, node)
	}
	return nodes, nil
}

// Generate implements grammar.Engine by deparsing the statement's
// original protobuf handle.
func (e *Engine) Generate(node *grammar.Node, _ grammar.Dialect, _ grammar.GenerateOptions) (string, error) {
	raw, ok := node.Raw.(*pg_query.RawStmt)
	if !ok {
		if node.SQL != "" {
			return node.SQL, nil
		}
		return "", errors.New("pgengine: node has no deparsable handle")
	}
	return deparseStmt(raw.GetStmt())
}

// ResolveScopes implements grammar.Engine.
func (e *Engine) ResolveScopes(root *grammar.Node) []*grammar.Scope {
	raw, ok := root.Raw.(*pg_query.RawStmt)
	if !ok {
		return nil
	}
	r := &resolver{}
	r.resolveStmt(raw.GetStmt(), nil, grammar.ScopeRoot)
	return r.scopes
}

// deparseStmt renders a single statement node back to SQL.
func deparseStmt(stmt *pg_query.Node) (string, error) {
	out, err := pg_query.Deparse(&pg_query.ParseResult{
		Stmts: []*pg_query.RawStmt{{Stmt: stmt}},
	})
	if err != nil {
		return "", fmt.Errorf("libpg_query deparse: %w", err)
	}
	return out, nil
}
