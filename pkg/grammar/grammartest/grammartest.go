// Package grammartest provides a scriptable fake grammar.Engine so the
// analysis layer can be tested without any real parser library. Tests
// stub the exact SQL strings they will feed in, together with the node
// tree, scopes and rendered text the engine should report for each.
package grammartest

import (
	"fmt"

	"github.com/harborview-labs/querygate/pkg/grammar"
)

// Stmt is one stubbed parse unit: the node tree plus everything the fake
// needs to answer Generate and ResolveScopes for it.
type Stmt struct {
	Node   *grammar.Node
	Scopes []*grammar.Scope

	// Pretty is the Generate output with comments; Plain without. Empty
	// values fall back to Pretty, then to Node.SQL.
	Pretty string
	Plain  string
}

// Fake is a grammar.Engine over canned responses. Configure it with Stub
// and StubError before use; it is read-only afterwards and safe for
// concurrent calls.
type Fake struct {
	parses map[string][]*Stmt
	errs   map[string]error
}

// New returns an empty fake engine.
func New() *Fake {
	return &Fake{
		parses: make(map[string][]*Stmt),
		errs:   make(map[string]error),
	}
}

// Stub registers the parse result for an exact SQL string. A nil entry
// stands for an empty parse unit.
func (f *Fake) Stub(sql string, stmts ...*Stmt) {
	f.parses[sql] = stmts
}

// StubError makes Parse fail for an exact SQL string.
func (f *Fake) StubError(sql string, err error) {
	f.errs[sql] = err
}

// Parse implements grammar.Engine.
func (f *Fake) Parse(sql string, _ grammar.Dialect) ([]*grammar.Node, error) {
	if err, ok := f.errs[sql]; ok {
		return nil, err
	}
	stmts, ok := f.parses[sql]
	if !ok {
		return nil, fmt.Errorf("grammartest: no stub for %q", sql)
	}
	nodes := make([]*grammar.Node, len(stmts))
	for i, st := range stmts {
		if st == nil {
			continue
		}
		st.Node.Raw = st
		nodes[i] = st.Node
	}
	return nodes, nil
}

// Generate implements grammar.Engine.
func (f *Fake) Generate(node *grammar.Node, _ grammar.Dialect, opts grammar.GenerateOptions) (string, error) {
	st, ok := node.Raw.(*Stmt)
	if !ok {
		return "", fmt.Errorf("grammartest: node %v was not produced by this engine", node.Kind)
	}
	out := st.Pretty
	if !opts.Comments && st.Plain != "" {
		out = st.Plain
	}
	if out == "" {
		out = node.SQL
	}
	return out, nil
}

// ResolveScopes implements grammar.Engine.
func (f *Fake) ResolveScopes(root *grammar.Node) []*grammar.Scope {
	if st, ok := root.Raw.(*Stmt); ok {
		return st.Scopes
	}
	return nil
}

// TableNode builds a table-reference node. Empty schema/catalog mean
// unqualified.
func TableNode(catalog, schema, name string) *grammar.Node {
	return &grammar.Node{
		Kind:    grammar.KindTable,
		Name:    name,
		Schema:  schema,
		Catalog: catalog,
	}
}

// LiteralNode builds a literal node with the given payload.
func LiteralNode(value string) *grammar.Node {
	return &grammar.Node{Kind: grammar.KindLiteral, Value: value, SQL: value}
}

// CommandNode builds an opaque command node with a literal operand.
func CommandNode(name, operand string) *grammar.Node {
	return &grammar.Node{
		Kind:     grammar.KindCommand,
		Name:     name,
		Children: []*grammar.Node{LiteralNode(operand)},
	}
}

// SetNode builds a Set statement node assigning the given name/value
// source-text pairs.
func SetNode(pairs ...[2]string) *grammar.Node {
	set := &grammar.Node{Kind: grammar.KindSet}
	for _, p := range pairs {
		set.Children = append(set.Children, &grammar.Node{
			Kind: grammar.KindSetItem,
			Children: []*grammar.Node{{
				Kind: grammar.KindEq,
				Children: []*grammar.Node{
					{Kind: grammar.KindOther, SQL: p[0]},
					{Kind: grammar.KindOther, SQL: p[1]},
				},
			}},
		})
	}
	return set
}

// NewScope builds a scope attached to parent.
func NewScope(parent *grammar.Scope, kind grammar.ScopeKind) *grammar.Scope {
	return &grammar.Scope{Parent: parent, Kind: kind}
}
