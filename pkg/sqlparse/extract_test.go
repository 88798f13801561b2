package sqlparse_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harborview-labs/querygate/pkg/grammar"
	"github.com/harborview-labs/querygate/pkg/grammar/grammartest"
	"github.com/harborview-labs/querygate/pkg/sqlparse"
)

func tablesOf(t *testing.T, eng *grammartest.Fake, sql string) sqlparse.TableSet {
	t.Helper()
	st, err := sqlparse.NewSQLStatement(sql, "postgresql", eng)
	require.NoError(t, err)
	return st.Tables()
}

func TestExtractTables_SimpleJoin(t *testing.T) {
	eng := grammartest.New()
	eng.Stub("SELECT * FROM a JOIN b ON a.id = b.id", selectStub("a", "b"))

	tables := tablesOf(t, eng, "SELECT * FROM a JOIN b ON a.id = b.id")
	assert.Equal(t, []sqlparse.Table{{Name: "a"}, {Name: "b"}}, tables.Sorted())
}

// The CTE name must never appear in the extracted set: reporting `foo`
// instead of `target_table` would let a principal with access to a table
// named foo read target_table.
func TestExtractTables_CTEExcluded(t *testing.T) {
	sql := "WITH foo AS (SELECT * FROM target_table) SELECT * FROM foo"

	root := grammartest.NewScope(nil, grammar.ScopeRoot)
	cte := grammartest.NewScope(root, grammar.ScopeCTE)
	cte.Bind("target_table", grammar.Source{Table: grammartest.TableNode("", "", "target_table")})
	root.Bind("foo", grammar.Source{Scope: cte})

	eng := grammartest.New()
	eng.Stub(sql, &grammartest.Stmt{
		Node:   &grammar.Node{Kind: grammar.KindSelect},
		Scopes: []*grammar.Scope{root, cte},
	})

	tables := tablesOf(t, eng, sql)
	assert.Equal(t, []sqlparse.Table{{Name: "target_table"}}, tables.Sorted())
	assert.False(t, tables.Contains(sqlparse.Table{Name: "foo"}))
}

// A table-shaped reference to a CTE from a nested scope (the resolver
// reports it as a table, not a scope) is excluded via the parent scope's
// CTE bindings.
func TestExtractTables_CTEReferenceFromNestedScope(t *testing.T) {
	sql := "WITH foo AS (SELECT * FROM target_table) SELECT * FROM (SELECT * FROM foo) sub"

	root := grammartest.NewScope(nil, grammar.ScopeRoot)
	cte := grammartest.NewScope(root, grammar.ScopeCTE)
	cte.Bind("target_table", grammar.Source{Table: grammartest.TableNode("", "", "target_table")})
	root.Bind("foo", grammar.Source{Scope: cte})

	derived := grammartest.NewScope(root, grammar.ScopeDerived)
	derived.Bind("foo", grammar.Source{Table: grammartest.TableNode("", "", "foo")})
	root.Bind("sub", grammar.Source{Scope: derived})

	eng := grammartest.New()
	eng.Stub(sql, &grammartest.Stmt{
		Node:   &grammar.Node{Kind: grammar.KindSelect},
		Scopes: []*grammar.Scope{root, cte, derived},
	})

	tables := tablesOf(t, eng, sql)
	assert.Equal(t, []sqlparse.Table{{Name: "target_table"}}, tables.Sorted())
}

// A real table that merely shares its name with nothing in the parent
// scope is kept even when a sibling scope is a CTE.
func TestExtractTables_NonCTETableKept(t *testing.T) {
	sql := "WITH foo AS (SELECT * FROM t1) SELECT * FROM foo JOIN t2 ON foo.id = t2.id"

	root := grammartest.NewScope(nil, grammar.ScopeRoot)
	cte := grammartest.NewScope(root, grammar.ScopeCTE)
	cte.Bind("t1", grammar.Source{Table: grammartest.TableNode("", "", "t1")})
	root.Bind("foo", grammar.Source{Scope: cte})
	root.Bind("t2", grammar.Source{Table: grammartest.TableNode("", "", "t2")})

	eng := grammartest.New()
	eng.Stub(sql, &grammartest.Stmt{
		Node:   &grammar.Node{Kind: grammar.KindSelect},
		Scopes: []*grammar.Scope{root, cte},
	})

	tables := tablesOf(t, eng, sql)
	assert.Equal(t, []sqlparse.Table{{Name: "t1"}, {Name: "t2"}}, tables.Sorted())
}

func TestExtractTables_QualifiedAndDeduplicated(t *testing.T) {
	sql := "SELECT * FROM c.s.t UNION SELECT * FROM c.s.t"

	root := grammartest.NewScope(nil, grammar.ScopeRoot)
	left := grammartest.NewScope(root, grammar.ScopeUnion)
	left.Bind("t", grammar.Source{Table: grammartest.TableNode("c", "s", "t")})
	right := grammartest.NewScope(root, grammar.ScopeUnion)
	right.Bind("t", grammar.Source{Table: grammartest.TableNode("c", "s", "t")})

	eng := grammartest.New()
	eng.Stub(sql, &grammartest.Stmt{
		Node:   &grammar.Node{Kind: grammar.KindSelect},
		Scopes: []*grammar.Scope{root, left, right},
	})

	tables := tablesOf(t, eng, sql)
	require.Len(t, tables, 1)
	assert.Equal(t, "c.s.t", tables.Sorted()[0].String())
}

func TestExtractTables_Describe(t *testing.T) {
	eng := grammartest.New()
	eng.Stub("DESCRIBE s.t", &grammartest.Stmt{
		Node: &grammar.Node{
			Kind:     grammar.KindDescribe,
			Children: []*grammar.Node{grammartest.TableNode("", "s", "t")},
		},
	})

	tables := tablesOf(t, eng, "DESCRIBE s.t")
	assert.Equal(t, []sqlparse.Table{{Name: "t", Schema: "s"}}, tables.Sorted())
}

func TestExtractTables_CommandLiteralReparsed(t *testing.T) {
	eng := grammartest.New()
	eng.Stub("SHOW COLUMNS FROM tbl", &grammartest.Stmt{
		Node: grammartest.CommandNode("SHOW", "tbl"),
	})
	// The synthetic SELECT recovers a table node from the literal.
	eng.Stub("SELECT tbl", &grammartest.Stmt{
		Node: &grammar.Node{
			Kind:     grammar.KindSelect,
			Children: []*grammar.Node{grammartest.TableNode("", "", "tbl")},
		},
	})

	tables := tablesOf(t, eng, "SHOW COLUMNS FROM tbl")
	assert.Equal(t, []sqlparse.Table{{Name: "tbl"}}, tables.Sorted())
}

func TestExtractTables_CommandLiteralUnresolvable(t *testing.T) {
	// No stub for the synthetic SELECT: reparse fails, statement
	// contributes no tables and construction still succeeds.
	eng := grammartest.New()
	eng.Stub("SHOW GRANTS", &grammartest.Stmt{
		Node: grammartest.CommandNode("SHOW", "GRANTS"),
	})

	tables := tablesOf(t, eng, "SHOW GRANTS")
	assert.Empty(t, tables)
}

func TestExtractTables_CommandWithoutLiteral(t *testing.T) {
	eng := grammartest.New()
	eng.Stub("VACUUM", &grammartest.Stmt{
		Node: &grammar.Node{Kind: grammar.KindCommand, Name: "VACUUM"},
	})

	tables := tablesOf(t, eng, "VACUUM")
	assert.Empty(t, tables)
}

// Reformatting a statement and splitting the result must not change the
// extracted table set.
func TestExtractTables_StableAcrossReformat(t *testing.T) {
	eng := grammartest.New()
	pretty := "SELECT\n  *\nFROM a"
	eng.Stub("select * from a", &grammartest.Stmt{
		Node:   &grammar.Node{Kind: grammar.KindSelect},
		Scopes: selectStub("a").Scopes,
		Pretty: pretty,
	})
	eng.Stub(pretty, selectStub("a"))

	st, err := sqlparse.NewSQLStatement("select * from a", "postgresql", eng)
	require.NoError(t, err)
	formatted, err := st.Format(true)
	require.NoError(t, err)

	again, err := sqlparse.NewSQLStatement(formatted, "postgresql", eng)
	require.NoError(t, err)
	assert.Equal(t, st.Tables().Sorted(), again.Tables().Sorted())
}
