package sqlparse_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harborview-labs/querygate/pkg/grammar"
	"github.com/harborview-labs/querygate/pkg/grammar/grammartest"
	"github.com/harborview-labs/querygate/pkg/sqlparse"
)

// selectStub builds a plain SELECT statement stub whose root scope binds
// the given tables.
func selectStub(tables ...string) *grammartest.Stmt {
	scope := grammartest.NewScope(nil, grammar.ScopeRoot)
	for _, name := range tables {
		scope.Bind(name, grammar.Source{Table: grammartest.TableNode("", "", name)})
	}
	return &grammartest.Stmt{
		Node:   &grammar.Node{Kind: grammar.KindSelect},
		Scopes: []*grammar.Scope{scope},
	}
}

func TestNewSQLStatement(t *testing.T) {
	eng := grammartest.New()
	eng.Stub("SELECT * FROM t", selectStub("t"))

	st, err := sqlparse.NewSQLStatement("SELECT * FROM t", "postgresql", eng)
	require.NoError(t, err)
	assert.Equal(t, "postgresql", st.Engine())
	assert.True(t, st.Tables().Contains(sqlparse.Table{Name: "t"}))
	assert.False(t, st.IsMutating())
}

func TestNewSQLStatement_RejectsMultiple(t *testing.T) {
	eng := grammartest.New()
	eng.Stub("SELECT 1; SELECT 2", selectStub(), selectStub())

	_, err := sqlparse.NewSQLStatement("SELECT 1; SELECT 2", "postgresql", eng)
	require.ErrorIs(t, err, sqlparse.ErrNotSingleStatement)
}

func TestNewSQLStatement_RejectsEmpty(t *testing.T) {
	eng := grammartest.New()
	eng.Stub("")

	_, err := sqlparse.NewSQLStatement("", "postgresql", eng)
	require.ErrorIs(t, err, sqlparse.ErrNotSingleStatement)
}

func TestNewSQLStatement_Unparseable(t *testing.T) {
	eng := grammartest.New()
	eng.StubError("SELECT * FROM", errors.New("syntax error at end of input"))

	_, err := sqlparse.NewSQLStatement("SELECT * FROM", "postgresql", eng)
	var unparseable *sqlparse.UnparseableQueryError
	require.ErrorAs(t, err, &unparseable)
	assert.Equal(t, "postgresql", unparseable.Engine)
	assert.Contains(t, unparseable.Error(), "syntax error")
}

func TestSplitStatements_DropsEmptyUnits(t *testing.T) {
	eng := grammartest.New()
	eng.Stub("SELECT 1;;SELECT 2", selectStub(), nil, selectStub())

	stmts, err := sqlparse.SplitStatements("SELECT 1;;SELECT 2", "postgresql", eng)
	require.NoError(t, err)
	assert.Len(t, stmts, 2)
}

func TestSQLStatement_Settings(t *testing.T) {
	eng := grammartest.New()
	eng.Stub("SET foo = 'bar'", &grammartest.Stmt{
		Node: grammartest.SetNode([2]string{"foo", "'bar'"}),
	})

	st, err := sqlparse.NewSQLStatement("SET foo = 'bar'", "postgresql", eng)
	require.NoError(t, err)

	// Quoting of the right-hand side is preserved verbatim.
	assert.Equal(t, sqlparse.Settings{"foo": "'bar'"}, st.Settings())
}

func TestSQLStatement_SettingsEmptyForPlainQuery(t *testing.T) {
	eng := grammartest.New()
	eng.Stub("SELECT 1", selectStub())

	st, err := sqlparse.NewSQLStatement("SELECT 1", "postgresql", eng)
	require.NoError(t, err)
	assert.Empty(t, st.Settings())
}

func TestSQLStatement_Format(t *testing.T) {
	eng := grammartest.New()
	eng.Stub("select * from t -- note", &grammartest.Stmt{
		Node:   &grammar.Node{Kind: grammar.KindSelect},
		Pretty: "SELECT\n  *\nFROM t -- note",
		Plain:  "SELECT\n  *\nFROM t",
	})

	st, err := sqlparse.NewSQLStatement("select * from t -- note", "postgresql", eng)
	require.NoError(t, err)

	withComments, err := st.Format(true)
	require.NoError(t, err)
	assert.Equal(t, "SELECT\n  *\nFROM t -- note", withComments)

	withoutComments, err := st.Format(false)
	require.NoError(t, err)
	assert.Equal(t, "SELECT\n  *\nFROM t", withoutComments)

	assert.Equal(t, withComments, st.String())
}
