package pgengine

import (
	"strconv"
	"strings"

	pg_query "github.com/pganalyze/pg_query_go/v6"

	"github.com/harborview-labs/querygate/pkg/grammar"
)

// converter maps libpg_query statements onto the shallow generic node
// model. Only the shapes the analysis layer inspects are materialized:
// top-level statement kinds, embedded queries and CTE bodies (so DML
// hidden in a WITH clause stays visible to the mutation walk), SET
// assignments with their source text, and SHOW/EXPLAIN as opaque
// commands with a literal operand.
type converter struct {
	sql string
}

func (c *converter) convertRaw(raw *pg_query.RawStmt) *grammar.Node {
	node := c.convertStmt(raw.GetStmt(), c.stmtEnd(raw))
	node.Raw = raw
	node.SQL = c.stmtText(raw)
	return node
}

// stmtEnd returns the byte offset just past the statement's source text.
func (c *converter) stmtEnd(raw *pg_query.RawStmt) int {
	end := int(raw.GetStmtLocation()) + int(raw.GetStmtLen())
	if raw.GetStmtLen() == 0 || end > len(c.sql) {
		end = len(c.sql)
	}
	return end
}

func (c *converter) stmtText(raw *pg_query.RawStmt) string {
	start := int(raw.GetStmtLocation())
	if start < 0 || start > len(c.sql) {
		return ""
	}
	return strings.TrimSpace(c.sql[start:c.stmtEnd(raw)])
}

func (c *converter) convertStmt(node *pg_query.Node, end int) *grammar.Node {
	if node == nil {
		return &grammar.Node{Kind: grammar.KindOther}
	}

	switch {
	case node.GetSelectStmt() != nil:
		out := &grammar.Node{Kind: grammar.KindSelect}
		c.appendSelectChildren(out, node.GetSelectStmt(), end)
		return out

	case node.GetInsertStmt() != nil:
		stmt := node.GetInsertStmt()
		out := &grammar.Node{Kind: grammar.KindInsert}
		c.appendCTEChildren(out, stmt.GetWithClause(), end)
		if stmt.GetSelectStmt() != nil {
			out.Children = append(out.Children, c.convertStmt(stmt.GetSelectStmt(), end))
		}
		return out

	case node.GetUpdateStmt() != nil:
		out := &grammar.Node{Kind: grammar.KindUpdate}
		c.appendCTEChildren(out, node.GetUpdateStmt().GetWithClause(), end)
		return out

	case node.GetDeleteStmt() != nil:
		out := &grammar.Node{Kind: grammar.KindDelete}
		c.appendCTEChildren(out, node.GetDeleteStmt().GetWithClause(), end)
		return out

	case node.GetMergeStmt() != nil:
		out := &grammar.Node{Kind: grammar.KindMerge}
		c.appendCTEChildren(out, node.GetMergeStmt().GetWithClause(), end)
		return out

	case node.GetCreateStmt() != nil,
		node.GetCreateSchemaStmt() != nil,
		node.GetCreateSeqStmt() != nil,
		node.GetCreateFunctionStmt() != nil,
		node.GetCreateTrigStmt() != nil,
		node.GetCreateExtensionStmt() != nil,
		node.GetIndexStmt() != nil:
		return &grammar.Node{Kind: grammar.KindCreate}

	case node.GetCreateTableAsStmt() != nil:
		out := &grammar.Node{Kind: grammar.KindCreate}
		if q := node.GetCreateTableAsStmt().GetQuery(); q != nil {
			out.Children = append(out.Children, c.convertStmt(q, end))
		}
		return out

	case node.GetViewStmt() != nil:
		out := &grammar.Node{Kind: grammar.KindCreate}
		if q := node.GetViewStmt().GetQuery(); q != nil {
			out.Children = append(out.Children, c.convertStmt(q, end))
		}
		return out

	case node.GetDropStmt() != nil:
		return &grammar.Node{Kind: grammar.KindDrop}

	case node.GetTruncateStmt() != nil:
		return &grammar.Node{Kind: grammar.KindTruncate}

	case node.GetAlterTableStmt() != nil,
		node.GetRenameStmt() != nil,
		node.GetAlterObjectSchemaStmt() != nil,
		node.GetAlterOwnerStmt() != nil,
		node.GetAlterSeqStmt() != nil:
		return &grammar.Node{Kind: grammar.KindCommand, Name: "ALTER"}

	case node.GetVariableSetStmt() != nil:
		return c.convertVariableSet(node.GetVariableSetStmt(), end)

	case node.GetVariableShowStmt() != nil:
		name := node.GetVariableShowStmt().GetName()
		return &grammar.Node{
			Kind: grammar.KindCommand,
			Name: "SHOW",
			Children: []*grammar.Node{
				{Kind: grammar.KindLiteral, Value: name, SQL: name},
			},
		}

	case node.GetExplainStmt() != nil:
		return c.convertExplain(node.GetExplainStmt())

	default:
		return &grammar.Node{Kind: grammar.KindOther}
	}
}

func (c *converter) appendSelectChildren(out *grammar.Node, stmt *pg_query.SelectStmt, end int) {
	c.appendCTEChildren(out, stmt.GetWithClause(), end)
	if stmt.GetLarg() != nil {
		branch := &grammar.Node{Kind: grammar.KindSelect}
		c.appendSelectChildren(branch, stmt.GetLarg(), end)
		out.Children = append(out.Children, branch)
	}
	if stmt.GetRarg() != nil {
		branch := &grammar.Node{Kind: grammar.KindSelect}
		c.appendSelectChildren(branch, stmt.GetRarg(), end)
		out.Children = append(out.Children, branch)
	}
}

// appendCTEChildren converts CTE bodies so statements like
// `WITH d AS (DELETE FROM t RETURNING *) SELECT * FROM d` classify as
// mutating.
func (c *converter) appendCTEChildren(out *grammar.Node, with *pg_query.WithClause, end int) {
	if with == nil {
		return
	}
	for _, cte := range with.GetCtes() {
		expr := cte.GetCommonTableExpr()
		if expr == nil || expr.GetCtequery() == nil {
			continue
		}
		out.Children = append(out.Children, c.convertStmt(expr.GetCtequery(), end))
	}
}

// convertVariableSet maps `SET name = value` onto the generic
// Set/SetItem/Eq shape. The right-hand side leaf carries the original
// source text so quoting survives exactly as written.
func (c *converter) convertVariableSet(stmt *pg_query.VariableSetStmt, end int) *grammar.Node {
	out := &grammar.Node{Kind: grammar.KindSet}
	if stmt.GetKind() != pg_query.VariableSetKind_VAR_SET_VALUE || len(stmt.GetArgs()) == 0 {
		// RESET, SET ... TO DEFAULT and friends assign nothing.
		out.Children = append(out.Children, &grammar.Node{Kind: grammar.KindSetItem})
		return out
	}

	value := c.argSourceText(stmt.GetArgs(), end)
	out.Children = append(out.Children, &grammar.Node{
		Kind: grammar.KindSetItem,
		Children: []*grammar.Node{{
			Kind: grammar.KindEq,
			Children: []*grammar.Node{
				{Kind: grammar.KindOther, SQL: stmt.GetName()},
				{Kind: grammar.KindOther, SQL: value},
			},
		}},
	})
	return out
}

// argSourceText recovers the assignment's right-hand side from the
// original query text, falling back to rendering the constant when the
// parser gave no usable location.
func (c *converter) argSourceText(args []*pg_query.Node, end int) string {
	loc := argLocation(args[0])
	if loc >= 0 && int(loc) < end && int(loc) < len(c.sql) {
		text := c.sql[loc:end]
		text = strings.TrimRight(strings.TrimSpace(text), ";")
		return strings.TrimSpace(text)
	}

	parts := make([]string, 0, len(args))
	for _, arg := range args {
		parts = append(parts, renderConstant(arg))
	}
	return strings.Join(parts, ", ")
}

func argLocation(node *pg_query.Node) int32 {
	switch {
	case node.GetAConst() != nil:
		return node.GetAConst().GetLocation()
	case node.GetTypeCast() != nil:
		return node.GetTypeCast().GetLocation()
	case node.GetFuncCall() != nil:
		return node.GetFuncCall().GetLocation()
	case node.GetColumnRef() != nil:
		return node.GetColumnRef().GetLocation()
	default:
		return -1
	}
}

// renderConstant prints a constant the way it would appear in SQL.
// String constants are re-quoted: the grammar treats both `bar` and
// `'bar'` as string values here, so original quoting is unknowable.
func renderConstant(node *pg_query.Node) string {
	ac := node.GetAConst()
	if ac == nil {
		return ""
	}
	switch {
	case ac.GetSval() != nil:
		return "'" + strings.ReplaceAll(ac.GetSval().GetSval(), "'", "''") + "'"
	case ac.GetIval() != nil:
		return strconv.Itoa(int(ac.GetIval().GetIval()))
	case ac.GetFval() != nil:
		return ac.GetFval().GetFval()
	case ac.GetBoolval() != nil:
		if ac.GetBoolval().GetBoolval() {
			return "true"
		}
		return "false"
	default:
		return ""
	}
}

// convertExplain surfaces EXPLAIN as an opaque command whose literal
// operand is the deparsed inner statement, prefixed with "ANALYZE " when
// the option is present. The mutation classifier relies on that prefix:
// Postgres executes the statement under EXPLAIN ANALYZE.
func (c *converter) convertExplain(stmt *pg_query.ExplainStmt) *grammar.Node {
	operand := ""
	if q := stmt.GetQuery(); q != nil {
		if inner, err := deparseStmt(q); err == nil {
			operand = inner
		}
	}
	if explainAnalyze(stmt) {
		operand = "ANALYZE " + operand
	}
	return &grammar.Node{
		Kind: grammar.KindCommand,
		Name: "EXPLAIN",
		Children: []*grammar.Node{
			{Kind: grammar.KindLiteral, Value: operand, SQL: operand},
		},
	}
}

func explainAnalyze(stmt *pg_query.ExplainStmt) bool {
	for _, opt := range stmt.GetOptions() {
		if def := opt.GetDefElem(); def != nil && strings.EqualFold(def.GetDefname(), "analyze") {
			return true
		}
	}
	return false
}
