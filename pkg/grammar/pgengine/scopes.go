package pgengine

import (
	pg_query "github.com/pganalyze/pg_query_go/v6"

	"github.com/harborview-labs/querygate/pkg/grammar"
)

// resolver computes the lexical scope tree for one statement, collecting
// every scope it creates. The model is deliberately bounded: FROM and
// JOIN range vars, CTEs, derived tables, sublinks in WHERE/HAVING and
// target lists, set-operation branches, and DML/DDL target relations.
// Table functions and other exotic sources contribute nothing.
type resolver struct {
	scopes []*grammar.Scope
}

func (r *resolver) newScope(parent *grammar.Scope, kind grammar.ScopeKind) *grammar.Scope {
	scope := &grammar.Scope{Parent: parent, Kind: kind}
	r.scopes = append(r.scopes, scope)
	return scope
}

func (r *resolver) resolveStmt(node *pg_query.Node, parent *grammar.Scope, kind grammar.ScopeKind) *grammar.Scope {
	if node == nil {
		return nil
	}
	switch {
	case node.GetSelectStmt() != nil:
		return r.resolveSelect(node.GetSelectStmt(), parent, kind)
	case node.GetInsertStmt() != nil:
		return r.resolveInsert(node.GetInsertStmt(), parent, kind)
	case node.GetUpdateStmt() != nil:
		return r.resolveUpdate(node.GetUpdateStmt(), parent, kind)
	case node.GetDeleteStmt() != nil:
		return r.resolveDelete(node.GetDeleteStmt(), parent, kind)
	case node.GetMergeStmt() != nil:
		return r.resolveMerge(node.GetMergeStmt(), parent, kind)
	case node.GetCreateTableAsStmt() != nil:
		return r.resolveStmt(node.GetCreateTableAsStmt().GetQuery(), parent, kind)
	case node.GetViewStmt() != nil:
		return r.resolveStmt(node.GetViewStmt().GetQuery(), parent, kind)
	case node.GetCreateStmt() != nil:
		scope := r.newScope(parent, kind)
		r.bindRelation(node.GetCreateStmt().GetRelation(), scope)
		return scope
	case node.GetIndexStmt() != nil:
		scope := r.newScope(parent, kind)
		r.bindRelation(node.GetIndexStmt().GetRelation(), scope)
		return scope
	case node.GetTruncateStmt() != nil:
		scope := r.newScope(parent, kind)
		for _, rel := range node.GetTruncateStmt().GetRelations() {
			r.bindRelation(rel.GetRangeVar(), scope)
		}
		return scope
	case node.GetDropStmt() != nil:
		return r.resolveDrop(node.GetDropStmt(), parent, kind)
	default:
		return nil
	}
}

// resolveDrop binds the relations a DROP statement removes. Only
// table-shaped object classes participate; dropping functions, types and
// the like touches no relation.
func (r *resolver) resolveDrop(stmt *pg_query.DropStmt, parent *grammar.Scope, kind grammar.ScopeKind) *grammar.Scope {
	switch stmt.GetRemoveType() {
	case pg_query.ObjectType_OBJECT_TABLE,
		pg_query.ObjectType_OBJECT_VIEW,
		pg_query.ObjectType_OBJECT_MATVIEW,
		pg_query.ObjectType_OBJECT_FOREIGN_TABLE:
	default:
		return nil
	}

	scope := r.newScope(parent, kind)
	for _, obj := range stmt.GetObjects() {
		parts := qualifiedName(obj.GetList())
		if len(parts) == 0 {
			continue
		}
		table := &grammar.Node{Kind: grammar.KindTable, Name: parts[len(parts)-1]}
		if len(parts) > 1 {
			table.Schema = parts[len(parts)-2]
		}
		if len(parts) > 2 {
			table.Catalog = parts[len(parts)-3]
		}
		scope.Bind(table.Name, grammar.Source{Table: table})
	}
	return scope
}

func qualifiedName(list *pg_query.List) []string {
	if list == nil {
		return nil
	}
	parts := make([]string, 0, len(list.GetItems()))
	for _, item := range list.GetItems() {
		if s := item.GetString_(); s != nil {
			parts = append(parts, s.GetSval())
		}
	}
	return parts
}

func (r *resolver) resolveSelect(stmt *pg_query.SelectStmt, parent *grammar.Scope, kind grammar.ScopeKind) *grammar.Scope {
	scope := r.newScope(parent, kind)
	r.bindCTEs(stmt.GetWithClause(), scope)

	if stmt.GetLarg() != nil || stmt.GetRarg() != nil {
		// Set operation: each branch resolves in its own scope so branch
		// sources never shadow one another.
		if stmt.GetLarg() != nil {
			r.resolveSelect(stmt.GetLarg(), scope, grammar.ScopeUnion)
		}
		if stmt.GetRarg() != nil {
			r.resolveSelect(stmt.GetRarg(), scope, grammar.ScopeUnion)
		}
		return scope
	}

	for _, item := range stmt.GetFromClause() {
		r.resolveFromItem(item, scope)
	}
	for _, target := range stmt.GetTargetList() {
		r.resolveExpr(target, scope)
	}
	r.resolveExpr(stmt.GetWhereClause(), scope)
	r.resolveExpr(stmt.GetHavingClause(), scope)
	return scope
}

func (r *resolver) resolveInsert(stmt *pg_query.InsertStmt, parent *grammar.Scope, kind grammar.ScopeKind) *grammar.Scope {
	scope := r.newScope(parent, kind)
	r.bindCTEs(stmt.GetWithClause(), scope)
	r.bindRelation(stmt.GetRelation(), scope)
	if stmt.GetSelectStmt() != nil {
		r.resolveStmt(stmt.GetSelectStmt(), scope, grammar.ScopeSubquery)
	}
	return scope
}

func (r *resolver) resolveUpdate(stmt *pg_query.UpdateStmt, parent *grammar.Scope, kind grammar.ScopeKind) *grammar.Scope {
	scope := r.newScope(parent, kind)
	r.bindCTEs(stmt.GetWithClause(), scope)
	r.bindRelation(stmt.GetRelation(), scope)
	for _, item := range stmt.GetFromClause() {
		r.resolveFromItem(item, scope)
	}
	r.resolveExpr(stmt.GetWhereClause(), scope)
	return scope
}

func (r *resolver) resolveDelete(stmt *pg_query.DeleteStmt, parent *grammar.Scope, kind grammar.ScopeKind) *grammar.Scope {
	scope := r.newScope(parent, kind)
	r.bindCTEs(stmt.GetWithClause(), scope)
	r.bindRelation(stmt.GetRelation(), scope)
	for _, item := range stmt.GetUsingClause() {
		r.resolveFromItem(item, scope)
	}
	r.resolveExpr(stmt.GetWhereClause(), scope)
	return scope
}

func (r *resolver) resolveMerge(stmt *pg_query.MergeStmt, parent *grammar.Scope, kind grammar.ScopeKind) *grammar.Scope {
	scope := r.newScope(parent, kind)
	r.bindCTEs(stmt.GetWithClause(), scope)
	r.bindRelation(stmt.GetRelation(), scope)
	if stmt.GetSourceRelation() != nil {
		r.resolveFromItem(stmt.GetSourceRelation(), scope)
	}
	r.resolveExpr(stmt.GetJoinCondition(), scope)
	return scope
}

// bindCTEs resolves each CTE body in its own scope and binds the CTE
// name in the defining scope.
func (r *resolver) bindCTEs(with *pg_query.WithClause, scope *grammar.Scope) {
	if with == nil {
		return
	}
	for _, cte := range with.GetCtes() {
		expr := cte.GetCommonTableExpr()
		if expr == nil {
			continue
		}
		cteScope := r.resolveStmt(expr.GetCtequery(), scope, grammar.ScopeCTE)
		if cteScope != nil {
			scope.Bind(expr.GetCtename(), grammar.Source{Scope: cteScope})
		}
	}
}

// bindRelation binds a DML target relation as a table source.
func (r *resolver) bindRelation(rv *pg_query.RangeVar, scope *grammar.Scope) {
	if rv == nil {
		return
	}
	r.bindRangeVar(rv, scope)
}

func (r *resolver) resolveFromItem(node *pg_query.Node, scope *grammar.Scope) {
	if node == nil {
		return
	}
	switch {
	case node.GetRangeVar() != nil:
		r.bindRangeVar(node.GetRangeVar(), scope)

	case node.GetRangeSubselect() != nil:
		sub := node.GetRangeSubselect()
		derived := r.resolveStmt(sub.GetSubquery(), scope, grammar.ScopeDerived)
		if derived != nil && sub.GetAlias().GetAliasname() != "" {
			scope.Bind(sub.GetAlias().GetAliasname(), grammar.Source{Scope: derived})
		}

	case node.GetJoinExpr() != nil:
		join := node.GetJoinExpr()
		r.resolveFromItem(join.GetLarg(), scope)
		r.resolveFromItem(join.GetRarg(), scope)
		r.resolveExpr(join.GetQuals(), scope)
	}
}

// bindRangeVar binds a FROM-clause (or target) relation. A bare name
// that matches a CTE bound in the same scope refers to the CTE, not to a
// physical table, so the existing binding is kept; references to CTEs of
// *enclosing* scopes stay table-shaped and are filtered out downstream
// by the CTE-exclusion rule.
func (r *resolver) bindRangeVar(rv *pg_query.RangeVar, scope *grammar.Scope) {
	name := rv.GetRelname()
	bind := name
	if rv.GetAlias().GetAliasname() != "" {
		bind = rv.GetAlias().GetAliasname()
	}

	if rv.GetSchemaname() == "" && rv.GetCatalogname() == "" {
		if src, ok := scope.Sources[name]; ok && src.Scope != nil && src.Scope.Kind == grammar.ScopeCTE {
			if bind != name {
				scope.Bind(bind, src)
			}
			return
		}
	}

	scope.Bind(bind, grammar.Source{Table: &grammar.Node{
		Kind:    grammar.KindTable,
		Name:    name,
		Schema:  rv.GetSchemaname(),
		Catalog: rv.GetCatalogname(),
	}})
}

// resolveExpr scans an expression for sublinks, each of which resolves
// as a subquery scope.
func (r *resolver) resolveExpr(node *pg_query.Node, scope *grammar.Scope) {
	if node == nil {
		return
	}
	switch {
	case node.GetSubLink() != nil:
		r.resolveStmt(node.GetSubLink().GetSubselect(), scope, grammar.ScopeSubquery)
	case node.GetBoolExpr() != nil:
		for _, arg := range node.GetBoolExpr().GetArgs() {
			r.resolveExpr(arg, scope)
		}
	case node.GetAExpr() != nil:
		r.resolveExpr(node.GetAExpr().GetLexpr(), scope)
		r.resolveExpr(node.GetAExpr().GetRexpr(), scope)
	case node.GetResTarget() != nil:
		r.resolveExpr(node.GetResTarget().GetVal(), scope)
	case node.GetFuncCall() != nil:
		for _, arg := range node.GetFuncCall().GetArgs() {
			r.resolveExpr(arg, scope)
		}
	case node.GetNullTest() != nil:
		r.resolveExpr(node.GetNullTest().GetArg(), scope)
	case node.GetTypeCast() != nil:
		r.resolveExpr(node.GetTypeCast().GetArg(), scope)
	}
}
