package grammar

// ScopeKind indicates what construct introduced a lexical scope.
type ScopeKind int

const (
	// ScopeRoot is the outermost scope of a statement.
	ScopeRoot ScopeKind = iota
	// ScopeCTE is the scope of a common-table-expression body.
	ScopeCTE
	// ScopeSubquery is a subquery in an expression position.
	ScopeSubquery
	// ScopeDerived is a derived table (subquery in FROM).
	ScopeDerived
	// ScopeUnion is one branch of a set operation.
	ScopeUnion
)

// String returns the lowercase name of the scope kind.
func (k ScopeKind) String() string {
	switch k {
	case ScopeRoot:
		return "root"
	case ScopeCTE:
		return "cte"
	case ScopeSubquery:
		return "subquery"
	case ScopeDerived:
		return "derived"
	case ScopeUnion:
		return "union"
	default:
		return "unknown"
	}
}

// Source is a named binding inside a scope: either a concrete table
// reference or a nested scope (CTE body, derived table), never both.
type Source struct {
	Table *Node
	Scope *Scope
}

// Scope is a lexical resolution context produced by an Engine's scope
// resolver. Sources maps every name visible in the scope to what it is
// bound to.
type Scope struct {
	Parent  *Scope
	Kind    ScopeKind
	Sources map[string]Source
}

// Bind adds a named source to the scope, allocating Sources on first use.
func (s *Scope) Bind(name string, src Source) {
	if s.Sources == nil {
		s.Sources = make(map[string]Source)
	}
	s.Sources[name] = src
}

// Bound reports whether name is already bound in this scope (parent
// scopes are not consulted).
func (s *Scope) Bound(name string) bool {
	_, ok := s.Sources[name]
	return ok
}
