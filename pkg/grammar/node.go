package grammar

// Kind classifies a parse-tree node. The set is intentionally small: it
// covers exactly what the analysis layer inspects, not the full grammar of
// any dialect. Engines map their native node types onto these kinds and
// may use KindOther for everything else.
type Kind int

const (
	// KindOther is any node the analysis layer has no special handling for.
	KindOther Kind = iota

	// Statement kinds.
	KindSelect
	KindInsert
	KindUpdate
	KindDelete
	KindMerge
	KindCreate
	KindDrop
	KindTruncate
	KindDescribe

	// KindCommand is an opaque dialect command (SHOW, EXPLAIN, ALTER as
	// surfaced by some engines). Name holds the operator; the operand, if
	// any, is a KindLiteral child.
	KindCommand

	// Settings assignment structure: a Set statement contains SetItem
	// children, each of which contains Eq children pairing a name node
	// with a value node.
	KindSet
	KindSetItem
	KindEq

	// KindTable is a table reference. Name/Schema/Catalog hold the
	// qualified parts.
	KindTable

	// KindLiteral is a literal value; Value holds the unquoted payload.
	KindLiteral
)

var kindNames = map[Kind]string{
	KindOther:    "other",
	KindSelect:   "select",
	KindInsert:   "insert",
	KindUpdate:   "update",
	KindDelete:   "delete",
	KindMerge:    "merge",
	KindCreate:   "create",
	KindDrop:     "drop",
	KindTruncate: "truncate",
	KindDescribe: "describe",
	KindCommand:  "command",
	KindSet:      "set",
	KindSetItem:  "set_item",
	KindEq:       "eq",
	KindTable:    "table",
	KindLiteral:  "literal",
}

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// Node is a dialect-independent parse-tree node produced by an Engine.
// Only the fields relevant to a node's kind are populated.
type Node struct {
	Kind Kind

	// Name is the operator name for commands and the short (unqualified)
	// name for table references.
	Name string

	// Value is the payload of literal nodes.
	Value string

	// Schema and Catalog qualify table references. Empty means absent.
	Schema  string
	Catalog string

	// SQL is the source (or engine-rendered) text of this node. Settings
	// extraction reads it verbatim, so engines must preserve quoting.
	SQL string

	Children []*Node

	// Raw is an engine-owned handle to the native parse result. The
	// analysis layer never touches it; engines use it to generate text
	// and resolve scopes without reparsing.
	Raw any
}

// Walk visits n and every descendant in depth-first order. Traversal
// stops when fn returns false.
func (n *Node) Walk(fn func(*Node) bool) {
	if n == nil {
		return
	}
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Find returns the first node of the given kind in depth-first order, or
// nil if none exists.
func (n *Node) Find(kind Kind) *Node {
	var found *Node
	n.Walk(func(node *Node) bool {
		if found != nil {
			return false
		}
		if node.Kind == kind {
			found = node
			return false
		}
		return true
	})
	return found
}

// FindAll returns every node of the given kind in depth-first order.
func (n *Node) FindAll(kind Kind) []*Node {
	var found []*Node
	n.Walk(func(node *Node) bool {
		if node.Kind == kind {
			found = append(found, node)
		}
		return true
	})
	return found
}
