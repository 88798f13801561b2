package sqlparse

import (
	"fmt"
	"sort"
	"strings"
)

// Table is a fully qualified table reference conforming to
// [[catalog.]schema.]table. Values are immutable: they are constructed
// only as extraction output and never modified.
//
// Equality is defined over the canonical string form (see String), not
// field-wise. Because parts are stored verbatim and absent qualifiers are
// empty strings, Go's structural comparison of Table values coincides
// with canonical-string comparison, so Table is usable as a map key.
type Table struct {
	Name    string
	Schema  string
	Catalog string
}

// String returns the canonical dotted form of the table name: catalog,
// schema, name in that order, absent parts skipped, each part
// percent-encoded with "." reserved (escaped to %2E) so parts can never
// collapse into one another.
//
// The canonical form is for logging, comparison and debugging only. It
// must never be used for SQL generation: identifier quoting there is
// dialect-specific.
func (t Table) String() string {
	var parts []string
	for _, part := range []string{t.Catalog, t.Schema, t.Name} {
		if part != "" {
			parts = append(parts, escapePart(part))
		}
	}
	return strings.Join(parts, ".")
}

// Equal reports whether t denotes the same table as any descriptor
// exposing the same canonical string contract.
func (t Table) Equal(other fmt.Stringer) bool {
	return t.String() == other.String()
}

// escapePart percent-encodes a single name part. Alphanumerics and
// "_-~" pass through; everything else, including the "." separator, is
// escaped.
func escapePart(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9',
			c == '_', c == '-', c == '~':
			b.WriteByte(c)
		default:
			fmt.Fprintf(&b, "%%%02X", c)
		}
	}
	return b.String()
}

// TableSet is a set of extracted table references. It is the sole
// contract consumed by the access-control layer.
type TableSet map[Table]struct{}

// Add inserts a table into the set.
func (s TableSet) Add(t Table) {
	s[t] = struct{}{}
}

// Contains reports set membership.
func (s TableSet) Contains(t Table) bool {
	_, ok := s[t]
	return ok
}

// Sorted returns the tables ordered by canonical string, for stable
// output and comparison.
func (s TableSet) Sorted() []Table {
	tables := make([]Table, 0, len(s))
	for t := range s {
		tables = append(tables, t)
	}
	sort.Slice(tables, func(i, j int) bool {
		return tables[i].String() < tables[j].String()
	})
	return tables
}
