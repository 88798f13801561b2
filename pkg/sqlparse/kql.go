package sqlparse

import (
	"log/slog"
	"regexp"
	"strings"
)

// splitState is the state of the quote-aware splitter. The machine only
// tracks whether the scanner is inside a string literal, so a semicolon
// that is part of a literal is never treated as a separator.
type splitState int

const (
	outsideString splitState = iota
	insideSingleQuotedString
	insideDoubleQuotedString
	insideMultilineString
)

// SplitKQL splits a KQL script on top-level semicolons. Single-quoted,
// double-quoted and multiline (triple-backtick) string literals are
// scanned through; a separator inside them is inert. A trailing separator
// is appended if missing so the last segment is always captured.
//
// Escape detection looks back a single character: a quote preceded by a
// backslash is considered escaped. A literal that ends in an escaped
// backslash immediately before its closing quote (`'a\\'`) is therefore
// read as still open. Known limitation, kept as-is: call sites depend on
// the existing behavior.
func SplitKQL(kql string) []string {
	var statements []string
	state := outsideString
	start := 0
	query := kql
	if !strings.HasSuffix(query, ";") {
		query += ";"
	}
	for i := 0; i < len(query); i++ {
		ch := query[i]
		switch state {
		case outsideString:
			switch {
			case ch == ';':
				statements = append(statements, query[start:i])
				start = i + 1
			case ch == '\'':
				state = insideSingleQuotedString
			case ch == '"':
				state = insideDoubleQuotedString
			case ch == '`' && i >= 2 && query[i-2:i] == "``":
				state = insideMultilineString
			}
		case insideSingleQuotedString:
			if ch == '\'' && (i == 0 || query[i-1] != '\\') {
				state = outsideString
			}
		case insideDoubleQuotedString:
			if ch == '"' && (i == 0 || query[i-1] != '\\') {
				state = outsideString
			}
		case insideMultilineString:
			if ch == '`' && i >= 2 && query[i-2:i] == "``" {
				state = outsideString
			}
		}
	}
	return statements
}

// kqlSetRe matches the whole trimmed statement against the KQL settings
// form `set <name>[=<value>]`.
var kqlSetRe = regexp.MustCompile(`(?i)^set\s+(\w+)(?:\s*=\s*(\w+))?$`)

// KQLStatement is the textual statement variant for Kusto KQL. The
// dialect's grammar is unknown to this system, so the statement holds
// only the trimmed source text and answers queries heuristically.
type KQLStatement struct {
	engine string
	text   string
	tables TableSet
}

// NewKQLStatement wraps text containing exactly one KQL statement. The
// engine identifier must be KustoKQLEngine.
func NewKQLStatement(text, engine string) (*KQLStatement, error) {
	if engine != KustoKQLEngine {
		return nil, &InvalidEngineError{Engine: engine}
	}
	segments := SplitKQL(text)
	if len(segments) != 1 {
		return nil, ErrNotSingleStatement
	}
	return newKQLSegment(segments[0], engine), nil
}

// SplitKQLStatements splits a KQL script into analyzed statements.
func SplitKQLStatements(query, engine string) ([]*KQLStatement, error) {
	if engine != KustoKQLEngine {
		return nil, &InvalidEngineError{Engine: engine}
	}
	segments := SplitKQL(query)
	stmts := make([]*KQLStatement, len(segments))
	for i, segment := range segments {
		stmts[i] = newKQLSegment(segment, engine)
	}
	return stmts, nil
}

func newKQLSegment(segment, engine string) *KQLStatement {
	// Security-relevant limitation: with no grammar there is no table
	// extraction, so table-level access control cannot be enforced for
	// this statement. Loud by contract, never silent.
	slog.Warn("Kusto KQL does not support table extraction; " +
		"table-level access control will not be enforced in the database for this statement")

	return &KQLStatement{
		engine: engine,
		text:   strings.TrimSpace(segment),
		tables: TableSet{},
	}
}

// Engine implements Statement.
func (s *KQLStatement) Engine() string { return s.engine }

// Tables implements Statement. Always empty: see the construction-time
// warning.
func (s *KQLStatement) Tables() TableSet { return s.tables }

// IsMutating implements Statement with a syntactic heuristic, not a
// grammar-verified answer: management commands start with "." and all of
// them except ".show" may alter data or metadata.
func (s *KQLStatement) IsMutating() bool {
	return strings.HasPrefix(s.text, ".") && !strings.HasPrefix(s.text, ".show")
}

// Format implements Statement. No pretty-printer exists for this
// dialect, so formatting is the identity on the trimmed source text.
func (s *KQLStatement) Format(bool) (string, error) {
	return s.text, nil
}

// Settings implements Statement. A value-less `set <name>` is a flag and
// maps to boolean true.
func (s *KQLStatement) Settings() Settings {
	if m := kqlSetRe.FindStringSubmatch(s.text); m != nil {
		if m[2] == "" {
			return Settings{m[1]: true}
		}
		return Settings{m[1]: m[2]}
	}
	return Settings{}
}

// String returns the trimmed statement text.
func (s *KQLStatement) String() string { return s.text }
