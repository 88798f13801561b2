package sqlparse

import (
	"strings"

	"github.com/harborview-labs/querygate/pkg/grammar"
)

// Script is one submitted query split into ordered statements. Order is
// preserved exactly as written: formatting and settings application
// depend on it (a later SET overrides an earlier SET of the same key).
type Script struct {
	statements []Statement
}

// NewScript splits a query into analyzed statements. The kustokql engine
// has no grammar and is handled by the textual variant; supporting
// further ungrammared engines adds disproportionate complexity and
// should be avoided.
func NewScript(query, engine string, eng grammar.Engine) (*Script, error) {
	if engine == KustoKQLEngine {
		stmts, err := SplitKQLStatements(query, engine)
		if err != nil {
			return nil, err
		}
		script := &Script{statements: make([]Statement, len(stmts))}
		for i, st := range stmts {
			script.statements[i] = st
		}
		return script, nil
	}

	stmts, err := SplitStatements(query, engine, eng)
	if err != nil {
		return nil, err
	}
	script := &Script{statements: make([]Statement, len(stmts))}
	for i, st := range stmts {
		script.statements[i] = st
	}
	return script, nil
}

// Statements returns the statements in source order.
func (s *Script) Statements() []Statement { return s.statements }

// Tables returns the union of every statement's table set.
func (s *Script) Tables() TableSet {
	tables := TableSet{}
	for _, st := range s.statements {
		for t := range st.Tables() {
			tables.Add(t)
		}
	}
	return tables
}

// Format renders each statement and joins them with a separator and
// newline.
func (s *Script) Format(comments bool) (string, error) {
	parts := make([]string, len(s.statements))
	for i, st := range s.statements {
		out, err := st.Format(comments)
		if err != nil {
			return "", err
		}
		parts[i] = out
	}
	return strings.Join(parts, ";\n"), nil
}

// Settings folds per-statement settings in order; later assignments to a
// key overwrite earlier ones.
func (s *Script) Settings() Settings {
	settings := Settings{}
	for _, st := range s.statements {
		for k, v := range st.Settings() {
			settings[k] = v
		}
	}
	return settings
}

// HasMutation reports whether any statement in the script mutates data.
func (s *Script) HasMutation() bool {
	for _, st := range s.statements {
		if st.IsMutating() {
			return true
		}
	}
	return false
}
