package sqlparse

import (
	"errors"
	"fmt"
)

// ErrNotSingleStatement is returned by statement constructors when the
// supplied text does not contain exactly one statement. This is a usage
// error: callers splitting multi-statement scripts go through NewScript.
var ErrNotSingleStatement = errors.New("text must contain exactly one statement")

// UnparseableQueryError reports that the grammar engine rejected a query.
// It is deterministic for a given input and dialect; retrying is useless.
type UnparseableQueryError struct {
	Engine string
	Err    error
}

func (e *UnparseableQueryError) Error() string {
	return fmt.Sprintf("unable to parse query for engine %q: %v", e.Engine, e.Err)
}

func (e *UnparseableQueryError) Unwrap() error { return e.Err }

// InvalidEngineError reports that a statement variant was constructed
// with an engine identifier it does not handle.
type InvalidEngineError struct {
	Engine string
}

func (e *InvalidEngineError) Error() string {
	return fmt.Sprintf("invalid engine: %q", e.Engine)
}
