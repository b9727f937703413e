package dcttxt

import (
	"errors"
	"fmt"
)

var (
	// ErrNoSeparator: a non-blank line has none of the four separators.
	ErrNoSeparator = errors.New("no separator found")
	// ErrDanglingAnchor: a keyless line appears before any keyed line.
	ErrDanglingAnchor = errors.New("keyless line has no anchor")
	// ErrMalformedFlowValue: the flow sub-parser rejected a <> or >> value.
	ErrMalformedFlowValue = errors.New("malformed flow value")
	// ErrMergeConflict: a repeated key cannot be merged.
	ErrMergeConflict = errors.New("merge conflict")
)

// LineError wraps a parse error with the source file and 1-based line
// number it happened on. Path is empty when parsing does not come from
// a file.
type LineError struct {
	Path string
	Line int
	Err  error
}

func (e *LineError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("line %d: %s", e.Line, e.Err)
	}
	return fmt.Sprintf("%s:%d: %s", e.Path, e.Line, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}
