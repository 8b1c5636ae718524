package parser

import (
	"errors"
	"fmt"
)

// ErrTimeout is returned when a statement took longer than the configured
// time budget. It is a distinct outcome so callers can say so instead of
// blaming the formula.
var ErrTimeout = errors.New("execution time limit exceeded")

// ErrorKind classifies parse failures.
type ErrorKind int

// The parse error kinds.
const (
	// Structural errors are malformed clauses, brackets and limits.
	Structural ErrorKind = iota
	// Construction errors come from building the symbolic expression.
	Construction
	// VariableName errors reject symbols that are not plain letters.
	VariableName
	// Classification errors are statements that parse but cannot be filed.
	Classification
)

func (k ErrorKind) String() string {
	switch k {
	case Structural:
		return "structural"
	case Construction:
		return "construction"
	case VariableName:
		return "variable name"
	case Classification:
		return "classification"
	}

	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// ParseError carries a message that is ready to be shown to the user.
type ParseError struct {
	Kind  ErrorKind
	Input string
	Msg   string
	Err   error
}

func newError(kind ErrorKind, input string, format string, args ...interface{}) *ParseError {
	return &ParseError{Kind: kind, Input: input, Msg: fmt.Sprintf(format, args...)}
}

func (e *ParseError) Error() string {
	return e.Msg
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// IsKind reports whether err is a *ParseError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var perr *ParseError
	return errors.As(err, &perr) && perr.Kind == kind
}
