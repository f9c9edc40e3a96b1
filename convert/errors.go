package convert

import (
	"errors"
	"fmt"
)

// ErrUnknownOperation is returned by ParseOperation and Do for names other
// than format, parse and convert.
var ErrUnknownOperation = errors.New("convert: unknown operation")

// ErrUnknownMode marks input that neither parser accepted.
var ErrUnknownMode = errors.New("input is neither valid JSON nor valid YAML")

// ErrorKind classifies a conversion failure.
type ErrorKind string

const (
	// KindParse means the input does not conform to the detected grammar.
	KindParse ErrorKind = "parse"
	// KindUnknownMode means the detector could not classify the input.
	KindUnknownMode ErrorKind = "unknown_mode"
	// KindSerialization means the parsed value could not be rendered.
	KindSerialization ErrorKind = "serialization"
)

// Error is the structured failure of a conversion operation. Its message is
// the underlying error's text so it can be shown to users as-is.
type Error struct {
	Op   Operation
	Kind ErrorKind
	Err  error
}

func (e *Error) Error() string {
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsKind reports whether err is a *Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var ce *Error
	return errors.As(err, &ce) && ce.Kind == kind
}

func unknownModeError(op Operation, detail error) *Error {
	return &Error{
		Op:   op,
		Kind: KindUnknownMode,
		Err:  fmt.Errorf("%w (%v)", ErrUnknownMode, detail),
	}
}
