package convert

import "fmt"

// Mode is the detected serialization format of a text blob.
type Mode string

const (
	ModeJSON    Mode = "json"
	ModeYAML    Mode = "yaml"
	ModeUnknown Mode = "unknown"
)

// Other returns the format a convert operation produces from m.
func (m Mode) Other() Mode {
	switch m {
	case ModeJSON:
		return ModeYAML
	case ModeYAML:
		return ModeJSON
	default:
		return ModeUnknown
	}
}

func (m Mode) String() string { return string(m) }

// Operation names one of the conversion operations.
type Operation string

const (
	OpFormat  Operation = "format"
	OpParse   Operation = "parse"
	OpConvert Operation = "convert"
)

// Operations lists every supported operation.
var Operations = []Operation{OpFormat, OpParse, OpConvert}

// ParseOperation validates an operation name.
func ParseOperation(s string) (Operation, error) {
	switch op := Operation(s); op {
	case OpFormat, OpParse, OpConvert:
		return op, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownOperation, s)
	}
}

// ResultMode is the mode reported for op applied to input of mode m.
func (op Operation) ResultMode(m Mode) Mode {
	if op == OpConvert {
		return m.Other()
	}
	return m
}
