package convert

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Format re-serializes raw in its own format: YAML as block YAML, JSON with
// two-space indentation. Key order is preserved.
func Format(raw string, mode Mode) (string, error) {
	return run(OpFormat, raw, mode, nil)
}

// Parse renders the parsed value of raw as a human-readable debug string.
func Parse(raw string, mode Mode) (string, error) {
	return run(OpParse, raw, mode, nil)
}

// Convert serializes raw into the other format and returns that format.
func Convert(raw string, mode Mode) (string, Mode, error) {
	out, err := run(OpConvert, raw, mode, nil)
	if err != nil {
		return "", ModeUnknown, err
	}
	return out, mode.Other(), nil
}

// run parses raw (unless tree is already parsed) and renders it for op.
// Every failure is returned as a *Error; panics are recovered.
func run(op Operation, raw string, mode Mode, tree *yaml.Node) (out string, err error) {
	if mode != ModeJSON && mode != ModeYAML {
		return "", &Error{Op: op, Kind: KindUnknownMode, Err: fmt.Errorf("%w: unsupported mode %q", ErrUnknownMode, mode)}
	}
	if tree == nil {
		tree, err = parseAs(raw, mode)
		if err != nil {
			return "", &Error{Op: op, Kind: KindParse, Err: err}
		}
	}

	defer func() {
		if r := recover(); r != nil {
			out, err = "", &Error{Op: op, Kind: KindSerialization, Err: fmt.Errorf("%v", r)}
		}
	}()

	out, err = render(op, mode, tree)
	if err != nil {
		return "", &Error{Op: op, Kind: KindSerialization, Err: err}
	}
	return out, nil
}

func render(op Operation, mode Mode, tree *yaml.Node) (string, error) {
	switch op {
	case OpFormat:
		if mode == ModeYAML {
			return encodeYAML(tree)
		}
		return encodeJSON(tree)
	case OpParse:
		return debugString(tree)
	case OpConvert:
		if mode == ModeYAML {
			return encodeJSON(tree)
		}
		return encodeYAML(tree)
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownOperation, op)
}
