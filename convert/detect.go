package convert

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Detect classifies raw as JSON, YAML or unknown. JSON is always attempted
// first. It never fails and has no side effects.
func Detect(raw string) Mode {
	mode, _, _ := detect(raw)
	return mode
}

// detect returns the mode together with the parsed tree so callers do not
// parse twice. For unknown input err combines both parser messages.
func detect(raw string) (Mode, *yaml.Node, error) {
	tree, jsonErr := decodeJSON(raw)
	if jsonErr == nil {
		return ModeJSON, tree, nil
	}
	tree, yamlErr := decodeYAML(raw)
	if yamlErr == nil {
		return ModeYAML, tree, nil
	}
	return ModeUnknown, nil, fmt.Errorf("json: %v; %v", jsonErr, yamlErr)
}

// parseAs parses raw under a known mode.
func parseAs(raw string, mode Mode) (*yaml.Node, error) {
	switch mode {
	case ModeJSON:
		return decodeJSON(raw)
	case ModeYAML:
		return decodeYAML(raw)
	}
	return nil, fmt.Errorf("%w: unsupported mode %q", ErrUnknownMode, mode)
}
