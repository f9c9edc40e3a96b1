package convert

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	errEmptyYAML     = errors.New("yaml: empty document")
	errMultiDocYAML  = errors.New("yaml: expected a single document in the stream")
	errTrailingJSON  = errors.New("invalid character after top-level value")
	errJSONStructure = errors.New("unexpected JSON token")
)

// decodeJSON parses raw as exactly one JSON value into an ordered node tree.
// Duplicate object keys keep their first position and their last value.
func decodeJSON(raw string) (*yaml.Node, error) {
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()

	n, err := jsonValue(dec)
	if err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		if err == nil {
			err = errTrailingJSON
		}
		return nil, err
	}
	return n, nil
}

func jsonValue(dec *json.Decoder) (*yaml.Node, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '{':
			return jsonObject(dec)
		case '[':
			return jsonArray(dec)
		}
		return nil, fmt.Errorf("%w %q", errJSONStructure, v)
	case string:
		return scalar(strTag, v), nil
	case json.Number:
		return scalar(numberTag(v.String()), v.String()), nil
	case bool:
		return scalar(boolTag, strconv.FormatBool(v)), nil
	case nil:
		return scalar(nullTag, "null"), nil
	}
	return nil, fmt.Errorf("%w %v", errJSONStructure, tok)
}

func jsonObject(dec *json.Decoder) (*yaml.Node, error) {
	m := &yaml.Node{Kind: yaml.MappingNode, Tag: mapTag}
	index := make(map[string]int)

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("%w %v", errJSONStructure, tok)
		}
		val, err := jsonValue(dec)
		if err != nil {
			return nil, err
		}
		if i, dup := index[key]; dup {
			m.Content[i+1] = val
			continue
		}
		index[key] = len(m.Content)
		m.Content = append(m.Content, scalar(strTag, key), val)
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return m, nil
}

func jsonArray(dec *json.Decoder) (*yaml.Node, error) {
	s := &yaml.Node{Kind: yaml.SequenceNode, Tag: seqTag, Content: []*yaml.Node{}}
	for dec.More() {
		val, err := jsonValue(dec)
		if err != nil {
			return nil, err
		}
		s.Content = append(s.Content, val)
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return s, nil
}

// numberTag tags a JSON number the way a YAML resolver would tag the same
// plain text, so integers beyond 64 bits become floats.
func numberTag(num string) string {
	if _, err := strconv.ParseInt(num, 10, 64); err == nil {
		return intTag
	}
	if _, err := strconv.ParseUint(num, 10, 64); err == nil {
		return intTag
	}
	return floatTag
}

// decodeYAML parses raw as exactly one YAML document and returns its
// normalized root. Empty and comment-only streams are rejected.
func decodeYAML(raw string) (*yaml.Node, error) {
	dec := yaml.NewDecoder(strings.NewReader(raw))

	var doc yaml.Node
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errEmptyYAML
		}
		return nil, err
	}

	var next yaml.Node
	if err := dec.Decode(&next); !errors.Is(err, io.EOF) {
		if err == nil {
			err = errMultiDocYAML
		}
		return nil, err
	}

	root := &doc
	if doc.Kind == yaml.DocumentNode {
		if len(doc.Content) == 0 {
			return nil, errEmptyYAML
		}
		root = doc.Content[0]
	}
	return normalize(root)
}
