package convert

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const indent = 2

// encodeYAML renders n as a block-style YAML document with keys in their
// original order.
func encodeYAML(n *yaml.Node) (string, error) {
	quoteOldBools(n)
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(indent)
	if err := enc.Encode(n); err != nil {
		return "", err
	}
	if err := enc.Close(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// oldBools are plain strings that YAML 1.1 readers load as booleans.
var oldBools = map[string]bool{
	"y": true, "Y": true, "yes": true, "Yes": true, "YES": true,
	"n": true, "N": true, "no": true, "No": true, "NO": true,
	"on": true, "On": true, "ON": true,
	"off": true, "Off": true, "OFF": true,
}

// quoteOldBools double-quotes string scalars in n that would read back as
// booleans under YAML 1.1.
func quoteOldBools(n *yaml.Node) {
	if n.Kind == yaml.ScalarNode {
		if n.Tag == strTag && oldBools[n.Value] {
			n.Style = yaml.DoubleQuotedStyle
		}
		return
	}
	for _, c := range n.Content {
		quoteOldBools(c)
	}
}

// encodeJSON renders n as JSON indented by two spaces, keys in their
// original order.
func encodeJSON(n *yaml.Node) (string, error) {
	var compact bytes.Buffer
	if err := writeJSON(&compact, n); err != nil {
		return "", err
	}
	var out bytes.Buffer
	if err := json.Indent(&out, compact.Bytes(), "", strings.Repeat(" ", indent)); err != nil {
		return "", err
	}
	return out.String(), nil
}

func writeJSON(buf *bytes.Buffer, n *yaml.Node) error {
	switch n.Kind {
	case yaml.MappingNode:
		buf.WriteByte('{')
		for i := 0; i+1 < len(n.Content); i += 2 {
			if i > 0 {
				buf.WriteByte(',')
			}
			key, err := jsonKey(n.Content[i])
			if err != nil {
				return err
			}
			writeJSONString(buf, key)
			buf.WriteByte(':')
			if err := writeJSON(buf, n.Content[i+1]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
		return nil

	case yaml.SequenceNode:
		buf.WriteByte('[')
		for i, c := range n.Content {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSON(buf, c); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		return nil

	case yaml.ScalarNode:
		tok, err := jsonScalar(n)
		if err != nil {
			return err
		}
		buf.WriteString(tok)
		return nil
	}
	return fmt.Errorf("json: unsupported node kind %s at line %d", kindName(n.Kind), n.Line)
}

var jsonNumber = regexp.MustCompile(`^-?(0|[1-9][0-9]*)(\.[0-9]+)?([eE][-+]?[0-9]+)?$`)

// jsonScalar returns the JSON token for a scalar. Numbers already written
// as valid JSON literals are kept verbatim; timestamps and binary values
// become strings of their source text.
func jsonScalar(n *yaml.Node) (string, error) {
	switch n.Tag {
	case strTag, timestampTag, binaryTag:
		return quoteJSON(n.Value), nil
	case nullTag:
		return "null", nil
	case boolTag:
		var b bool
		if err := n.Decode(&b); err != nil {
			return "", err
		}
		return strconv.FormatBool(b), nil
	case intTag, floatTag:
		if jsonNumber.MatchString(n.Value) {
			return n.Value, nil
		}
		var v any
		if err := n.Decode(&v); err != nil {
			return "", err
		}
		return jsonNumberText(v, n)
	}
	return quoteJSON(n.Value), nil
}

func jsonNumberText(v any, n *yaml.Node) (string, error) {
	switch x := v.(type) {
	case int:
		return strconv.Itoa(x), nil
	case int64:
		return strconv.FormatInt(x, 10), nil
	case uint64:
		return strconv.FormatUint(x, 10), nil
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return "", fmt.Errorf("json: unsupported value %s at line %d: NaN and infinity have no JSON representation", n.Value, n.Line)
		}
		return strconv.FormatFloat(x, 'g', -1, 64), nil
	}
	return "", fmt.Errorf("json: cannot render %s %q at line %d as a number", n.Tag, n.Value, n.Line)
}

// jsonKey turns a mapping key into an object member name. Non-string
// scalars use their JSON text ("1", "true", "null"); collection keys have
// no JSON form.
func jsonKey(k *yaml.Node) (string, error) {
	if k.Kind != yaml.ScalarNode {
		return "", fmt.Errorf("json: unsupported mapping key of kind %s at line %d: keys must be scalars", kindName(k.Kind), k.Line)
	}
	if k.Tag == strTag || k.Tag == timestampTag || k.Tag == binaryTag {
		return k.Value, nil
	}
	return jsonScalar(k)
}

func quoteJSON(s string) string {
	var buf bytes.Buffer
	writeJSONString(&buf, s)
	return buf.String()
}

func writeJSONString(buf *bytes.Buffer, s string) {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s)
	buf.Truncate(buf.Len() - 1) // Encode appends a newline
}

// debugString renders n in a human-readable nested form, e.g.
// map[name:web ports:[80 443]].
func debugString(n *yaml.Node) (string, error) {
	var b strings.Builder
	if err := writeDebug(&b, n); err != nil {
		return "", err
	}
	return b.String(), nil
}

func writeDebug(b *strings.Builder, n *yaml.Node) error {
	switch n.Kind {
	case yaml.MappingNode:
		b.WriteString("map[")
		for i := 0; i+1 < len(n.Content); i += 2 {
			if i > 0 {
				b.WriteByte(' ')
			}
			if err := writeDebug(b, n.Content[i]); err != nil {
				return err
			}
			b.WriteByte(':')
			if err := writeDebug(b, n.Content[i+1]); err != nil {
				return err
			}
		}
		b.WriteByte(']')
		return nil

	case yaml.SequenceNode:
		b.WriteByte('[')
		for i, c := range n.Content {
			if i > 0 {
				b.WriteByte(' ')
			}
			if err := writeDebug(b, c); err != nil {
				return err
			}
		}
		b.WriteByte(']')
		return nil

	case yaml.ScalarNode:
		switch n.Tag {
		case strTag, binaryTag:
			b.WriteString(n.Value)
			return nil
		case nullTag:
			b.WriteString("<nil>")
			return nil
		}
		var v any
		if err := n.Decode(&v); err != nil {
			return err
		}
		fmt.Fprint(b, v)
		return nil
	}
	return fmt.Errorf("unsupported node kind %s at line %d", kindName(n.Kind), n.Line)
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	}
	return "unknown"
}
