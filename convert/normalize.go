package convert

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

const (
	strTag       = "!!str"
	intTag       = "!!int"
	floatTag     = "!!float"
	boolTag      = "!!bool"
	nullTag      = "!!null"
	timestampTag = "!!timestamp"
	binaryTag    = "!!binary"
	mapTag       = "!!map"
	seqTag       = "!!seq"
	mergeTag     = "!!merge"
)

// maxExpandedNodes bounds alias expansion so a small document cannot
// expand into an enormous tree.
const maxExpandedNodes = 1 << 20

var errRecursiveAlias = errors.New("yaml: recursive alias")

var standardTags = map[string]bool{
	strTag: true, intTag: true, floatTag: true, boolTag: true, nullTag: true,
	timestampTag: true, binaryTag: true, mapTag: true, seqTag: true,
}

func scalar(tag, value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}

type normalizer struct {
	count    int
	visiting map[*yaml.Node]bool
}

// normalize returns a plain copy of n: aliases expanded, merge keys applied,
// duplicate keys collapsed, and comments, anchors, styles and non-standard
// tags dropped. n itself is left untouched.
func normalize(n *yaml.Node) (*yaml.Node, error) {
	nz := &normalizer{visiting: make(map[*yaml.Node]bool)}
	return nz.node(n)
}

func (nz *normalizer) node(n *yaml.Node) (*yaml.Node, error) {
	nz.count++
	if nz.count > maxExpandedNodes {
		return nil, fmt.Errorf("yaml: document expands to more than %d nodes", maxExpandedNodes)
	}

	switch n.Kind {
	case yaml.AliasNode:
		if n.Alias == nil {
			return nil, fmt.Errorf("yaml: line %d: unknown anchor", n.Line)
		}
		if nz.visiting[n.Alias] {
			return nil, fmt.Errorf("%w at line %d", errRecursiveAlias, n.Line)
		}
		nz.visiting[n.Alias] = true
		out, err := nz.node(n.Alias)
		delete(nz.visiting, n.Alias)
		return out, err

	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return scalar(nullTag, "null"), nil
		}
		return nz.node(n.Content[0])

	case yaml.SequenceNode:
		out := &yaml.Node{Kind: yaml.SequenceNode, Tag: seqTag, Line: n.Line, Column: n.Column, Content: make([]*yaml.Node, 0, len(n.Content))}
		for _, c := range n.Content {
			v, err := nz.node(c)
			if err != nil {
				return nil, err
			}
			out.Content = append(out.Content, v)
		}
		return out, nil

	case yaml.MappingNode:
		return nz.mapping(n)

	default:
		tag, value := scalarTag(n), n.Value
		if tag == nullTag {
			value = "null"
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value, Line: n.Line, Column: n.Column}, nil
	}
}

// scalarTag keeps standard tags and re-resolves anything else as if the tag
// were absent. It must run before the style is cleared.
func scalarTag(n *yaml.Node) string {
	if standardTags[n.Tag] {
		return n.Tag
	}
	if n.Tag == mergeTag {
		return strTag
	}
	plain := *n
	plain.Tag = ""
	plain.Style &^= yaml.TaggedStyle
	return plain.ShortTag()
}

func (nz *normalizer) mapping(n *yaml.Node) (*yaml.Node, error) {
	var merged, own []*yaml.Node

	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], n.Content[i+1]
		if isMergeKey(k) {
			pairs, err := nz.mergePairs(v)
			if err != nil {
				return nil, err
			}
			merged = append(pairs, merged...)
			continue
		}
		nk, err := nz.node(k)
		if err != nil {
			return nil, err
		}
		nv, err := nz.node(v)
		if err != nil {
			return nil, err
		}
		own = append(own, nk, nv)
	}

	out := &yaml.Node{Kind: yaml.MappingNode, Tag: mapTag, Line: n.Line, Column: n.Column}
	out.Content = dedupe(append(merged, own...))
	return out, nil
}

// mergePairs resolves the value of a << key: a mapping, or a sequence of
// mappings where earlier mappings take precedence over later ones.
func (nz *normalizer) mergePairs(v *yaml.Node) ([]*yaml.Node, error) {
	target, err := nz.node(v)
	if err != nil {
		return nil, err
	}

	switch target.Kind {
	case yaml.MappingNode:
		return target.Content, nil
	case yaml.SequenceNode:
		var pairs []*yaml.Node
		for i := len(target.Content) - 1; i >= 0; i-- {
			m := target.Content[i]
			if m.Kind != yaml.MappingNode {
				return nil, fmt.Errorf("yaml: line %d: map merge requires map or sequence of maps as the value", v.Line)
			}
			pairs = append(pairs, m.Content...)
		}
		return pairs, nil
	}
	return nil, fmt.Errorf("yaml: line %d: map merge requires map or sequence of maps as the value", v.Line)
}

func isMergeKey(k *yaml.Node) bool {
	return k.Kind == yaml.ScalarNode && k.Value == "<<" && (k.Tag == mergeTag || k.Tag == "")
}

// dedupe collapses repeated keys, keeping the first position and the last
// value.
func dedupe(pairs []*yaml.Node) []*yaml.Node {
	out := make([]*yaml.Node, 0, len(pairs))
	index := make(map[string]int, len(pairs)/2)

	for i := 0; i+1 < len(pairs); i += 2 {
		k, v := pairs[i], pairs[i+1]
		id, ok := keyIdentity(k)
		if !ok {
			out = append(out, k, v)
			continue
		}
		if j, dup := index[id]; dup {
			out[j+1] = v
			continue
		}
		index[id] = len(out)
		out = append(out, k, v)
	}
	return out
}

func keyIdentity(k *yaml.Node) (string, bool) {
	if k.Kind != yaml.ScalarNode {
		return "", false
	}
	return k.Tag + "\x00" + k.Value, true
}
