package flowval

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Parser parses and renders flow-style values. It is stateless; the
// zero value is usable but New is the conventional constructor.
type Parser struct{}

func New() *Parser {
	return &Parser{}
}

// ParseValue parses the value text of an any (">>") line: a scalar or
// a flow collection. Empty text is null.
func (p *Parser) ParseValue(s string) (any, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if v, ok := parseScalar(s); ok {
		return v, nil
	}
	root, err := parseFlowDoc("{v: " + s + "}")
	if err != nil {
		return nil, fmt.Errorf("cannot parse flow value %q: %w", s, err)
	}
	if root.Kind != yaml.MappingNode || len(root.Content) < 2 {
		return nil, fmt.Errorf("cannot parse flow value %q", s)
	}
	v, err := p.convertNode(root.Content[1], nil)
	if err != nil {
		return nil, fmt.Errorf("cannot parse flow value %q: %w", s, err)
	}
	return v, nil
}

// ParseMapping parses the value text of a mapping ("<>") line: a
// brace-less flow mapping where a bare key stands for key: null. Empty
// text is an empty mapping.
func (p *Parser) ParseMapping(s string) (*Map, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return NewMap(), nil
	}
	root, err := parseFlowDoc("{" + s + "}")
	if err != nil {
		return nil, fmt.Errorf("cannot parse flow mapping %q: %w", s, err)
	}
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%q is not a flow mapping", s)
	}
	m, err := p.convertMapping(root, nil)
	if err != nil {
		return nil, fmt.Errorf("cannot parse flow mapping %q: %w", s, err)
	}
	return m, nil
}

func parseFlowDoc(s string) (*yaml.Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(s), &doc); err != nil {
		return nil, err
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, fmt.Errorf("empty document")
	}
	return doc.Content[0], nil
}

func (p *Parser) convertMapping(n *yaml.Node, seen map[*yaml.Node]bool) (*Map, error) {
	m := NewMap()
	for i := 0; i+1 < len(n.Content); i += 2 {
		k := n.Content[i]
		if k.Kind == yaml.AliasNode {
			k = k.Alias
		}
		if k.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("mapping key must be a scalar")
		}
		// The yaml scanner keeps a colon inside a plain scalar when no
		// space follows it, so "x, y:1" scans as the keys "x" and
		// "y:1", both without a value. A plain key with an absent
		// value splits at its first colon instead, making "y:1" mean
		// y: 1. Quoting the key opts out.
		if k.Style == 0 && isAbsentValue(n.Content[i+1]) {
			if name, val, ok := splitCompactEntry(k.Value); ok {
				m.Set(name, val)
				continue
			}
		}
		v, err := p.convertNode(n.Content[i+1], seen)
		if err != nil {
			return nil, err
		}
		m.Set(k.Value, v)
	}
	return m, nil
}

// isAbsentValue reports a value node synthesized for a mapping entry
// written without any value text.
func isAbsentValue(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.Tag == "!!null" && n.Value == "" && n.Style == 0
}

func splitCompactEntry(key string) (string, any, bool) {
	name, rest, found := strings.Cut(key, ":")
	name = strings.TrimSpace(name)
	if !found || name == "" || rest == "" {
		return "", nil, false
	}
	if v, ok := parseScalar(strings.TrimSpace(rest)); ok {
		return name, v, true
	}
	return name, rest, true
}

// convertNode walks the node tree. seen holds the alias targets on
// the current path: aliases share nodes, so a target met again while
// it is still being resolved is a cycle, not a tree.
func (p *Parser) convertNode(n *yaml.Node, seen map[*yaml.Node]bool) (any, error) {
	switch n.Kind {
	case yaml.AliasNode:
		if seen[n.Alias] {
			return nil, fmt.Errorf("cyclic alias %q", n.Value)
		}
		if seen == nil {
			seen = map[*yaml.Node]bool{}
		}
		seen[n.Alias] = true
		v, err := p.convertNode(n.Alias, seen)
		delete(seen, n.Alias)
		return v, err
	case yaml.ScalarNode:
		return convertScalar(n), nil
	case yaml.SequenceNode:
		res := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := p.convertNode(c, seen)
			if err != nil {
				return nil, err
			}
			res = append(res, v)
		}
		return res, nil
	case yaml.MappingNode:
		return p.convertMapping(n, seen)
	}
	return nil, fmt.Errorf("unsupported yaml node kind %v", n.Kind)
}

// convertScalar maps a yaml scalar node onto the closed value domain.
// Quoted scalars are always strings; timestamps and other exotic tags
// stay text.
func convertScalar(n *yaml.Node) any {
	if n.Style == yaml.SingleQuotedStyle || n.Style == yaml.DoubleQuotedStyle {
		return n.Value
	}
	switch n.Tag {
	case "!!null":
		return nil
	case "!!bool":
		switch strings.ToLower(n.Value) {
		case "true", "yes", "on", "y":
			return true
		}
		return false
	case "!!int":
		return convertInt(n.Value)
	case "!!float":
		return convertFloat(n.Value)
	}
	return n.Value
}

func convertInt(s string) any {
	t := strings.ReplaceAll(s, "_", "")
	if n, err := strconv.ParseInt(t, 0, 64); err == nil {
		return n
	}
	// out of int64 range
	if f, err := strconv.ParseFloat(t, 64); err == nil {
		return f
	}
	return s
}

func convertFloat(s string) any {
	t := strings.ReplaceAll(s, "_", "")
	switch strings.ToLower(t) {
	case ".inf", "+.inf":
		return math.Inf(1)
	case "-.inf":
		return math.Inf(-1)
	case ".nan":
		return math.NaN()
	}
	if f, err := strconv.ParseFloat(t, 64); err == nil {
		return f
	}
	return s
}
