// Package dcttxt implements the dct.txt line format: each line of a
// *.dct.txt file independently encodes one labeled value (a list, a
// string, a flow mapping or an arbitrary flow value) plus attached
// comments.
//
// A data line is: optional /*...*/ comments, an optional key, one of
// the separators ":=", "=>", "<>", ">>" and the value text. A line
// whose key is absent attaches to the nearest preceding keyed line. A
// line starting with "/*!" at column zero is a script directive.
package dcttxt

import (
	"fmt"

	"github.com/kjk/dcttxt/flowval"
)

// Kind is the value shape of an item, fixed by its separator.
type Kind uint8

const (
	KindNone Kind = iota
	KindList
	KindString
	KindMapping
	KindAny
)

// Separator returns the two-character separator token for the kind.
func (k Kind) Separator() string {
	switch k {
	case KindList:
		return ":="
	case KindString:
		return "=>"
	case KindMapping:
		return "<>"
	case KindAny:
		return ">>"
	}
	return ""
}

func (k Kind) String() string {
	switch k {
	case KindList:
		return "list"
	case KindString:
		return "string"
	case KindMapping:
		return "mapping"
	case KindAny:
		return "any"
	}
	return "none"
}

// findSeparator returns the position and kind of the leftmost
// separator in s, or -1 when s has none. Matching is by position, not
// by priority among the four tokens.
func findSeparator(s string) (int, Kind) {
	for i := 0; i+1 < len(s); i++ {
		c, d := s[i], s[i+1]
		switch {
		case c == ':' && d == '=':
			return i, KindList
		case c == '=' && d == '>':
			return i, KindString
		case c == '<' && d == '>':
			return i, KindMapping
		case c == '>' && d == '>':
			return i, KindAny
		}
	}
	return -1, KindNone
}

// Item is one parsed dct.txt entry.
type Item struct {
	// Key is the label before the separator, empty when the source
	// line started directly with a separator.
	Key string
	// Anchor is the effective key assigned to a keyless line, derived
	// from the nearest preceding keyed line. Empty for keyed items.
	Anchor string
	Kind   Kind

	// Comments that occupied whole lines above the data line.
	LeadingComments []string
	// Comments found on the data line itself, in left-to-right order.
	TrailingComments []string

	// Exactly one of the following holds the value, selected by Kind.
	List    []string
	Str     string
	Mapping *flowval.Map
	Value   any
}

// EffectiveKey returns the key the item is stored under: its own key,
// or the anchor when the key is absent.
func (it *Item) EffectiveKey() string {
	if it.Key != "" {
		return it.Key
	}
	return it.Anchor
}

// KeyAbsent reports whether the item's key was absent in the source,
// i.e. the effective key is anchor-derived. Serialization omits the
// key text for such items.
func (it *Item) KeyAbsent() bool {
	return it.Key == ""
}

// Merge merges other into it. Both items must share the effective key.
// Lists append, mappings union with the later value winning per
// sub-key. A repeated string or any line, or two lines of different
// kinds, cannot be merged and fail with ErrMergeConflict.
func (it *Item) Merge(other *Item) error {
	if it.Kind != other.Kind {
		return fmt.Errorf("%w: key %q mixes %s and %s lines", ErrMergeConflict, it.EffectiveKey(), it.Kind, other.Kind)
	}
	switch it.Kind {
	case KindList:
		it.List = append(it.List, other.List...)
	case KindMapping:
		if it.Mapping == nil {
			it.Mapping = flowval.NewMap()
		}
		if other.Mapping != nil {
			for _, e := range other.Mapping.Entries() {
				it.Mapping.Set(e.Key, e.Value)
			}
		}
	default:
		return fmt.Errorf("%w: key %q repeats a %s line", ErrMergeConflict, it.EffectiveKey(), it.Kind)
	}
	it.LeadingComments = append(it.LeadingComments, other.LeadingComments...)
	it.TrailingComments = append(it.TrailingComments, other.TrailingComments...)
	return nil
}

// Group is the ordered content of one dct.txt file (or one logical
// group split across several shard files): effective key to item, in
// first-occurrence order.
type Group struct {
	Name string
	// Directives are the script directives seen while parsing, in
	// source order. They are not items and are not re-serialized.
	Directives []Directive

	keys  []string
	items map[string]*Item
}

func NewGroup(name string) *Group {
	return &Group{
		Name:  name,
		items: map[string]*Item{},
	}
}

// Len returns the number of items.
func (g *Group) Len() int {
	return len(g.keys)
}

// Keys returns the effective keys in first-occurrence order. The slice
// is the group's own storage, callers must not modify it.
func (g *Group) Keys() []string {
	return g.keys
}

// Get returns the item stored under key, or nil.
func (g *Group) Get(key string) *Item {
	return g.items[key]
}

// Set stores it under key, keeping the first-occurrence position when
// the key already exists.
func (g *Group) Set(key string, it *Item) {
	if _, ok := g.items[key]; !ok {
		g.keys = append(g.keys, key)
	}
	g.items[key] = it
}

// Append stores it under key, merging into the existing item when the
// key is already present.
func (g *Group) Append(key string, it *Item) error {
	if prev, ok := g.items[key]; ok {
		return prev.Merge(it)
	}
	g.keys = append(g.keys, key)
	g.items[key] = it
	return nil
}
