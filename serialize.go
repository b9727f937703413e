package dcttxt

import (
	"fmt"
	"io"
	"strings"
)

// Line is one rendered output line plus the position info the store
// needs for batching and manifests.
type Line struct {
	Text string
	// Key is set only on a data line that carries its own key.
	Key string
	// ItemStart marks the first line of an item: its first leading
	// comment, or the data line when it has none.
	ItemStart bool
	// Keyed marks the lines of an item whose own key is present. A
	// shard file may only begin at a keyed item, so that anchored
	// lines never open a file.
	Keyed bool
}

// RenderGroupLines renders the group in key order, one Line per output
// line. Leading comments become their own lines, trailing comments sit
// at the end of the data line. Directives are not rendered.
func (c *Codec) RenderGroupLines(g *Group) ([]Line, error) {
	var lines []Line
	for _, key := range g.Keys() {
		it := g.Get(key)
		keyed := it.Key != ""
		first := true
		for _, cm := range it.LeadingComments {
			if strings.Contains(cm, "\n") {
				return nil, fmt.Errorf("item %q has a comment with a newline", it.EffectiveKey())
			}
			lines = append(lines, Line{Text: formatComment(cm), ItemStart: first, Keyed: keyed})
			first = false
		}
		text, err := c.renderDataLine(it)
		if err != nil {
			return nil, err
		}
		lines = append(lines, Line{Text: text, Key: it.Key, ItemStart: first, Keyed: keyed})
	}
	return lines, nil
}

func (c *Codec) renderDataLine(it *Item) (string, error) {
	sep := it.Kind.Separator()
	if sep == "" {
		return "", fmt.Errorf("item %q has no separator kind", it.EffectiveKey())
	}
	var parts []string
	if it.Key != "" {
		parts = append(parts, it.Key)
	}
	parts = append(parts, sep)
	v, err := c.renderValue(it)
	if err != nil {
		return "", err
	}
	if v != "" {
		parts = append(parts, v)
	}
	for _, cm := range it.TrailingComments {
		parts = append(parts, formatComment(cm))
	}
	line := strings.Join(parts, " ")
	if strings.Contains(line, "\n") {
		return "", fmt.Errorf("item %q renders with a newline", it.EffectiveKey())
	}
	return line, nil
}

func (c *Codec) renderValue(it *Item) (string, error) {
	switch it.Kind {
	case KindList:
		return strings.Join(it.List, " || "), nil
	case KindString:
		return it.Str, nil
	case KindMapping:
		return c.flow().RenderMapping(it.Mapping)
	case KindAny:
		if it.Value == nil {
			return "", nil
		}
		return c.flow().RenderValue(it.Value)
	}
	return "", nil
}

// WriteLines writes rendered lines, each "\n"-terminated. Shard files
// written this way concatenate back to the full group byte for byte.
func WriteLines(w io.Writer, lines []Line) error {
	for _, ln := range lines {
		if _, err := io.WriteString(w, ln.Text); err != nil {
			return err
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}
	return nil
}

// RenderGroup renders the whole group as file content.
func (c *Codec) RenderGroup(g *Group) (string, error) {
	lines, err := c.RenderGroupLines(g)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	for _, ln := range lines {
		sb.WriteString(ln.Text)
		sb.WriteByte('\n')
	}
	return sb.String(), nil
}

// WriteGroup renders the group into w.
func (c *Codec) WriteGroup(w io.Writer, g *Group) error {
	lines, err := c.RenderGroupLines(g)
	if err != nil {
		return err
	}
	return WriteLines(w, lines)
}
