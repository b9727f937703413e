package dcttxt

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/kjk/dcttxt/flowval"
)

// Flow is the contract for the sub-parser handling "<>" and ">>"
// values: a flow-style mapping and scalar grammar, one line only.
type Flow interface {
	// ParseValue parses a ">>" value. Empty text is null.
	ParseValue(s string) (any, error)
	// ParseMapping parses a "<>" value as a brace-less flow mapping.
	ParseMapping(s string) (*flowval.Map, error)
	// RenderValue is the inverse of ParseValue.
	RenderValue(v any) (string, error)
	// RenderMapping is the inverse of ParseMapping, without outer braces.
	RenderMapping(m *flowval.Map) (string, error)
}

type defaultFlow struct {
	p *flowval.Parser
}

func (f defaultFlow) ParseValue(s string) (any, error) {
	return f.p.ParseValue(s)
}

func (f defaultFlow) ParseMapping(s string) (*flowval.Map, error) {
	return f.p.ParseMapping(s)
}

func (f defaultFlow) RenderValue(v any) (string, error) {
	return f.p.RenderValue(v)
}

func (f defaultFlow) RenderMapping(m *flowval.Map) (string, error) {
	return f.p.RenderMapping(m)
}

var stdFlow Flow = defaultFlow{p: flowval.New()}

// Codec parses and serializes dct.txt content. The zero value is
// ready to use.
type Codec struct {
	// Flow handles "<>" and ">>" values. nil means the flowval parser.
	Flow Flow
	// Script, when set, is called for every directive line, after the
	// directive is added to the group. An error fails the file.
	Script func(d Directive, g *Group) error
}

func NewCodec() *Codec {
	return &Codec{}
}

func (c *Codec) flow() Flow {
	if c.Flow != nil {
		return c.Flow
	}
	return stdFlow
}

// GroupBuilder folds lines, one AddLine call per source line, into a
// Group. It carries the anchor state (last keyed line, keyless line
// counter) and the buffered leading comments between lines. A single
// builder can span several shard files of one group, keeping the
// anchor state across the file boundary.
type GroupBuilder struct {
	c *Codec
	g *Group

	path string
	line int

	lastKey string
	anchorN int
	pending []string

	err error
}

func (c *Codec) NewGroupBuilder(name string) *GroupBuilder {
	return &GroupBuilder{c: c, g: NewGroup(name)}
}

// SetFile records the file subsequent lines come from, for error
// attribution, and restarts the line counter. Anchor state and
// buffered comments carry over.
func (b *GroupBuilder) SetFile(path string) {
	b.path = path
	b.line = 0
}

func (b *GroupBuilder) fail(err error) error {
	b.err = &LineError{Path: b.path, Line: b.line, Err: err}
	return b.err
}

// AddLine consumes one source line, without its line terminator. The
// first error is kept and returned from every later call.
func (b *GroupBuilder) AddLine(raw string) error {
	if b.err != nil {
		return b.err
	}
	b.line++
	raw = strings.TrimRightFunc(raw, unicode.IsSpace)

	if isDirectiveLine(raw) {
		d := parseDirective(raw)
		b.g.Directives = append(b.g.Directives, d)
		if b.c.Script != nil {
			if err := b.c.Script(d, b.g); err != nil {
				return b.fail(err)
			}
		}
		return nil
	}

	residual, comments := extractComments(raw)
	if strings.TrimSpace(residual) == "" {
		// Comment-only or blank line. Comments buffer until the next
		// data line.
		b.pending = append(b.pending, comments...)
		return nil
	}

	pos, kind := findSeparator(residual)
	if pos == -1 {
		return b.fail(fmt.Errorf("%w in %q", ErrNoSeparator, residual))
	}
	key := strings.TrimSpace(residual[:pos])
	valueText := residual[pos+2:]

	anchor := ""
	if key != "" {
		b.lastKey = key
		b.anchorN = 0
	} else {
		if b.lastKey == "" {
			return b.fail(fmt.Errorf("%w in %q", ErrDanglingAnchor, residual))
		}
		b.anchorN++
		anchor = fmt.Sprintf("%s\t_%05d", b.lastKey, b.anchorN)
	}

	it := &Item{
		Key:              key,
		Anchor:           anchor,
		Kind:             kind,
		LeadingComments:  b.pending,
		TrailingComments: comments,
	}
	b.pending = nil
	if err := b.bindValue(it, valueText); err != nil {
		return b.fail(err)
	}
	if err := b.g.Append(it.EffectiveKey(), it); err != nil {
		return b.fail(err)
	}
	return nil
}

func (b *GroupBuilder) bindValue(it *Item, valueText string) error {
	v := strings.TrimSpace(valueText)
	switch it.Kind {
	case KindList:
		if v == "" {
			return nil
		}
		parts := strings.Split(v, "||")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		it.List = parts
	case KindString:
		it.Str = v
	case KindMapping:
		m, err := b.c.flow().ParseMapping(v)
		if err != nil {
			return fmt.Errorf("%w: %s", ErrMalformedFlowValue, err)
		}
		it.Mapping = m
	case KindAny:
		val, err := b.c.flow().ParseValue(v)
		if err != nil {
			return fmt.Errorf("%w: %s", ErrMalformedFlowValue, err)
		}
		it.Value = val
	}
	return nil
}

// Finish returns the built group. Leading comments still buffered at
// the end of input have no owning line and are dropped.
func (b *GroupBuilder) Finish() (*Group, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.g, nil
}

// Parse reads one file's worth of dct.txt lines from r. Errors carry
// name as the source path.
func (c *Codec) Parse(name string, r io.Reader) (*Group, error) {
	b := c.NewGroupBuilder(name)
	b.SetFile(name)
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for sc.Scan() {
		if err := b.AddLine(sc.Text()); err != nil {
			return nil, err
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return b.Finish()
}

func (c *Codec) ParseString(name string, s string) (*Group, error) {
	return c.Parse(name, strings.NewReader(s))
}
