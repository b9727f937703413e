package flowval

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderValueScalars(t *testing.T) {
	p := New()
	tests := []struct {
		in   any
		want string
	}{
		{nil, "null"},
		{true, "true"},
		{false, "false"},
		{int64(42), "42"},
		{17, "17"},
		{3.5, "3.5"},
		// whole floats keep a marker so they re-parse as floats
		{5.0, "5.0"},
		{1e21, "1e+21"},
		{math.Inf(1), ".inf"},
		{math.Inf(-1), "-.inf"},
		{math.NaN(), ".nan"},
		{"hello", "hello"},
		{"hello world", "hello world"},
		{"", "''"},
		// strings that would re-parse as something else get quoted
		{"true", "'true'"},
		{"42", "'42'"},
		{"null", "'null'"},
		{"a, b", "'a, b'"},
		{" padded ", "' padded '"},
		{"it's", "'it''s'"},
		{"a:b", "'a:b'"},
		{"line\nbreak", `"line\nbreak"`},
	}
	for _, tc := range tests {
		got, err := p.RenderValue(tc.in)
		assert.NoError(t, err, "RenderValue(%#v)", tc.in)
		assert.Equal(t, tc.want, got, "RenderValue(%#v)", tc.in)
	}
}

func TestRenderValueCollections(t *testing.T) {
	p := New()
	s, err := p.RenderValue([]any{int64(1), "two", nil})
	assert.NoError(t, err)
	assert.Equal(t, "[1, two, null]", s)

	m := NewMap()
	m.Set("a", int64(1))
	m.Set("b", nil)
	s, err = p.RenderValue(m)
	assert.NoError(t, err)
	assert.Equal(t, "{a: 1, b}", s)
}

func TestRenderValueUnsupported(t *testing.T) {
	p := New()
	_, err := p.RenderValue(struct{}{})
	assert.Error(t, err)
	_, err = p.RenderValue(map[string]any{"a": 1})
	assert.Error(t, err)
}

func TestRenderMapping(t *testing.T) {
	p := New()
	m := NewMap()
	m.Set("a", int64(1))
	m.Set("flag", nil)
	m.Set("name", "it's")
	m.Set("y:1", nil)
	s, err := p.RenderMapping(m)
	assert.NoError(t, err)
	assert.Equal(t, "a: 1, flag, name: 'it''s', 'y:1'", s)
}

func TestRenderMappingEmpty(t *testing.T) {
	p := New()
	s, err := p.RenderMapping(nil)
	assert.NoError(t, err)
	assert.Equal(t, "", s)

	s, err = p.RenderMapping(NewMap())
	assert.NoError(t, err)
	assert.Equal(t, "", s)
}

func TestRenderKeyStaysText(t *testing.T) {
	p := New()
	// keys that look like other scalar kinds stay plain: keys are text
	m := NewMap()
	m.Set("true", int64(1))
	m.Set("42", int64(2))
	s, err := p.RenderMapping(m)
	require.NoError(t, err)
	assert.Equal(t, "true: 1, 42: 2", s)

	back, err := p.ParseMapping(s)
	require.NoError(t, err)
	assert.Equal(t, []string{"true", "42"}, back.Keys())
}

func TestValueRoundTrip(t *testing.T) {
	p := New()
	values := []any{
		nil,
		true,
		false,
		int64(0),
		int64(-99),
		2.5,
		1e300,
		"plain",
		"with space",
		"",
		"true",
		"3.14",
		"a, b",
		"it's",
		"tab\there",
		[]any{int64(1), int64(2), "x"},
		[]any{},
	}
	for _, v := range values {
		s, err := p.RenderValue(v)
		require.NoError(t, err)
		got, err := p.ParseValue(s)
		require.NoError(t, err, "reparse %q", s)
		assert.Equal(t, v, got, "round trip via %q", s)
	}
}

func TestMappingRoundTrip(t *testing.T) {
	p := New()
	nested := NewMap()
	nested.Set("k", "v")

	m := NewMap()
	m.Set("plain", "text")
	m.Set("n", int64(7))
	m.Set("f", 0.5)
	m.Set("empty", nil)
	m.Set("two words", "v")
	m.Set("a:b", nil)
	m.Set("list", []any{int64(1), "x"})
	m.Set("nested", nested)

	s, err := p.RenderMapping(m)
	require.NoError(t, err)
	got, err := p.ParseMapping(s)
	require.NoError(t, err)
	assert.Equal(t, m.Keys(), got.Keys())
	assert.Equal(t, m.Entries(), got.Entries())
}
