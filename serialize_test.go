package dcttxt

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const roundTripDoc = `/* header */
host => alpha /* main */
=> beta
ports := 80 || 443
empty :=
meta <> region: eu, replicas: 3
blob >> [1, two]
flag >>
`

func TestRenderGroup(t *testing.T) {
	c := NewCodec()
	g, err := c.ParseString("t", roundTripDoc)
	require.NoError(t, err)

	out, err := c.RenderGroup(g)
	require.NoError(t, err)
	assert.Equal(t, roundTripDoc, out)
}

func TestRenderParseRoundTrip(t *testing.T) {
	c := NewCodec()
	g, err := c.ParseString("t", roundTripDoc)
	require.NoError(t, err)

	out, err := c.RenderGroup(g)
	require.NoError(t, err)
	g2, err := c.ParseString("t", out)
	require.NoError(t, err)

	require.Equal(t, g.Keys(), g2.Keys())
	for _, k := range g.Keys() {
		assert.Equal(t, g.Get(k), g2.Get(k), "item %q", k)
	}
}

func TestRenderNormalizesSpacing(t *testing.T) {
	c := NewCodec()
	g, err := c.ParseString("t", "  k   =>   v  \n\n/* a */\nl :=  x ||y\n")
	require.NoError(t, err)

	out, err := c.RenderGroup(g)
	require.NoError(t, err)
	assert.Equal(t, "k => v\n/* a */\nl := x || y\n", out)

	// the normalized form is a fixed point
	g2, err := c.ParseString("t", out)
	require.NoError(t, err)
	out2, err := c.RenderGroup(g2)
	require.NoError(t, err)
	assert.Equal(t, out, out2)
}

func TestRenderAnchoredOmitsKey(t *testing.T) {
	c := NewCodec()
	g, err := c.ParseString("t", "k => v\n => extra\n")
	require.NoError(t, err)

	out, err := c.RenderGroup(g)
	require.NoError(t, err)
	assert.Equal(t, "k => v\n=> extra\n", out)
}

func TestRenderLineMeta(t *testing.T) {
	c := NewCodec()
	g, err := c.ParseString("t", roundTripDoc)
	require.NoError(t, err)

	lines, err := c.RenderGroupLines(g)
	require.NoError(t, err)
	require.Equal(t, 8, len(lines))

	// the leading comment opens the keyed "host" item
	assert.True(t, lines[0].ItemStart)
	assert.True(t, lines[0].Keyed)
	assert.Equal(t, "", lines[0].Key)

	assert.False(t, lines[1].ItemStart)
	assert.True(t, lines[1].Keyed)
	assert.Equal(t, "host", lines[1].Key)

	// the anchored line may not open a shard
	assert.True(t, lines[2].ItemStart)
	assert.False(t, lines[2].Keyed)
	assert.Equal(t, "", lines[2].Key)

	assert.True(t, lines[3].ItemStart)
	assert.True(t, lines[3].Keyed)
	assert.Equal(t, "ports", lines[3].Key)
}

func TestRenderListEmptyElements(t *testing.T) {
	c := NewCodec()
	g := NewGroup("t")
	g.Set("c", &Item{Key: "c", Kind: KindList, List: []string{"p", "", "q"}})

	out, err := c.RenderGroup(g)
	require.NoError(t, err)
	assert.Equal(t, "c := p ||  || q\n", out)

	g2, err := c.ParseString("t", out)
	require.NoError(t, err)
	assert.Equal(t, []string{"p", "", "q"}, g2.Get("c").List)
}

func TestRenderErrors(t *testing.T) {
	c := NewCodec()

	g := NewGroup("t")
	g.Set("k", &Item{Key: "k", Kind: KindString, Str: "a\nb"})
	_, err := c.RenderGroup(g)
	assert.Error(t, err)

	g = NewGroup("t")
	g.Set("k", &Item{Key: "k"})
	_, err = c.RenderGroup(g)
	assert.Error(t, err)
}

func TestRenderSkipsDirectives(t *testing.T) {
	c := NewCodec()
	g, err := c.ParseString("t", "/*! cmd [a] */\nk => v\n")
	require.NoError(t, err)
	require.Equal(t, 1, len(g.Directives))

	out, err := c.RenderGroup(g)
	require.NoError(t, err)
	assert.Equal(t, "k => v\n", out)
}

func TestWriteLines(t *testing.T) {
	c := NewCodec()
	g, err := c.ParseString("t", roundTripDoc)
	require.NoError(t, err)

	lines, err := c.RenderGroupLines(g)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteLines(&buf, lines))
	assert.Equal(t, roundTripDoc, buf.String())

	var buf2 bytes.Buffer
	require.NoError(t, c.WriteGroup(&buf2, g))
	assert.Equal(t, buf.String(), buf2.String())
}
