package dcttxt

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsDirectiveLine(t *testing.T) {
	assert.True(t, isDirectiveLine("/*! cmd */"))
	assert.True(t, isDirectiveLine("/*!cmd"))
	// only column zero counts
	assert.False(t, isDirectiveLine("  /*! cmd */"))
	assert.False(t, isDirectiveLine("/* cmd */"))
	assert.False(t, isDirectiveLine("k => v /*! cmd */"))
}

func TestParseDirective(t *testing.T) {
	d := parseDirective("/*! rebuild [idx, full] {depth: 2, force} */")
	assert.Equal(t, "rebuild", d.Name)
	assert.Equal(t, []string{"idx", "full"}, d.Args)
	assert.Equal(t, []NamedArg{{Name: "depth", Value: "2"}, {Name: "force", Value: ""}}, d.NamedArgs)
	assert.Equal(t, "/*! rebuild [idx, full] {depth: 2, force} */", d.Line)

	v, ok := d.Arg("depth")
	assert.True(t, ok)
	assert.Equal(t, "2", v)
	v, ok = d.Arg("force")
	assert.True(t, ok)
	assert.Equal(t, "", v)
	_, ok = d.Arg("missing")
	assert.False(t, ok)
}

func TestParseDirectiveBare(t *testing.T) {
	d := parseDirective("/*!reload")
	assert.Equal(t, "reload", d.Name)
	assert.Nil(t, d.Args)
	assert.Nil(t, d.NamedArgs)

	d = parseDirective("/*! touch */")
	assert.Equal(t, "touch", d.Name)
	assert.Nil(t, d.Args)
}

func TestParseDirectiveNameless(t *testing.T) {
	d := parseDirective("/*! [a, b]")
	assert.Equal(t, "", d.Name)
	assert.Equal(t, []string{"a", "b"}, d.Args)
}

func TestParseDirectiveEmptyBlocks(t *testing.T) {
	d := parseDirective("/*! run [] {}")
	assert.Equal(t, "run", d.Name)
	assert.Nil(t, d.Args)
	assert.Nil(t, d.NamedArgs)

	d = parseDirective("/*! run [  ] {  }")
	assert.Nil(t, d.Args)
	assert.Nil(t, d.NamedArgs)
}

func TestParseDirectiveNamedArgValueKeepsColons(t *testing.T) {
	d := parseDirective("/*! fetch {url: http://x/y} */")
	v, ok := d.Arg("url")
	assert.True(t, ok)
	assert.Equal(t, "http://x/y", v)
}
