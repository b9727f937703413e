package flowval

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapSetGet(t *testing.T) {
	m := NewMap()
	assert.Equal(t, 0, m.Len())
	_, ok := m.Get("missing")
	assert.False(t, ok)

	m.Set("b", 1)
	m.Set("a", 2)
	// updating an existing key keeps its position
	m.Set("b", 3)
	assert.Equal(t, 2, m.Len())
	assert.Equal(t, []string{"b", "a"}, m.Keys())

	v, ok := m.Get("b")
	assert.True(t, ok)
	assert.Equal(t, 3, v)

	assert.Equal(t, []Entry{{Key: "b", Value: 3}, {Key: "a", Value: 2}}, m.Entries())
}

func TestMapNilValue(t *testing.T) {
	m := NewMap()
	m.Set("k", nil)
	v, ok := m.Get("k")
	assert.True(t, ok)
	assert.Nil(t, v)
}
