package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBaseRegistry(t *testing.T) {
	r := NewBaseRegistry[int]()

	require.NoError(t, r.Register("a", 1))
	require.NoError(t, r.Register("b", 2))

	err := r.Register("a", 99)
	require.Error(t, err)

	v, ok := r.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	_, ok = r.Get("missing")
	assert.False(t, ok)

	assert.Equal(t, 2, r.Count())
	assert.Equal(t, []string{"a", "b"}, r.Names())
	assert.ElementsMatch(t, []int{1, 2}, r.List())
}

func TestBaseRegistryRejectsEmptyName(t *testing.T) {
	r := NewBaseRegistry[string]()
	err := r.Register("", "x")
	require.Error(t, err)
}
