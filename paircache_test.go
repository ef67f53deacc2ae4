package delta

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProxy() *BroadphaseProxy {
	return NewBroadphaseProxy(NewBox(1, 1), 0)
}

func TestPairCacheUnordered(t *testing.T) {
	c := NewOverlappingPairCache()
	a, b := newTestProxy(), newTestProxy()

	require.True(t, c.Add(b, a))
	assert.False(t, c.Add(a, b), "same pair in the other order")
	assert.Equal(t, 1, c.Len())
	assert.True(t, c.Contains(a, b))
	assert.True(t, c.Contains(b, a))

	pair := c.Pairs()[0]
	assert.Same(t, a, pair.A, "lower id first")
	assert.Same(t, b, pair.B)
}

func TestPairCacheRejectsSelfPair(t *testing.T) {
	c := NewOverlappingPairCache()
	a := newTestProxy()
	assert.False(t, c.Add(a, a))
	assert.False(t, c.Add(a, nil))
	assert.Zero(t, c.Len())
}

func TestPairCacheClear(t *testing.T) {
	c := NewOverlappingPairCache()
	a, b, d := newTestProxy(), newTestProxy(), newTestProxy()
	c.Add(a, b)
	c.Add(b, d)
	c.Clear()
	assert.Zero(t, c.Len())
	assert.False(t, c.Contains(a, b))
	assert.True(t, c.Add(a, b))
}

func TestPairCacheRemoveProxy(t *testing.T) {
	c := NewOverlappingPairCache()
	a, b, d := newTestProxy(), newTestProxy(), newTestProxy()
	c.Add(a, b)
	c.Add(a, d)
	c.Add(b, d)

	c.removeProxy(a)
	require.Equal(t, 1, c.Len())
	assert.True(t, c.Contains(b, d))
	assert.False(t, c.Contains(a, b))
	assert.False(t, c.Contains(a, d))

	// The index still points at the right slot after compaction.
	c.removeProxy(d)
	assert.Zero(t, c.Len())
}
