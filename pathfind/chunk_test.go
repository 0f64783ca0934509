package pathfind_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lanepath/pathfind"
)

func TestChunkPool_AllocN(t *testing.T) {
	p := pathfind.NewChunkPool(3)
	assert.Equal(t, 3, p.Capacity())

	cs, ok := p.AllocN(2)
	require.True(t, ok)
	require.Len(t, cs, 2)
	assert.NotSame(t, cs[0], cs[1])
	assert.Equal(t, 2, p.InUse())

	_, ok = p.AllocN(2)
	assert.False(t, ok, "all or nothing")
	assert.Equal(t, 2, p.InUse())

	c, ok := p.Alloc()
	require.True(t, ok)
	assert.Zero(t, c.Count)
	_, ok = p.Alloc()
	assert.False(t, ok)

	p.FreeChain(cs[0])
	p.FreeChain(cs[1])
	p.FreeChain(c)
	assert.Zero(t, p.InUse())

	none, ok := p.AllocN(0)
	assert.True(t, ok)
	assert.Empty(t, none)
}

func TestChunkPool_FreeSkipsForeignChunks(t *testing.T) {
	p := pathfind.NewChunkPool(2)
	var foreign pathfind.PathChunk
	p.FreeChain(&foreign)
	assert.Zero(t, p.InUse())

	other := pathfind.NewChunkPool(1)
	c, ok := other.Alloc()
	require.True(t, ok)
	p.FreeChain(c)
	assert.Equal(t, 1, other.InUse(), "chunks return only to their own pool")
}

func TestChunkPool_MinimumCapacity(t *testing.T) {
	assert.Equal(t, 1, pathfind.NewChunkPool(0).Capacity())
}

func TestRequestPool_Recycles(t *testing.T) {
	pool := pathfind.NewRequestPool()
	r := pool.Get()
	id := r.ID
	r.Start[0] = pathfind.Position{Segment: 3}
	assert.True(t, r.Retain())
	r.Release()
	assert.True(t, r.Retain(), "one reference is still held")
	r.Release()
	r.Release()

	next := pool.Get()
	defer next.Release()
	assert.NotEqual(t, id, next.ID)
	assert.Zero(t, next.Status())
	assert.True(t, next.Start[0].IsZero())
	assert.Nil(t, next.First())
	assert.NoError(t, next.Err())
}
