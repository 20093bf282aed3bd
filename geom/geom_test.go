package geom

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVecOps(t *testing.T) {
	v := Vec{1, -2, 3}
	u := Vec{4, 5, -6}

	assert.Equal(t, Vec{5, 3, -3}, v.Add(u))
	assert.Equal(t, Vec{-3, -7, 9}, v.Sub(u))
	assert.Equal(t, Vec{2, -4, 6}, v.Scale(2))
	assert.Equal(t, -24.0, v.Dot(u))
	assert.Equal(t, 3.0, v.MaxAbs())
	assert.InDelta(t, 3.741657, v.Norm(), 1e-6)
}

func TestGridIdxCoords(t *testing.T) {
	g := NewGrid([3]int{3, 4, 5})
	assert.Equal(t, 60, g.Volume)

	for idx := 0; idx < g.Volume; idx++ {
		x, y, z := g.Coords(idx)
		assert.True(t, g.BoundsCheck(x, y, z))
		assert.Equal(t, idx, g.Idx(x, y, z))
	}

	_, ok := g.IdxCheck(3, 0, 0)
	assert.False(t, ok)
	idx, ok := g.IdxCheck(2, 3, 4)
	assert.True(t, ok)
	assert.Equal(t, g.Volume-1, idx)
}

func TestGridClamp(t *testing.T) {
	g := NewGrid([3]int{4, 4, 4})
	x, y, z := g.Clamp(-1, 2, 7)
	assert.Equal(t, [3]int{0, 2, 3}, [3]int{x, y, z})
}

func TestBoundingBox(t *testing.T) {
	b := BoundingBox{Vec{-1, -1, -1}, Vec{1, 2, 3}}
	assert.True(t, b.Contains(Vec{0, 0, 0}))
	assert.False(t, b.Contains(Vec{0, 2.5, 0}))
	assert.Equal(t, Vec{2, 3, 4}, b.Width())

	e := b.Extend(1)
	assert.Equal(t, Vec{-2, -2, -2}, e.Lower)
	assert.Equal(t, Vec{2, 3, 4}, e.Upper)
}
