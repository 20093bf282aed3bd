package shape

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/phil-mansfield/lsmesh/geom"
)

func TestSphereSignedDistance(t *testing.T) {
	s := &Sphere{geom.Vec{1, 0, 0}, 2}

	assert.InDelta(t, -2.0, s.FindSignedDistance(geom.Vec{1, 0, 0}), 1e-12)
	assert.InDelta(t, -1.0, s.FindSignedDistance(geom.Vec{2, 0, 0}), 1e-12)
	assert.InDelta(t, 1.0, s.FindSignedDistance(geom.Vec{4, 0, 0}), 1e-12)

	assert.True(t, s.CheckContain(geom.Vec{0, 0, 0}))
	assert.False(t, s.CheckContain(geom.Vec{4, 0, 0}))
}

func TestSphereNormal(t *testing.T) {
	s := &Sphere{geom.Vec{0, 0, 0}, 1}

	n := s.FindNormalDirection(geom.Vec{0, 0, 3})
	assert.InDelta(t, 0.0, n[0], 1e-12)
	assert.InDelta(t, 0.0, n[1], 1e-12)
	assert.InDelta(t, 1.0, n[2], 1e-12)

	// Normals point outward from inside points too.
	n = s.FindNormalDirection(geom.Vec{-0.5, 0, 0})
	assert.InDelta(t, -1.0, n[0], 1e-12)

	assert.InDelta(t, 1.0, s.FindNormalDirection(geom.Vec{0, 0, 0}).Norm(), 1e-12)
}

func TestBoxSignedDistance(t *testing.T) {
	b := &Box{geom.Vec{0, 0, 0}, geom.Vec{1, 2, 3}}

	assert.InDelta(t, -1.0, b.FindSignedDistance(geom.Vec{0, 0, 0}), 1e-12)
	assert.InDelta(t, -0.5, b.FindSignedDistance(geom.Vec{0.5, 0, 0}), 1e-12)
	assert.InDelta(t, 1.0, b.FindSignedDistance(geom.Vec{2, 0, 0}), 1e-12)

	// Corner distance is Euclidean, not per-axis.
	d := b.FindSignedDistance(geom.Vec{2, 3, 0})
	assert.InDelta(t, 1.4142135, d, 1e-6)
}

func TestBoxNormal(t *testing.T) {
	b := &Box{geom.Vec{0, 0, 0}, geom.Vec{1, 1, 1}}

	n := b.FindNormalDirection(geom.Vec{2, 0, 0})
	assert.Equal(t, geom.Vec{1, 0, 0}, n)

	n = b.FindNormalDirection(geom.Vec{0, -0.9, 0})
	assert.Equal(t, geom.Vec{0, -1, 0}, n)

	n = b.FindNormalDirection(geom.Vec{2, 2, 0})
	assert.InDelta(t, 1.0, n.Norm(), 1e-12)
	assert.InDelta(t, n[0], n[1], 1e-12)
}

func TestBounds(t *testing.T) {
	s := &Sphere{geom.Vec{1, 1, 1}, 1}
	bb := s.Bounds()
	assert.Equal(t, geom.Vec{0, 0, 0}, bb.Lower)
	assert.Equal(t, geom.Vec{2, 2, 2}, bb.Upper)
}
