package levelset

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/phil-mansfield/lsmesh/adapt"
	"github.com/phil-mansfield/lsmesh/geom"
	"github.com/phil-mansfield/lsmesh/shape"
)

func TestRefinedMesh(t *testing.T) {
	s := &shape.Sphere{Center: geom.Vec{}, Radius: 1}
	bounds := geom.BoundingBox{
		Lower: geom.Vec{-2, -2, -2}, Upper: geom.Vec{2, 2, 2},
	}
	ad := adapt.New(0.125, 2)

	coarse := NewMesh(bounds, ad.CoarsestSpacing(), s, ad)
	rm := NewRefinedMesh(bounds, coarse, s, ad)

	assert.Equal(t, coarse.DataSpacing()/2, rm.DataSpacing())
	assert.Equal(t, coarse.GridSpacing()/2, rm.GridSpacing())
	assert.Equal(t, 2*coarse.GlobalHRatio(), rm.GlobalHRatio())

	// Refinement resolves the same surface with more, smaller packages.
	assert.Greater(t, len(rm.coreHandles), len(coarse.coreHandles))

	// The fine band only exists where the coarse mesh detected the
	// interface.
	for _, h := range rm.coreHandles {
		pkg := rm.pkg(h)
		pos := rm.cellPosition(pkg.cellIdx[0], pkg.cellIdx[1], pkg.cellIdx[2])
		assert.True(t, coarse.IsWithinCorePackage(pos),
			"fine core cell at %v outside the coarse core region", pos)
	}

	for _, v := range probeDirections {
		dir := unit(v)
		assert.True(t, rm.IsWithinCorePackage(dir))
		assert.InDelta(t, 0.05, rm.ProbeSignedDistance(dir.Scale(1.05)), 0.02)
		assert.InDelta(t, -0.05, rm.ProbeSignedDistance(dir.Scale(0.95)), 0.02)
	}
}
