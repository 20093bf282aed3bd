package levelset

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/phil-mansfield/lsmesh/geom"
)

func TestUpwindDifference(t *testing.T) {
	// Both differences agree with the upwind direction.
	assert.Equal(t, 1.0, upwindDifference(1, 1, 1))
	assert.Equal(t, -1.0, upwindDifference(1, -1, -1))
	assert.Equal(t, 1.0, upwindDifference(-1, 1, 1))

	// Characteristics diverge: no information reaches the cell.
	assert.Equal(t, 0.0, upwindDifference(1, 2, -1))

	// Characteristics converge: the steeper side wins.
	assert.Equal(t, -1.0, upwindDifference(1, -1, 2))
	assert.Equal(t, 1.0, upwindDifference(1, -2, 1))
}

func TestSingularPackage(t *testing.T) {
	inside := newSingularPackage(-2)
	outside := newSingularPackage(2)

	for i := 0; i < pkgVolume; i++ {
		assert.Equal(t, -2.0, inside.phi[i])
		assert.Equal(t, 0.0, inside.kernelWeight[i])
		assert.Equal(t, int8(-1), inside.nearInterfaceID[i])

		assert.Equal(t, 2.0, outside.phi[i])
		assert.Equal(t, 1.0, outside.kernelWeight[i])
		assert.Equal(t, int8(1), outside.nearInterfaceID[i])
	}
	assert.True(t, inside.singular)
	assert.False(t, inside.isCore)
}

func TestHaloReadsMatchGlobalIndex(t *testing.T) {
	m, _ := sphereMesh(0.125)
	pkg := m.pkg(m.coreHandles[0])
	gx := pkg.cellIdx[0] * PkgSize
	gy := pkg.cellIdx[1] * PkgSize
	gz := pkg.cellIdx[2] * PkgSize

	for _, i := range []int{-1, 0, PkgSize - 1, PkgSize} {
		for j := 0; j < PkgSize; j++ {
			for k := 0; k < PkgSize; k++ {
				assert.Equal(t, m.phiAtGlobalDataIndex(gx+i, gy+j, gz+k),
					pkg.phiAt(m, i, j, k))
				assert.Equal(t, m.phiAtGlobalDataIndex(gx+j, gy+i, gz+k),
					pkg.phiAt(m, j, i, k))
				assert.Equal(t, m.phiAtGlobalDataIndex(gx+j, gy+k, gz+i),
					pkg.phiAt(m, j, k, i))
			}
		}
	}
}

func TestMarkAndRedistance(t *testing.T) {
	m, s := sphereMesh(0.125)
	ds := m.DataSpacing()

	m.MarkNearInterface()
	m.RedistanceInterface()

	cutCells := 0
	for _, h := range m.coreHandles {
		pkg := m.pkg(h)
		for k := 0; k < PkgSize; k++ {
			for j := 0; j < PkgSize; j++ {
				for i := 0; i < PkgSize; i++ {
					idx := dataIdx(i, j, k)
					if pkg.nearInterfaceID[idx] != 0 {
						continue
					}
					cutCells++
					phi := pkg.phi[idx]
					sdf := s.FindSignedDistance(pkg.dataPosition(i, j, k))
					assert.LessOrEqual(t, math.Abs(phi), ds,
						"redistanced cut cell at %v has |phi| = %g",
						pkg.dataPosition(i, j, k), math.Abs(phi))
					assert.Greater(t, phi*sdf, 0.0,
						"cut cell at %v flipped sign",
						pkg.dataPosition(i, j, k))
				}
			}
		}
	}
	assert.Greater(t, cutCells, 0)
}

func TestReinitializationFreezesCutCells(t *testing.T) {
	m, _ := sphereMesh(0.125)
	m.MarkNearInterface()
	m.RedistanceInterface()

	before := make(map[Handle][pkgVolume]float64)
	for _, h := range m.coreHandles {
		before[h] = m.pkg(h).phi
	}

	m.ReinitializeLevelSet()

	for _, h := range m.coreHandles {
		pkg := m.pkg(h)
		old := before[h]
		for i := 0; i < pkgVolume; i++ {
			if pkg.nearInterfaceID[i] == 0 {
				assert.Equal(t, old[i], pkg.phi[i],
					"cut cell %d of package %d moved", i, h)
			}
		}
	}
}

func TestNudgeNearZero(t *testing.T) {
	pkg := &DataPackage{}
	pkg.phi[0] = 1e-9
	pkg.phi[1] = -1e-9
	pkg.phi[2] = 0
	pkg.phi[3] = 0.5
	pkg.phi[4] = -0.5

	pkg.nudgeNearZero(0.01)
	assert.Equal(t, 0.01, pkg.phi[0])
	assert.Equal(t, -0.01, pkg.phi[1])
	assert.Equal(t, 0.01, pkg.phi[2])
	assert.Equal(t, 0.5, pkg.phi[3])
	assert.Equal(t, -0.5, pkg.phi[4])
}

func TestDataPositionLayout(t *testing.T) {
	pkg := &DataPackage{}
	pkg.initializeGeometry(geom.Vec{1, 2, 3}, 0.25)

	p := pkg.dataPosition(0, 0, 0)
	assert.Equal(t, geom.Vec{1.125, 2.125, 3.125}, p)
	p = pkg.dataPosition(PkgSize-1, 0, 0)
	assert.InDelta(t, 1+PkgSize*0.25-0.125, p[0], 1e-12)

	assert.Equal(t, 0, dataIdx(0, 0, 0))
	assert.Equal(t, pkgVolume-1, dataIdx(PkgSize-1, PkgSize-1, PkgSize-1))
}
