package levelset

import (
	"github.com/phil-mansfield/lsmesh/adapt"
	"github.com/phil-mansfield/lsmesh/geom"
	"github.com/phil-mansfield/lsmesh/parallel"
	"github.com/phil-mansfield/lsmesh/shape"
)

// RefinedMesh is a mesh at half the data spacing of a coarser, already
// finished mesh. Its band is seeded only inside the coarse mesh's core
// region, so fine-level allocation scales with the coarse band rather than
// the whole domain.
type RefinedMesh struct {
	Mesh
	coarse *Mesh
}

// NewRefinedMesh builds the next finer level over the same tentative bounds
// as the given coarse mesh.
func NewRefinedMesh(
	tentativeBounds geom.BoundingBox, coarse *Mesh,
	s shape.Shape, ad *adapt.Adaptation,
) *RefinedMesh {
	rm := &RefinedMesh{coarse: coarse}
	rm.initBase(tentativeBounds, coarse.DataSpacing()/2, s, ad)
	parallel.ForParallel(rm.grid.Volume, rm.initializeDataInACellFromCoarse)
	rm.finishDataPackages()
	return rm
}

// initializeDataInACellFromCoarse assigns fine cell ci a cheap singular
// link from the sign of the coarse probe, then re-runs the shape proximity
// test at fine resolution only where the coarse mesh claims the cell as
// core.
func (rm *RefinedMesh) initializeDataInACellFromCoarse(ci int) {
	x, y, z := rm.grid.Coords(ci)
	pos := rm.cellPosition(x, y, z)

	if rm.coarse.ProbeSignedDistance(pos) < 0 {
		rm.cellPkg[ci] = singularInside
	} else {
		rm.cellPkg[ci] = singularOutside
	}

	if !rm.coarse.IsWithinCorePackage(pos) {
		return
	}
	sd := rm.shape.FindSignedDistance(pos)
	normal := rm.shape.FindNormalDirection(pos)
	if normal.Scale(sd).MaxAbs() < rm.gridSpacing {
		h, pkg := rm.createDataPackage(x, y, z)
		pkg.isCore = true
		rm.mu.Lock()
		rm.coreHandles = append(rm.coreHandles, h)
		rm.mu.Unlock()
	}
}
