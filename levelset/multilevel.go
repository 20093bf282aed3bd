package levelset

import (
	"github.com/phil-mansfield/lsmesh/adapt"
	"github.com/phil-mansfield/lsmesh/geom"
	"github.com/phil-mansfield/lsmesh/shape"
)

// ratioEps absorbs rounding when a requested resolution ratio sits exactly
// on a level boundary.
const ratioEps = 1e-9

// MultilevelMesh coordinates an ordered hierarchy of meshes, coarsest
// first, each level halving the data spacing of the one before it. Geometry
// probes answer from the finest level claiming the query point; kernel
// integral probes blend linearly between the two levels bracketing the
// requested resolution ratio.
type MultilevelMesh struct {
	levels []*Mesh
}

// NewMultilevelMesh builds ad.TotalLevels mesh levels for shape s over the
// tentative bounds, refining repeatedly from the coarsest spacing the
// adaptation selects.
func NewMultilevelMesh(
	tentativeBounds geom.BoundingBox, s shape.Shape, ad *adapt.Adaptation,
) (*MultilevelMesh, error) {
	if err := ad.Validate(); err != nil {
		return nil, err
	}

	levels := make([]*Mesh, 0, ad.TotalLevels)
	levels = append(levels, NewMesh(
		tentativeBounds, ad.CoarsestSpacing(), s, ad,
	))
	for l := 1; l < ad.TotalLevels; l++ {
		rm := NewRefinedMesh(tentativeBounds, levels[l-1], s, ad)
		levels = append(levels, &rm.Mesh)
	}
	return &MultilevelMesh{levels}, nil
}

// TotalLevels returns the number of levels in the hierarchy.
func (mm *MultilevelMesh) TotalLevels() int { return len(mm.levels) }

// Level returns level l, coarsest first.
func (mm *MultilevelMesh) Level(l int) *Mesh { return mm.levels[l] }

// MeshLevel returns the finest level whose own resolution ratio does not
// exceed hRatio. Finding none means the hierarchy was built incompatibly
// with the adaptation policy asking for hRatio, which is a configuration
// error rather than a recoverable condition.
func (mm *MultilevelMesh) MeshLevel(hRatio float64) (int, error) {
	for level := len(mm.levels); level != 0; level-- {
		if hRatio-mm.levels[level-1].globalHRatio > -ratioEps {
			return level - 1, nil
		}
	}
	return 0, configErrorf(
		"levelset: no mesh level matches resolution ratio %g: "+
			"coarsest level has ratio %g",
		hRatio, mm.levels[0].globalHRatio,
	)
}

// probeLevel returns the finest level for which p falls in a core package,
// defaulting to the coarsest level.
func (mm *MultilevelMesh) probeLevel(p geom.Vec) int {
	for level := len(mm.levels); level != 0; level-- {
		if mm.levels[level-1].IsWithinCorePackage(p) {
			return level - 1
		}
	}
	return 0
}

// ProbeSignedDistance returns the signed distance at p from the finest
// applicable level.
func (mm *MultilevelMesh) ProbeSignedDistance(p geom.Vec) float64 {
	return mm.levels[mm.probeLevel(p)].ProbeSignedDistance(p)
}

// ProbeNormalDirection returns the interface normal at p from the finest
// applicable level.
func (mm *MultilevelMesh) ProbeNormalDirection(p geom.Vec) geom.Vec {
	return mm.levels[mm.probeLevel(p)].ProbeNormalDirection(p)
}

// ProbeNoneNormalizedNormalDirection returns the raw phi gradient at p from
// the finest applicable level.
func (mm *MultilevelMesh) ProbeNoneNormalizedNormalDirection(
	p geom.Vec,
) geom.Vec {
	return mm.levels[mm.probeLevel(p)].ProbeNoneNormalizedNormalDirection(p)
}

// blendWeight returns the linear interpolation weight of the coarser of two
// bracketing levels for a requested ratio.
func (mm *MultilevelMesh) blendWeight(coarse int, hRatio float64) float64 {
	rc := mm.levels[coarse].globalHRatio
	rf := mm.levels[coarse+1].globalHRatio
	return (rf - hRatio) / (rf - rc)
}

// ProbeKernelIntegral returns the kernel weight integral at p for a local
// smoothing length ratio hRatio, blended linearly between the two levels
// bracketing that ratio so the correction varies continuously across level
// boundaries.
func (mm *MultilevelMesh) ProbeKernelIntegral(
	p geom.Vec, hRatio float64,
) (float64, error) {
	coarse, err := mm.MeshLevel(hRatio)
	if err != nil {
		return 0, err
	}
	if coarse == len(mm.levels)-1 {
		return mm.levels[coarse].ProbeKernelIntegral(p), nil
	}
	alpha := mm.blendWeight(coarse, hRatio)
	return alpha*mm.levels[coarse].ProbeKernelIntegral(p) +
		(1-alpha)*mm.levels[coarse+1].ProbeKernelIntegral(p), nil
}

// ProbeKernelGradientIntegral is the vector analogue of
// ProbeKernelIntegral.
func (mm *MultilevelMesh) ProbeKernelGradientIntegral(
	p geom.Vec, hRatio float64,
) (geom.Vec, error) {
	coarse, err := mm.MeshLevel(hRatio)
	if err != nil {
		return geom.Vec{}, err
	}
	if coarse == len(mm.levels)-1 {
		return mm.levels[coarse].ProbeKernelGradientIntegral(p), nil
	}
	alpha := mm.blendWeight(coarse, hRatio)
	c := mm.levels[coarse].ProbeKernelGradientIntegral(p)
	f := mm.levels[coarse+1].ProbeKernelGradientIntegral(p)
	return c.Scale(alpha).Add(f.Scale(1 - alpha)), nil
}

// CleanInterface runs the maintenance cycle on the finest level only.
// Coarser levels are fixed once built; the reinitialization cost is paid at
// the resolution that answers geometry queries.
func (mm *MultilevelMesh) CleanInterface() {
	mm.levels[len(mm.levels)-1].CleanInterface()
}

// ProbeIsWithinMeshBound reports whether p is probe-safe on every level of
// the hierarchy.
func (mm *MultilevelMesh) ProbeIsWithinMeshBound(p geom.Vec) bool {
	for _, level := range mm.levels {
		if !level.ProbeIsWithinMeshBound(p) {
			return false
		}
	}
	return true
}
