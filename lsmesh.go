/*Package lsmesh maintains hierarchical, narrow band level set meshes for
particle based simulation. A mesh represents a solid/fluid interface as a
signed distance field allocated only in a band around the boundary, keeps
that field a true distance function as the geometry deforms, and precomputes
the smoothing kernel integral corrections particle methods need near walls.

The heavy lifting lives in the levelset package; this package ties the
hierarchy to an adaptation policy and names the surface the physics layer
consumes.*/
package lsmesh

import (
	"github.com/phil-mansfield/lsmesh/adapt"
	"github.com/phil-mansfield/lsmesh/geom"
	"github.com/phil-mansfield/lsmesh/levelset"
	"github.com/phil-mansfield/lsmesh/shape"
)

// Field is the set of operations the physics layer invokes on a level set
// hierarchy. Probes at positions failing ProbeIsWithinMeshBound are
// unsupported; callers check first.
type Field interface {
	ProbeSignedDistance(p geom.Vec) float64
	ProbeNormalDirection(p geom.Vec) geom.Vec
	ProbeKernelIntegral(p geom.Vec, hRatio float64) (float64, error)
	ProbeKernelGradientIntegral(p geom.Vec, hRatio float64) (geom.Vec, error)
	ProbeIsWithinMeshBound(p geom.Vec) bool
	CleanInterface()
}

var _ Field = (*levelset.MultilevelMesh)(nil)

// New builds a level set hierarchy for shape s over the tentative bounds
// under the given adaptation policy. The returned mesh satisfies Field.
func New(
	bounds geom.BoundingBox, s shape.Shape, ad *adapt.Adaptation,
) (*levelset.MultilevelMesh, error) {
	return levelset.NewMultilevelMesh(bounds, s, ad)
}
