/*package shape defines the geometric query interface the level set meshes
are built from, along with exact signed distance implementations for simple
solids.

The sign convention is fixed here once: signed distances are negative inside
a shape and positive outside, and normals point outward.*/
package shape

import (
	"math"

	"github.com/phil-mansfield/lsmesh/geom"
)

// Shape answers signed distance, normal, and containment queries at
// arbitrary points. Implementations need not be continuous, but must be
// locally Lipschitz for the near-interface detection heuristic to be
// meaningful.
type Shape interface {
	// FindSignedDistance returns the signed distance from p to the shape
	// boundary, negative inside.
	FindSignedDistance(p geom.Vec) float64
	// FindNormalDirection returns the outward unit normal of the boundary
	// point closest to p.
	FindNormalDirection(p geom.Vec) geom.Vec
	// CheckContain returns true if p is inside the shape.
	CheckContain(p geom.Vec) bool
	// Bounds returns a box containing the shape boundary.
	Bounds() geom.BoundingBox
}

// Sphere is a solid ball.
type Sphere struct {
	Center geom.Vec
	Radius float64
}

func (s *Sphere) FindSignedDistance(p geom.Vec) float64 {
	return p.Sub(s.Center).Norm() - s.Radius
}

func (s *Sphere) FindNormalDirection(p geom.Vec) geom.Vec {
	d := p.Sub(s.Center)
	r := d.Norm()
	if r == 0 {
		// Every direction is equally wrong at the exact center.
		return geom.Vec{1, 0, 0}
	}
	return d.Scale(1 / r)
}

func (s *Sphere) CheckContain(p geom.Vec) bool {
	return s.FindSignedDistance(p) < 0
}

func (s *Sphere) Bounds() geom.BoundingBox {
	r := geom.Vec{s.Radius, s.Radius, s.Radius}
	return geom.BoundingBox{Lower: s.Center.Sub(r), Upper: s.Center.Add(r)}
}

// Box is an axis-aligned solid box given by its center and half extents.
type Box struct {
	Center     geom.Vec
	HalfExtent geom.Vec
}

func (b *Box) FindSignedDistance(p geom.Vec) float64 {
	var d geom.Vec
	for i := 0; i < 3; i++ {
		d[i] = math.Abs(p[i]-b.Center[i]) - b.HalfExtent[i]
	}

	inside := math.Max(d[0], math.Max(d[1], d[2]))
	if inside <= 0 {
		return inside
	}

	outer := 0.0
	for i := 0; i < 3; i++ {
		if d[i] > 0 {
			outer += d[i] * d[i]
		}
	}
	return math.Sqrt(outer)
}

func (b *Box) FindNormalDirection(p geom.Vec) geom.Vec {
	var d, sign geom.Vec
	for i := 0; i < 3; i++ {
		q := p[i] - b.Center[i]
		sign[i] = 1
		if q < 0 {
			sign[i] = -1
		}
		d[i] = math.Abs(q) - b.HalfExtent[i]
	}

	var n geom.Vec
	if b.FindSignedDistance(p) > 0 {
		for i := 0; i < 3; i++ {
			if d[i] > 0 {
				n[i] = sign[i] * d[i]
			}
		}
	} else {
		// Inside: the closest face is the least-negative axis.
		axis := 0
		for i := 1; i < 3; i++ {
			if d[i] > d[axis] {
				axis = i
			}
		}
		n[axis] = sign[axis]
		return n
	}

	norm := n.Norm()
	if norm == 0 {
		return geom.Vec{1, 0, 0}
	}
	return n.Scale(1 / norm)
}

func (b *Box) CheckContain(p geom.Vec) bool {
	return b.FindSignedDistance(p) < 0
}

func (b *Box) Bounds() geom.BoundingBox {
	return geom.BoundingBox{
		Lower: b.Center.Sub(b.HalfExtent), Upper: b.Center.Add(b.HalfExtent),
	}
}
