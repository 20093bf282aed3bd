/*package geom contains the vector, bounding box, and uniform grid types
shared by the level set meshes.*/
package geom

import (
	"math"
)

// Vec is a three dimensional vector.
type Vec [3]float64

// Add returns the component-wise sum of v and u.
func (v Vec) Add(u Vec) Vec {
	return Vec{v[0] + u[0], v[1] + u[1], v[2] + u[2]}
}

// Sub returns the component-wise difference of v and u.
func (v Vec) Sub(u Vec) Vec {
	return Vec{v[0] - u[0], v[1] - u[1], v[2] - u[2]}
}

// Scale returns v scaled by s.
func (v Vec) Scale(s float64) Vec {
	return Vec{v[0] * s, v[1] * s, v[2] * s}
}

// Dot returns the inner product of v and u.
func (v Vec) Dot(u Vec) float64 {
	return v[0]*u[0] + v[1]*u[1] + v[2]*u[2]
}

// Norm returns the Euclidean norm of v.
func (v Vec) Norm() float64 {
	return math.Sqrt(v.Dot(v))
}

// MaxAbs returns the largest absolute component of v.
func (v Vec) MaxAbs() float64 {
	max := math.Abs(v[0])
	if y := math.Abs(v[1]); y > max {
		max = y
	}
	if z := math.Abs(v[2]); z > max {
		max = z
	}
	return max
}

// BoundingBox is an axis-aligned box.
type BoundingBox struct {
	Lower, Upper Vec
}

// Contains returns true if p is inside the box and false otherwise.
func (b BoundingBox) Contains(p Vec) bool {
	for i := 0; i < 3; i++ {
		if p[i] < b.Lower[i] || p[i] > b.Upper[i] {
			return false
		}
	}
	return true
}

// Width returns the per-axis extent of the box.
func (b BoundingBox) Width() Vec {
	return b.Upper.Sub(b.Lower)
}

// Extend returns a box grown by pad on every face.
func (b BoundingBox) Extend(pad float64) BoundingBox {
	d := Vec{pad, pad, pad}
	return BoundingBox{b.Lower.Sub(d), b.Upper.Add(d)}
}
