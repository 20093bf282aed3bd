/*package kernel implements the SPH smoothing kernels used for the kernel
integral corrections of the level set meshes.

A kernel owns a reference smoothing length h. Evaluation takes a resolution
ratio which rescales that length: a mesh whose spacing is finer than the
reference by a factor hRatio evaluates its kernel with an effective smoothing
length h/hRatio.*/
package kernel

import (
	"math"
)

// Kernel evaluates a smoothing kernel weight and its radial derivative as a
// function of distance, at a resolution given by hRatio.
type Kernel interface {
	// W returns the kernel weight at distance r.
	W(hRatio, r float64) float64
	// GradW returns dW/dr at distance r. It is negative inside the support.
	GradW(hRatio, r float64) float64
	// CutoffRadius returns the support radius. W and GradW are zero at and
	// beyond this distance.
	CutoffRadius(hRatio float64) float64
}

// WendlandC2 is the Wendland C2 kernel with support radius 2h, normalized in
// three dimensions.
type WendlandC2 struct {
	h float64
}

// NewWendlandC2 returns a Wendland C2 kernel with reference smoothing
// length h.
func NewWendlandC2(h float64) *WendlandC2 {
	if h <= 0 {
		panic("kernel: non-positive smoothing length")
	}
	return &WendlandC2{h}
}

func (k *WendlandC2) CutoffRadius(hRatio float64) float64 {
	return 2 * k.h / hRatio
}

func (k *WendlandC2) W(hRatio, r float64) float64 {
	h := k.h / hRatio
	q := r / h
	if q >= 2 {
		return 0
	}
	alpha := 21 / (16 * math.Pi * h * h * h)
	t := 1 - 0.5*q
	return alpha * t * t * t * t * (2*q + 1)
}

func (k *WendlandC2) GradW(hRatio, r float64) float64 {
	h := k.h / hRatio
	q := r / h
	if q >= 2 {
		return 0
	}
	alpha := 21 / (16 * math.Pi * h * h * h)
	t := 1 - 0.5*q
	return alpha * -5 * q * t * t * t / h
}

// CubicSpline is the M4 cubic B-spline kernel with support radius 2h,
// normalized in three dimensions.
type CubicSpline struct {
	h float64
}

// NewCubicSpline returns a cubic spline kernel with reference smoothing
// length h.
func NewCubicSpline(h float64) *CubicSpline {
	if h <= 0 {
		panic("kernel: non-positive smoothing length")
	}
	return &CubicSpline{h}
}

func (k *CubicSpline) CutoffRadius(hRatio float64) float64 {
	return 2 * k.h / hRatio
}

func (k *CubicSpline) W(hRatio, r float64) float64 {
	h := k.h / hRatio
	q := r / h
	sigma := 1 / (math.Pi * h * h * h)
	switch {
	case q < 1:
		return sigma * (1 - 1.5*q*q + 0.75*q*q*q)
	case q < 2:
		t := 2 - q
		return sigma * 0.25 * t * t * t
	}
	return 0
}

func (k *CubicSpline) GradW(hRatio, r float64) float64 {
	h := k.h / hRatio
	q := r / h
	sigma := 1 / (math.Pi * h * h * h)
	switch {
	case q < 1:
		return sigma * (-3*q + 2.25*q*q) / h
	case q < 2:
		t := 2 - q
		return sigma * -0.75 * t * t / h
	}
	return 0
}
