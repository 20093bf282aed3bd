package levelset

import (
	"math"

	"github.com/phil-mansfield/lsmesh/geom"
	"github.com/phil-mansfield/lsmesh/shape"
)

const (
	// PkgSize is the number of sub-cells per package along one axis.
	PkgSize   = 4
	pkgVolume = PkgSize * PkgSize * PkgSize

	tinyReal = 1e-20

	// reinitializationFactor is the pseudo-time step of one Eikonal
	// relaxation sub-step, in units of the data spacing.
	reinitializationFactor = 0.3
)

// Handle addresses a DataPackage inside its mesh's arena. Handles 0 and 1
// are reserved for the two singular packages.
type Handle int32

const (
	singularInside  Handle = 0
	singularOutside Handle = 1
)

// DataPackage is a PkgSize^3 block of sub-cells holding the per-cell fields
// of one mesh cell. The two singular packages stand in for the constant far
// field on either side of the interface; all other packages are allocated
// in the owning mesh's arena and live for the mesh's lifetime.
type DataPackage struct {
	cellIdx    [3]int
	lowerBound geom.Vec
	spacing    float64

	singular bool
	isCore   bool
	isInner  bool

	phi             [pkgVolume]float64
	n               [pkgVolume]geom.Vec
	noneNormalizedN [pkgVolume]geom.Vec
	kernelWeight    [pkgVolume]float64
	kernelGradient  [pkgVolume]geom.Vec
	nearInterfaceID [pkgVolume]int8

	scratch [pkgVolume]float64

	// nbr caches the handles of the 3x3x3 cell neighborhood, filled by the
	// address wiring pass. nbr[1][1][1] is the package's own cell.
	nbr [3][3][3]Handle
}

func dataIdx(i, j, k int) int {
	return i + j*PkgSize + k*PkgSize*PkgSize
}

// newSingularPackage returns a constant package holding the far-field
// distance phi. The kernel integral of a far cell is 1 in the fluid and 0 in
// the solid; every other field is degenerate.
func newSingularPackage(phi float64) *DataPackage {
	pkg := &DataPackage{singular: true}
	weight := 0.0
	id := int8(-1)
	if phi > 0 {
		weight = 1.0
		id = 1
	}
	for i := 0; i < pkgVolume; i++ {
		pkg.phi[i] = phi
		pkg.kernelWeight[i] = weight
		pkg.nearInterfaceID[i] = id
	}
	return pkg
}

// initializeGeometry sets the package's local coordinate frame. It has no
// allocation side effects.
func (pkg *DataPackage) initializeGeometry(lowerBound geom.Vec, spacing float64) {
	pkg.lowerBound = lowerBound
	pkg.spacing = spacing
}

// dataPosition returns the position of sub-cell (i, j, k). Sub-cell values
// live at cell centers.
func (pkg *DataPackage) dataPosition(i, j, k int) geom.Vec {
	return geom.Vec{
		pkg.lowerBound[0] + (float64(i)+0.5)*pkg.spacing,
		pkg.lowerBound[1] + (float64(j)+0.5)*pkg.spacing,
		pkg.lowerBound[2] + (float64(k)+0.5)*pkg.spacing,
	}
}

// initializeBasicData queries the shape for the signed distance at every
// sub-cell and seeds the near-interface tag from its sign. Normals and
// kernel data are not yet computed.
func (pkg *DataPackage) initializeBasicData(s shape.Shape) {
	for k := 0; k < PkgSize; k++ {
		for j := 0; j < PkgSize; j++ {
			for i := 0; i < PkgSize; i++ {
				idx := dataIdx(i, j, k)
				phi := s.FindSignedDistance(pkg.dataPosition(i, j, k))
				pkg.phi[idx] = phi
				if phi < 0 {
					pkg.nearInterfaceID[idx] = -1
				} else {
					pkg.nearInterfaceID[idx] = 1
				}
			}
		}
	}
}

// split maps a halo sub-cell index to a neighbor offset and an index within
// that neighbor.
func split(i int) (n, di int) {
	switch {
	case i < 0:
		return 0, i + PkgSize
	case i >= PkgSize:
		return 2, i - PkgSize
	}
	return 1, i
}

// resolve maps sub-cell indices, which may extend up to one package beyond
// the block on each side, to the package owning them and the data index
// within it. Out-of-package reads go through the cached neighbor handles,
// so the address wiring pass must have run first.
func (pkg *DataPackage) resolve(m *Mesh, i, j, k int) (*DataPackage, int) {
	ni, i := split(i)
	nj, j := split(j)
	nk, k := split(k)
	if ni == 1 && nj == 1 && nk == 1 {
		return pkg, dataIdx(i, j, k)
	}
	other := m.pkg(pkg.nbr[ni][nj][nk])
	if other.singular {
		return other, 0
	}
	return other, dataIdx(i, j, k)
}

func (pkg *DataPackage) phiAt(m *Mesh, i, j, k int) float64 {
	p, idx := pkg.resolve(m, i, j, k)
	return p.phi[idx]
}

// gradientAt returns the central-difference gradient of phi at sub-cell
// (i, j, k), reading through the halo.
func (pkg *DataPackage) gradientAt(m *Mesh, i, j, k int) geom.Vec {
	inv := 0.5 / pkg.spacing
	return geom.Vec{
		(pkg.phiAt(m, i+1, j, k) - pkg.phiAt(m, i-1, j, k)) * inv,
		(pkg.phiAt(m, i, j+1, k) - pkg.phiAt(m, i, j-1, k)) * inv,
		(pkg.phiAt(m, i, j, k+1) - pkg.phiAt(m, i, j, k-1)) * inv,
	}
}

// computeNormalDirection recomputes the normalized phi gradient at every
// sub-cell. The halo must be populated before calling.
func (pkg *DataPackage) computeNormalDirection(m *Mesh) {
	for k := 0; k < PkgSize; k++ {
		for j := 0; j < PkgSize; j++ {
			for i := 0; i < PkgSize; i++ {
				g := pkg.gradientAt(m, i, j, k)
				pkg.n[dataIdx(i, j, k)] = g.Scale(1 / (g.Norm() + tinyReal))
			}
		}
	}
}

// computeNoneNormalizedNormalDirection recomputes the raw phi gradient at
// every sub-cell.
func (pkg *DataPackage) computeNoneNormalizedNormalDirection(m *Mesh) {
	for k := 0; k < PkgSize; k++ {
		for j := 0; j < PkgSize; j++ {
			for i := 0; i < PkgSize; i++ {
				pkg.noneNormalizedN[dataIdx(i, j, k)] = pkg.gradientAt(m, i, j, k)
			}
		}
	}
}

// computeKernelIntegrals integrates the kernel weight and kernel gradient
// over the fluid side of the interface around every sub-cell, by summing
// kernel contributions over the surrounding sub-cell lattice weighted by the
// smoothed Heaviside of the neighbor's signed distance. Cells deeper in the
// fluid than the kernel support short-circuit to the full-support values.
func (pkg *DataPackage) computeKernelIntegrals(m *Mesh) {
	cutoff := m.kern.CutoffRadius(m.globalHRatio)
	threshold := cutoff + m.dataSpacing
	depth := int(math.Ceil(cutoff / m.dataSpacing))
	vol := m.dataSpacing * m.dataSpacing * m.dataSpacing

	for k := 0; k < PkgSize; k++ {
		for j := 0; j < PkgSize; j++ {
			for i := 0; i < PkgSize; i++ {
				idx := dataIdx(i, j, k)
				phi := pkg.phi[idx]
				if phi > threshold {
					pkg.kernelWeight[idx] = 1
					pkg.kernelGradient[idx] = geom.Vec{}
					continue
				}
				if phi < -threshold {
					pkg.kernelWeight[idx] = 0
					pkg.kernelGradient[idx] = geom.Vec{}
					continue
				}

				pos := pkg.dataPosition(i, j, k)
				gi := pkg.cellIdx[0]*PkgSize + i
				gj := pkg.cellIdx[1]*PkgSize + j
				gk := pkg.cellIdx[2]*PkgSize + k

				integral := 0.0
				var gradient geom.Vec
				for dk := -depth; dk <= depth; dk++ {
					for dj := -depth; dj <= depth; dj++ {
						for di := -depth; di <= depth; di++ {
							nphi := m.phiAtGlobalDataIndex(
								gi+di, gj+dj, gk+dk,
							)
							if nphi <= -m.dataSpacing {
								continue
							}
							npos := m.globalDataPosition(
								gi+di, gj+dj, gk+dk,
							)
							disp := pos.Sub(npos)
							dist := disp.Norm()
							if dist >= cutoff {
								continue
							}
							contrib := Heaviside(nphi, m.dataSpacing) * vol
							integral += m.kern.W(m.globalHRatio, dist) *
								contrib
							if dist > tinyReal {
								gradient = gradient.Add(disp.Scale(
									m.kern.GradW(m.globalHRatio, dist) *
										contrib / dist,
								))
							}
						}
					}
				}
				pkg.kernelWeight[idx] = integral
				pkg.kernelGradient[idx] = gradient
			}
		}
	}
}

// upwindDifference selects the upwind one-sided difference for an Eikonal
// relaxation step moving information away from the interface.
func upwindDifference(sign, dfP, dfN float64) float64 {
	if sign*dfP >= 0 && sign*dfN >= 0 {
		return dfN
	}
	if sign*dfP <= 0 && sign*dfN <= 0 {
		return dfP
	}
	if sign*dfP > 0 && sign*dfN < 0 {
		return 0
	}

	df := dfP
	if sign*dfP < 0 && sign*dfN > 0 {
		ss := sign * (math.Abs(dfP) - math.Abs(dfN)) /
			(math.Abs(dfP) + math.Abs(dfN))
		if ss > 0 {
			df = dfN
		}
	}
	return df
}

// computeReinitialization evaluates one upwind relaxation sub-step into the
// package's scratch buffer. Cut cells (near-interface tag 0) are frozen so
// the zero level set stays fixed.
func (pkg *DataPackage) computeReinitialization(m *Mesh) {
	ds := pkg.spacing
	for k := 0; k < PkgSize; k++ {
		for j := 0; j < PkgSize; j++ {
			for i := 0; i < PkgSize; i++ {
				idx := dataIdx(i, j, k)
				phi0 := pkg.phi[idx]
				pkg.scratch[idx] = phi0
				if pkg.nearInterfaceID[idx] == 0 {
					continue
				}

				sign := phi0 / math.Sqrt(phi0*phi0+ds*ds)
				dvX := upwindDifference(sign,
					pkg.phiAt(m, i+1, j, k)-phi0,
					phi0-pkg.phiAt(m, i-1, j, k))
				dvY := upwindDifference(sign,
					pkg.phiAt(m, i, j+1, k)-phi0,
					phi0-pkg.phiAt(m, i, j-1, k))
				dvZ := upwindDifference(sign,
					pkg.phiAt(m, i, j, k+1)-phi0,
					phi0-pkg.phiAt(m, i, j, k-1))

				norm := math.Sqrt(dvX*dvX + dvY*dvY + dvZ*dvZ)
				pkg.scratch[idx] = phi0 -
					reinitializationFactor*sign*(norm-ds)
			}
		}
	}
}

// applyScratch commits the scratch buffer computed by the first half of a
// two-phase pass.
func (pkg *DataPackage) applyScratch() {
	for i := 0; i < pkgVolume; i++ {
		pkg.phi[i] = pkg.scratch[i]
	}
}

// nudgeNearZero pushes signed distances within smallShift of zero away from
// exact zero, keeping their sign, so that later sign comparisons never tie.
func (pkg *DataPackage) nudgeNearZero(smallShift float64) {
	for i := 0; i < pkgVolume; i++ {
		if math.Abs(pkg.phi[i]) < smallShift {
			if pkg.phi[i] < 0 {
				pkg.phi[i] = -smallShift
			} else {
				pkg.phi[i] = smallShift
			}
		}
	}
}

// tagNearInterface recomputes the near-interface tag at every sub-cell from
// the sign pattern of phi in its 1-cell neighborhood: 0 at cut cells, the
// sign of phi elsewhere.
func (pkg *DataPackage) tagNearInterface(m *Mesh) {
	for k := 0; k < PkgSize; k++ {
		for j := 0; j < PkgSize; j++ {
			for i := 0; i < PkgSize; i++ {
				idx := dataIdx(i, j, k)
				phi0 := pkg.phi[idx]
				id := int8(1)
				if phi0 < 0 {
					id = -1
				}
			search:
				for dk := -1; dk <= 1; dk++ {
					for dj := -1; dj <= 1; dj++ {
						for di := -1; di <= 1; di++ {
							if di == 0 && dj == 0 && dk == 0 {
								continue
							}
							if phi0*pkg.phiAt(m, i+di, j+dj, k+dk) < 0 {
								id = 0
								break search
							}
						}
					}
				}
				pkg.nearInterfaceID[idx] = id
			}
		}
	}
}

// computeRedistance rebuilds the signed distance at cut cells from the zero
// crossings along the grid axes, writing into the scratch buffer. Crossing
// positions are preserved exactly: both sides of a crossing rescale by the
// same interpolation weights.
func (pkg *DataPackage) computeRedistance(m *Mesh) {
	ds := pkg.spacing
	for k := 0; k < PkgSize; k++ {
		for j := 0; j < PkgSize; j++ {
			for i := 0; i < PkgSize; i++ {
				idx := dataIdx(i, j, k)
				phi0 := pkg.phi[idx]
				pkg.scratch[idx] = phi0
				if pkg.nearInterfaceID[idx] != 0 {
					continue
				}

				neighbors := [6][3]int{
					{i - 1, j, k}, {i + 1, j, k},
					{i, j - 1, k}, {i, j + 1, k},
					{i, j, k - 1}, {i, j, k + 1},
				}
				minDist := math.Inf(1)
				for _, c := range neighbors {
					phiN := pkg.phiAt(m, c[0], c[1], c[2])
					if phi0*phiN < 0 {
						d := ds * math.Abs(phi0) /
							(math.Abs(phi0) + math.Abs(phiN))
						if d < minDist {
							minDist = d
						}
					}
				}
				if !math.IsInf(minDist, 1) {
					pkg.scratch[idx] = math.Copysign(minDist, phi0)
				}
			}
		}
	}
}

// IsCore reports whether the interface was detected in this package's cell
// at mesh resolution.
func (pkg *DataPackage) IsCore() bool { return pkg.isCore }

// IsInner reports whether the package belongs to the retained narrow band.
func (pkg *DataPackage) IsInner() bool { return pkg.isInner }
