/*package levelset maintains narrow band signed distance meshes around the
boundary of a shape, together with the smoothing kernel integral corrections
particle methods need near an interface.

A mesh covers its bounding box with a uniform grid of cells, each cell
holding a PkgSize^3 block of sub-cell data (a DataPackage). Cells far from
the interface share one of two constant singular packages; cells near the
interface own real packages, allocated once at construction and kept for the
mesh's lifetime. RefinedMesh builds the next finer level inside a coarser
mesh's band, and MultilevelMesh coordinates a whole hierarchy.*/
package levelset

import (
	"math"
	"sync"

	"github.com/phil-mansfield/lsmesh/adapt"
	"github.com/phil-mansfield/lsmesh/geom"
	"github.com/phil-mansfield/lsmesh/kernel"
	"github.com/phil-mansfield/lsmesh/parallel"
	"github.com/phil-mansfield/lsmesh/shape"
)

const (
	// bufferWidth is the number of padding cells added around the tentative
	// bounds on every face. The far-field singular distance is the padding
	// depth in physical units.
	bufferWidth = 4

	// reinitializationSweeps is the fixed relaxation budget of
	// ReinitializeLevelSet. There is deliberately no convergence check.
	reinitializationSweeps = 50
)

// Mesh is a single resolution level of a narrow band level set.
type Mesh struct {
	grid        *geom.Grid
	lowerBound  geom.Vec
	gridSpacing float64
	dataSpacing float64

	globalHRatio     float64
	smallShiftFactor float64
	kern             kernel.Kernel
	shape            shape.Shape

	// arena holds every package of this mesh, addressed by Handle. Its
	// length is fixed at construction so that concurrent allocation during
	// the tagging passes never moves existing packages.
	arena   []*DataPackage
	nPkgs   int
	cellPkg []Handle
	mu      sync.Mutex

	coreHandles  []Handle
	innerHandles []Handle
}

// NewMesh builds a single level mesh for shape s over the tentative bounds
// at the given data spacing. Construction scans every cell of the buffered
// grid, allocates packages where the boundary plausibly crosses at mesh
// resolution, and then runs the finishing passes: inner tagging, address
// wiring, normals, and kernel integrals.
func NewMesh(
	tentativeBounds geom.BoundingBox, dataSpacing float64,
	s shape.Shape, ad *adapt.Adaptation,
) *Mesh {
	m := &Mesh{}
	m.initBase(tentativeBounds, dataSpacing, s, ad)
	parallel.ForParallel(m.grid.Volume, m.initializeDataInACell)
	m.finishDataPackages()
	return m
}

func (m *Mesh) initBase(
	bounds geom.BoundingBox, dataSpacing float64,
	s shape.Shape, ad *adapt.Adaptation,
) {
	m.dataSpacing = dataSpacing
	m.gridSpacing = dataSpacing * PkgSize

	var width [3]int
	w := bounds.Width()
	for i := 0; i < 3; i++ {
		width[i] = int(math.Ceil(w[i]/m.gridSpacing)) + 2*bufferWidth
	}
	m.grid = geom.NewGrid(width)

	pad := float64(bufferWidth) * m.gridSpacing
	m.lowerBound = bounds.Lower.Sub(geom.Vec{pad, pad, pad})

	m.globalHRatio = ad.ReferenceSpacing / dataSpacing
	m.smallShiftFactor = ad.SmallShiftFactor
	m.kern = ad.Kernel
	m.shape = s

	m.cellPkg = make([]Handle, m.grid.Volume)
	m.arena = make([]*DataPackage, m.grid.Volume+2)

	farField := m.gridSpacing * bufferWidth
	m.arena[singularInside] = newSingularPackage(-farField)
	m.arena[singularOutside] = newSingularPackage(farField)
	m.nPkgs = 2
}

func (m *Mesh) pkg(h Handle) *DataPackage { return m.arena[h] }

// DataSpacing returns the sub-cell spacing of the mesh.
func (m *Mesh) DataSpacing() float64 { return m.dataSpacing }

// GridSpacing returns the cell spacing of the mesh, PkgSize times the data
// spacing.
func (m *Mesh) GridSpacing() float64 { return m.gridSpacing }

// GlobalHRatio returns the mesh's resolution ratio relative to the
// adaptation's reference spacing.
func (m *Mesh) GlobalHRatio() float64 { return m.globalHRatio }

func (m *Mesh) cellLowerBound(x, y, z int) geom.Vec {
	return geom.Vec{
		m.lowerBound[0] + float64(x)*m.gridSpacing,
		m.lowerBound[1] + float64(y)*m.gridSpacing,
		m.lowerBound[2] + float64(z)*m.gridSpacing,
	}
}

func (m *Mesh) cellPosition(x, y, z int) geom.Vec {
	return geom.Vec{
		m.lowerBound[0] + (float64(x)+0.5)*m.gridSpacing,
		m.lowerBound[1] + (float64(y)+0.5)*m.gridSpacing,
		m.lowerBound[2] + (float64(z)+0.5)*m.gridSpacing,
	}
}

func (m *Mesh) cellIndexFromPosition(p geom.Vec) (x, y, z int) {
	x = int(math.Floor((p[0] - m.lowerBound[0]) / m.gridSpacing))
	y = int(math.Floor((p[1] - m.lowerBound[1]) / m.gridSpacing))
	z = int(math.Floor((p[2] - m.lowerBound[2]) / m.gridSpacing))
	return x, y, z
}

// createDataPackage allocates a package for cell (x, y, z), initializes its
// geometry and signed distances from the shape, and links the cell to it.
// Safe to call from concurrent workers: only the arena bump is locked.
func (m *Mesh) createDataPackage(x, y, z int) (Handle, *DataPackage) {
	pkg := &DataPackage{cellIdx: [3]int{x, y, z}}
	pkg.initializeGeometry(m.cellLowerBound(x, y, z), m.dataSpacing)
	pkg.initializeBasicData(m.shape)

	m.mu.Lock()
	h := Handle(m.nPkgs)
	m.arena[h] = pkg
	m.nPkgs++
	m.mu.Unlock()

	m.cellPkg[m.grid.Idx(x, y, z)] = h
	return h, pkg
}

// initializeDataInACell decides what cell ci holds: a freshly allocated core
// package if the shape boundary is plausibly within one cell spacing of the
// cell center, or a link to the matching singular package otherwise. The
// proximity bound uses the per-axis extent of normal times distance, which
// is conservative for any locally flat boundary.
func (m *Mesh) initializeDataInACell(ci int) {
	x, y, z := m.grid.Coords(ci)
	pos := m.cellPosition(x, y, z)
	sd := m.shape.FindSignedDistance(pos)
	normal := m.shape.FindNormalDirection(pos)

	if normal.Scale(sd).MaxAbs() < m.gridSpacing {
		h, pkg := m.createDataPackage(x, y, z)
		pkg.isCore = true
		m.mu.Lock()
		m.coreHandles = append(m.coreHandles, h)
		m.mu.Unlock()
	} else if m.shape.CheckContain(pos) {
		m.cellPkg[ci] = singularInside
	} else {
		m.cellPkg[ci] = singularOutside
	}
}

// finishDataPackages runs the fixed finishing sequence after either
// construction variant: tag the inner band, wire neighbor addresses, then
// refresh normals and kernel integrals. The order is load-bearing; each pass
// reads only fields finalized by the passes before it.
func (m *Mesh) finishDataPackages() {
	m.tagInnerPackages()
	parallel.ForParallel(len(m.innerHandles), func(i int) {
		m.wirePackageAddresses(m.innerHandles[i])
	})
	m.UpdateNormalDirection()
	m.UpdateNoneNormalizedNormalDirection()
	m.UpdateKernelIntegrals()
}

// isInnerCell reports whether cell (x, y, z) belongs to the working narrow
// band: it is core or adjacent to a core cell.
func (m *Mesh) isInnerCell(x, y, z int) bool {
	for dz := -1; dz <= 1; dz++ {
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				idx, ok := m.grid.IdxCheck(x+dx, y+dy, z+dz)
				if !ok {
					continue
				}
				if m.pkg(m.cellPkg[idx]).isCore {
					return true
				}
			}
		}
	}
	return false
}

// tagInnerPackages selects the retained narrow band. Membership is decided
// in a read-only pass over the finished cell links, then a second pass
// allocates packages for band cells that only had a singular link, so that
// no worker ever reads a cell link a peer is still writing.
func (m *Mesh) tagInnerPackages() {
	inner := make([]bool, m.grid.Volume)
	parallel.ForParallel(m.grid.Volume, func(ci int) {
		x, y, z := m.grid.Coords(ci)
		inner[ci] = m.isInnerCell(x, y, z)
	})

	parallel.ForParallel(m.grid.Volume, func(ci int) {
		if !inner[ci] {
			return
		}
		h := m.cellPkg[ci]
		pkg := m.pkg(h)
		if pkg.singular {
			x, y, z := m.grid.Coords(ci)
			h, pkg = m.createDataPackage(x, y, z)
		}
		pkg.isInner = true
		m.mu.Lock()
		m.innerHandles = append(m.innerHandles, h)
		m.mu.Unlock()
	})
}

// wirePackageAddresses caches the 3x3x3 neighborhood handles of an inner
// package so later passes resolve halo reads without re-deriving offsets.
func (m *Mesh) wirePackageAddresses(h Handle) {
	pkg := m.pkg(h)
	for dz := -1; dz <= 1; dz++ {
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				x, y, z := m.grid.Clamp(
					pkg.cellIdx[0]+dx, pkg.cellIdx[1]+dy, pkg.cellIdx[2]+dz,
				)
				pkg.nbr[dx+1][dy+1][dz+1] = m.cellPkg[m.grid.Idx(x, y, z)]
			}
		}
	}
}

// phiAtGlobalDataIndex reads phi at a mesh-global sub-cell index, resolving
// singular cells to their constant. Indices beyond the buffered grid clamp
// to its edge.
func (m *Mesh) phiAtGlobalDataIndex(gi, gj, gk int) float64 {
	max0 := m.grid.Width[0]*PkgSize - 1
	max1 := m.grid.Width[1]*PkgSize - 1
	max2 := m.grid.Width[2]*PkgSize - 1
	gi = clampInt(gi, 0, max0)
	gj = clampInt(gj, 0, max1)
	gk = clampInt(gk, 0, max2)

	cx, cy, cz := gi/PkgSize, gj/PkgSize, gk/PkgSize
	pkg := m.pkg(m.cellPkg[m.grid.Idx(cx, cy, cz)])
	if pkg.singular {
		return pkg.phi[0]
	}
	return pkg.phi[dataIdx(gi-cx*PkgSize, gj-cy*PkgSize, gk-cz*PkgSize)]
}

// globalDataPosition returns the position of a mesh-global sub-cell index.
func (m *Mesh) globalDataPosition(gi, gj, gk int) geom.Vec {
	return geom.Vec{
		m.lowerBound[0] + (float64(gi)+0.5)*m.dataSpacing,
		m.lowerBound[1] + (float64(gj)+0.5)*m.dataSpacing,
		m.lowerBound[2] + (float64(gk)+0.5)*m.dataSpacing,
	}
}

func clampInt(x, lo, hi int) int {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// UpdateNormalDirection recomputes the normalized normals of every inner
// package.
func (m *Mesh) UpdateNormalDirection() {
	parallel.ForParallel(len(m.innerHandles), func(i int) {
		m.pkg(m.innerHandles[i]).computeNormalDirection(m)
	})
}

// UpdateNoneNormalizedNormalDirection recomputes the raw phi gradients of
// every inner package.
func (m *Mesh) UpdateNoneNormalizedNormalDirection() {
	parallel.ForParallel(len(m.innerHandles), func(i int) {
		m.pkg(m.innerHandles[i]).computeNoneNormalizedNormalDirection(m)
	})
}

// UpdateKernelIntegrals recomputes the kernel weight and kernel gradient
// integrals of every inner package.
func (m *Mesh) UpdateKernelIntegrals() {
	parallel.ForParallel(len(m.innerHandles), func(i int) {
		m.pkg(m.innerHandles[i]).computeKernelIntegrals(m)
	})
}

// MarkNearInterface retags cut cells over the core packages, where the
// interface is locally present. Near-zero distances are nudged first so that
// the sign comparisons of the tagging pass never tie.
func (m *Mesh) MarkNearInterface() {
	smallShift := m.smallShiftFactor * m.dataSpacing
	parallel.ForParallel(len(m.coreHandles), func(i int) {
		m.pkg(m.coreHandles[i]).nudgeNearZero(smallShift)
	})
	parallel.ForParallel(len(m.coreHandles), func(i int) {
		m.pkg(m.coreHandles[i]).tagNearInterface(m)
	})
}

// RedistanceInterface locally rebuilds phi at the tagged cut cells of core
// packages, removing the numerical residue previous deformation left near
// the interface.
func (m *Mesh) RedistanceInterface() {
	parallel.ForParallel(len(m.coreHandles), func(i int) {
		m.pkg(m.coreHandles[i]).computeRedistance(m)
	})
	parallel.ForParallel(len(m.coreHandles), func(i int) {
		m.pkg(m.coreHandles[i]).applyScratch()
	})
}

// ReinitializeLevelSet relaxes phi toward a unit gradient norm over the
// whole inner band with a fixed sweep budget. Each sweep is two barriers:
// every package first computes its update from the current phi, then all
// updates commit.
func (m *Mesh) ReinitializeLevelSet() {
	for sweep := 0; sweep < reinitializationSweeps; sweep++ {
		parallel.ForParallel(len(m.innerHandles), func(i int) {
			m.pkg(m.innerHandles[i]).computeReinitialization(m)
		})
		parallel.ForParallel(len(m.innerHandles), func(i int) {
			m.pkg(m.innerHandles[i]).applyScratch()
		})
	}
}

// CleanInterface is the composite maintenance cycle run when the geometry
// changes: retag the interface, redistance it, reinitialize the band, then
// refresh normals and kernel integrals.
func (m *Mesh) CleanInterface() {
	m.MarkNearInterface()
	m.RedistanceInterface()
	m.ReinitializeLevelSet()
	m.UpdateNormalDirection()
	m.UpdateKernelIntegrals()
}

// resolvePackage returns the package owning the cell that contains p.
func (m *Mesh) resolvePackage(p geom.Vec) *DataPackage {
	x, y, z := m.cellIndexFromPosition(p)
	x, y, z = m.grid.Clamp(x, y, z)
	return m.pkg(m.cellPkg[m.grid.Idx(x, y, z)])
}

// probeScalar evaluates a scalar field at p by trilinear interpolation among
// the surrounding sub-cells. A singular package answers its constant.
func (m *Mesh) probeScalar(
	p geom.Vec, read func(pkg *DataPackage, idx int) float64,
) float64 {
	pkg := m.resolvePackage(p)
	if pkg.singular {
		return read(pkg, 0)
	}

	i0, j0, k0, fx, fy, fz := pkg.interpolationCell(p)
	sum := 0.0
	for dk := 0; dk <= 1; dk++ {
		for dj := 0; dj <= 1; dj++ {
			for di := 0; di <= 1; di++ {
				src, idx := pkg.resolve(m, i0+di, j0+dj, k0+dk)
				sum += read(src, idx) *
					weight1(fx, di) * weight1(fy, dj) * weight1(fz, dk)
			}
		}
	}
	return sum
}

// probeVector is the vector-field analogue of probeScalar.
func (m *Mesh) probeVector(
	p geom.Vec, read func(pkg *DataPackage, idx int) geom.Vec,
) geom.Vec {
	pkg := m.resolvePackage(p)
	if pkg.singular {
		return read(pkg, 0)
	}

	i0, j0, k0, fx, fy, fz := pkg.interpolationCell(p)
	var sum geom.Vec
	for dk := 0; dk <= 1; dk++ {
		for dj := 0; dj <= 1; dj++ {
			for di := 0; di <= 1; di++ {
				src, idx := pkg.resolve(m, i0+di, j0+dj, k0+dk)
				w := weight1(fx, di) * weight1(fy, dj) * weight1(fz, dk)
				sum = sum.Add(read(src, idx).Scale(w))
			}
		}
	}
	return sum
}

func weight1(f float64, d int) float64 {
	if d == 0 {
		return 1 - f
	}
	return f
}

// interpolationCell locates the sub-cell interval bracketing p and the
// fractional offsets within it. The lower corner may land one sub-cell into
// the halo.
func (pkg *DataPackage) interpolationCell(
	p geom.Vec,
) (i0, j0, k0 int, fx, fy, fz float64) {
	ux := (p[0]-pkg.lowerBound[0])/pkg.spacing - 0.5
	uy := (p[1]-pkg.lowerBound[1])/pkg.spacing - 0.5
	uz := (p[2]-pkg.lowerBound[2])/pkg.spacing - 0.5
	i0 = int(math.Floor(ux))
	j0 = int(math.Floor(uy))
	k0 = int(math.Floor(uz))
	return i0, j0, k0,
		ux - float64(i0), uy - float64(j0), uz - float64(k0)
}

// ProbeSignedDistance returns the interpolated signed distance at p.
// Callers must check ProbeIsWithinMeshBound first; probes outside that
// bound are unsupported.
func (m *Mesh) ProbeSignedDistance(p geom.Vec) float64 {
	return m.probeScalar(p, func(pkg *DataPackage, idx int) float64 {
		return pkg.phi[idx]
	})
}

// ProbeNormalDirection returns the interpolated interface normal at p.
func (m *Mesh) ProbeNormalDirection(p geom.Vec) geom.Vec {
	return m.probeVector(p, func(pkg *DataPackage, idx int) geom.Vec {
		return pkg.n[idx]
	})
}

// ProbeNoneNormalizedNormalDirection returns the interpolated raw phi
// gradient at p.
func (m *Mesh) ProbeNoneNormalizedNormalDirection(p geom.Vec) geom.Vec {
	return m.probeVector(p, func(pkg *DataPackage, idx int) geom.Vec {
		return pkg.noneNormalizedN[idx]
	})
}

// ProbeKernelIntegral returns the interpolated kernel weight integral at p.
func (m *Mesh) ProbeKernelIntegral(p geom.Vec) float64 {
	return m.probeScalar(p, func(pkg *DataPackage, idx int) float64 {
		return pkg.kernelWeight[idx]
	})
}

// ProbeKernelGradientIntegral returns the interpolated kernel gradient
// integral at p.
func (m *Mesh) ProbeKernelGradientIntegral(p geom.Vec) geom.Vec {
	return m.probeVector(p, func(pkg *DataPackage, idx int) geom.Vec {
		return pkg.kernelGradient[idx]
	})
}

// IsWithinCorePackage reports whether p falls in a cell where the interface
// was detected at this mesh's resolution.
func (m *Mesh) IsWithinCorePackage(p geom.Vec) bool {
	return m.resolvePackage(p).isCore
}

// ProbeIsWithinMeshBound reports whether p is far enough from every mesh
// face, at least two cells, for probes to be supported there.
func (m *Mesh) ProbeIsWithinMeshBound(p geom.Vec) bool {
	x, y, z := m.cellIndexFromPosition(p)
	c := [3]int{x, y, z}
	for i := 0; i < 3; i++ {
		if c[i] < 2 || c[i] > m.grid.Width[i]-2 {
			return false
		}
	}
	return true
}
