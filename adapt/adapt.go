/*package adapt holds the resolution policy handed to level set mesh
construction: reference spacing, smoothing length, refinement depth, and the
kernel used for integral corrections.*/
package adapt

import (
	"fmt"

	"github.com/phil-mansfield/lsmesh/kernel"
)

// Strategy selects how mesh resolution adapts over the domain.
type Strategy int

const (
	// Uniform uses a single mesh level at the reference spacing.
	Uniform Strategy = iota
	// LocalRefinement refines the mesh near the interface, one halving of
	// the spacing per level.
	LocalRefinement
	// Shell refines around a thin structure: the hierarchy is built from a
	// reference spacing reduced to resolve the shell thickness.
	Shell
)

// String returns the name of the strategy.
func (s Strategy) String() string {
	switch s {
	case Uniform:
		return "Uniform"
	case LocalRefinement:
		return "LocalRefinement"
	case Shell:
		return "Shell"
	}
	return fmt.Sprintf("Strategy(%d)", int(s))
}

// Adaptation supplies the per-body resolution parameters consumed by mesh
// construction.
type Adaptation struct {
	Strategy Strategy
	// ReferenceSpacing is the coarsest data spacing of the hierarchy.
	ReferenceSpacing float64
	// SmoothingLengthRatio is the ratio of the reference smoothing length
	// to the reference spacing.
	SmoothingLengthRatio float64
	// SmallShiftFactor controls how far, in units of the data spacing,
	// near-zero distances are nudged before sign-sensitive tagging.
	SmallShiftFactor float64
	// TotalLevels is the number of mesh levels, coarsest included.
	TotalLevels int
	// ShellThickness is the resolved structure thickness used by the Shell
	// strategy. Ignored otherwise.
	ShellThickness float64

	Kernel kernel.Kernel
}

const (
	defaultSmoothingLengthRatio = 1.3
	defaultSmallShiftFactor     = 0.75
)

// New returns an Adaptation with the default smoothing length ratio, small
// shift factor, and a Wendland C2 kernel. A totalLevels of 1 selects the
// Uniform strategy.
func New(referenceSpacing float64, totalLevels int) *Adaptation {
	strategy := Uniform
	if totalLevels > 1 {
		strategy = LocalRefinement
	}
	return &Adaptation{
		Strategy:             strategy,
		ReferenceSpacing:     referenceSpacing,
		SmoothingLengthRatio: defaultSmoothingLengthRatio,
		SmallShiftFactor:     defaultSmallShiftFactor,
		TotalLevels:          totalLevels,
		Kernel: kernel.NewWendlandC2(
			defaultSmoothingLengthRatio * referenceSpacing,
		),
	}
}

// SmoothingLength returns the reference smoothing length.
func (ad *Adaptation) SmoothingLength() float64 {
	return ad.SmoothingLengthRatio * ad.ReferenceSpacing
}

// CoarsestSpacing returns the data spacing of the coarsest mesh level under
// the configured strategy.
func (ad *Adaptation) CoarsestSpacing() float64 {
	if ad.Strategy == Shell && ad.ShellThickness > 0 {
		// A shell needs roughly four cells across its thickness.
		spacing := ad.ShellThickness * 0.25
		if spacing < ad.ReferenceSpacing {
			return spacing
		}
	}
	return ad.ReferenceSpacing
}

// Validate returns an error describing the first invalid parameter, or nil.
func (ad *Adaptation) Validate() error {
	switch {
	case ad.ReferenceSpacing <= 0:
		return fmt.Errorf(
			"adapt: non-positive reference spacing %g", ad.ReferenceSpacing,
		)
	case ad.SmoothingLengthRatio <= 0:
		return fmt.Errorf(
			"adapt: non-positive smoothing length ratio %g",
			ad.SmoothingLengthRatio,
		)
	case ad.SmallShiftFactor <= 0 || ad.SmallShiftFactor >= 1:
		return fmt.Errorf(
			"adapt: small shift factor %g outside (0, 1)",
			ad.SmallShiftFactor,
		)
	case ad.TotalLevels < 1:
		return fmt.Errorf("adapt: total levels %d < 1", ad.TotalLevels)
	case ad.Strategy == Shell && ad.ShellThickness <= 0:
		return fmt.Errorf(
			"adapt: Shell strategy needs a positive shell thickness",
		)
	case ad.Kernel == nil:
		return fmt.Errorf("adapt: nil kernel")
	}
	return nil
}
