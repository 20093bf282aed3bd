package adapt

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewDefaults(t *testing.T) {
	ad := New(0.1, 1)
	assert.Equal(t, Uniform, ad.Strategy)
	assert.InDelta(t, 0.13, ad.SmoothingLength(), 1e-12)
	assert.InDelta(t, 0.1, ad.CoarsestSpacing(), 1e-12)
	assert.NoError(t, ad.Validate())

	ad = New(0.1, 3)
	assert.Equal(t, LocalRefinement, ad.Strategy)
}

func TestShellSpacing(t *testing.T) {
	ad := New(0.1, 2)
	ad.Strategy = Shell
	ad.ShellThickness = 0.2
	assert.NoError(t, ad.Validate())
	assert.InDelta(t, 0.05, ad.CoarsestSpacing(), 1e-12)

	// A thick shell does not coarsen past the reference spacing.
	ad.ShellThickness = 10
	assert.InDelta(t, 0.1, ad.CoarsestSpacing(), 1e-12)
}

func TestValidate(t *testing.T) {
	ad := New(0.1, 2)
	ad.TotalLevels = 0
	assert.Error(t, ad.Validate())

	ad = New(-1, 1)
	assert.Error(t, ad.Validate())

	ad = New(0.1, 1)
	ad.Kernel = nil
	assert.Error(t, ad.Validate())

	ad = New(0.1, 1)
	ad.Strategy = Shell
	assert.Error(t, ad.Validate())
}
