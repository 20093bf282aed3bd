package lsmesh

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/phil-mansfield/lsmesh/adapt"
	"github.com/phil-mansfield/lsmesh/geom"
	"github.com/phil-mansfield/lsmesh/levelset"
	"github.com/phil-mansfield/lsmesh/shape"
)

func TestNewSphereField(t *testing.T) {
	s := &shape.Sphere{Center: geom.Vec{}, Radius: 1}
	bounds := geom.BoundingBox{
		Lower: geom.Vec{-2, -2, -2}, Upper: geom.Vec{2, 2, 2},
	}

	mesh, err := New(bounds, s, adapt.New(0.125, 2))
	if err != nil {
		t.Fatalf("New: %s", err.Error())
	}
	var field Field = mesh
	field.CleanInterface()

	assert.True(t, field.ProbeIsWithinMeshBound(geom.Vec{1, 0, 0}))
	assert.Less(t, field.ProbeSignedDistance(geom.Vec{0.5, 0, 0}), 0.0)
	assert.Greater(t, field.ProbeSignedDistance(geom.Vec{1.5, 0, 0}), 0.0)
	assert.Greater(t,
		field.ProbeNormalDirection(geom.Vec{1, 0, 0})[0], 0.9)

	w, err := field.ProbeKernelIntegral(geom.Vec{1, 0, 0}, 1)
	assert.NoError(t, err)
	assert.Greater(t, w, 0.0)
	assert.Less(t, w, 1.0)

	// A resolution ratio finer than the hierarchy supports is a
	// configuration error.
	_, err = field.ProbeKernelIntegral(geom.Vec{1, 0, 0}, 0.25)
	var cfgErr *levelset.ConfigurationError
	assert.True(t, errors.As(err, &cfgErr))
}

func TestNewRejectsBadAdaptation(t *testing.T) {
	s := &shape.Sphere{Center: geom.Vec{}, Radius: 1}
	bounds := geom.BoundingBox{
		Lower: geom.Vec{-2, -2, -2}, Upper: geom.Vec{2, 2, 2},
	}

	ad := adapt.New(0.125, 2)
	ad.TotalLevels = 0
	_, err := New(bounds, s, ad)
	assert.Error(t, err)
}
