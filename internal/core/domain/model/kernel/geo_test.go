package kernel_test

import (
	"testing"

	"courierhub/internal/core/domain/model/kernel"
	"courierhub/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGeoPoint(t *testing.T) {
	t.Run("valid_coordinates", func(t *testing.T) {
		point, err := kernel.NewGeoPoint(-12.0464, -77.0428)

		require.NoError(t, err)
		assert.InDelta(t, -12.0464, point.Lat(), 0.000001)
		assert.InDelta(t, -77.0428, point.Lng(), 0.000001)
		require.NoError(t, point.Validate())
	})

	t.Run("boundary_coordinates_are_valid", func(t *testing.T) {
		cases := []struct {
			name     string
			lat, lng float64
		}{
			{"south_pole", -90, 0},
			{"north_pole", 90, 0},
			{"antimeridian_west", 0, -180},
			{"antimeridian_east", 0, 180},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := kernel.NewGeoPoint(tc.lat, tc.lng)
				require.NoError(t, err)
			})
		}
	})

	t.Run("out_of_range_coordinates_are_rejected", func(t *testing.T) {
		cases := []struct {
			name     string
			lat, lng float64
		}{
			{"latitude_too_high", 90.1, 0},
			{"latitude_too_low", -90.1, 0},
			{"longitude_too_high", 0, 180.1},
			{"longitude_too_low", 0, -180.1},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := kernel.NewGeoPoint(tc.lat, tc.lng)
				require.Error(t, err)
				require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
			})
		}
	})
}

func TestGeoPoint_Validate(t *testing.T) {
	t.Run("zero_value_fails_validation", func(t *testing.T) {
		var point kernel.GeoPoint

		err := point.Validate()

		require.Error(t, err)
		assert.Equal(t, kernel.ErrGeoPointIsNotConstructed, err)
	})
}

func TestGeoPoint_IsEqual(t *testing.T) {
	a, err := kernel.NewGeoPoint(1.5, 2.5)
	require.NoError(t, err)
	b, err := kernel.NewGeoPoint(1.5, 2.5)
	require.NoError(t, err)
	c, err := kernel.NewGeoPoint(1.5, 3.5)
	require.NoError(t, err)

	assert.True(t, a.IsEqual(b))
	assert.False(t, a.IsEqual(c))
}
