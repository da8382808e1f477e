package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"social-service/internal/apperrors"
	"social-service/internal/models"
)

func TestDistanceIdenticalCoordinatesIsZero(t *testing.T) {
	d, err := Distance(48.8566, 2.3522, 48.8566, 2.3522)
	require.NoError(t, err)
	assert.Equal(t, 0.0, d)
}

func TestDistanceIsSymmetric(t *testing.T) {
	pairs := [][4]float64{
		{48.8566, 2.3522, 40.7128, -74.0060},
		{-33.8688, 151.2093, 35.6762, 139.6503},
		{0, 0, 89.9, 179.9},
		{-89.9, -179.9, 89.9, 179.9},
	}
	for _, p := range pairs {
		ab, err := Distance(p[0], p[1], p[2], p[3])
		require.NoError(t, err)
		ba, err := Distance(p[2], p[3], p[0], p[1])
		require.NoError(t, err)
		assert.Equal(t, ab, ba)
	}
}

func TestDistanceKnownValue(t *testing.T) {
	// Paris to New York, roughly 5837 km.
	d, err := Distance(48.8566, 2.3522, 40.7128, -74.0060)
	require.NoError(t, err)
	assert.InDelta(t, 5_837_000, d, 10_000)
}

func TestDistanceAntipodesIsFinite(t *testing.T) {
	d, err := Distance(0, 0, 0, 180)
	require.NoError(t, err)
	require.False(t, math.IsNaN(d))
	assert.InDelta(t, math.Pi*EarthRadiusMeters, d, 1)
}

func TestDistanceNearPoles(t *testing.T) {
	d, err := Distance(90, 0, -90, 0)
	require.NoError(t, err)
	require.False(t, math.IsNaN(d))
	assert.InDelta(t, math.Pi*EarthRadiusMeters, d, 1)
}

func TestDistanceRejectsNonFiniteInput(t *testing.T) {
	for _, bad := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := Distance(bad, 0, 0, 0)
		assert.ErrorIs(t, err, apperrors.ErrInvalidCoordinate)
		_, err = Distance(0, 0, 0, bad)
		assert.ErrorIs(t, err, apperrors.ErrInvalidCoordinate)
	}
}

func TestWithinGeofenceZeroRadiusSelfContainment(t *testing.T) {
	fence := models.Geofence{Latitude: 51.5074, Longitude: -0.1278, Radius: 0}
	inside, err := WithinGeofence(51.5074, -0.1278, fence)
	require.NoError(t, err)
	assert.True(t, inside)
}

func TestWithinGeofenceBoundaryInclusive(t *testing.T) {
	fence := models.Geofence{Latitude: 0, Longitude: 0, Radius: 0}
	d, err := Distance(0.01, 0, 0, 0)
	require.NoError(t, err)

	fence.Radius = d
	inside, err := WithinGeofence(0.01, 0, fence)
	require.NoError(t, err)
	assert.True(t, inside)

	fence.Radius = d - 1
	inside, err = WithinGeofence(0.01, 0, fence)
	require.NoError(t, err)
	assert.False(t, inside)
}

func TestWithinGeofenceRejectsNonFiniteFence(t *testing.T) {
	fence := models.Geofence{Latitude: math.NaN(), Longitude: 0, Radius: 10}
	_, err := WithinGeofence(0, 0, fence)
	assert.ErrorIs(t, err, apperrors.ErrInvalidCoordinate)
}
