// Package geo provides pure geospatial arithmetic: great-circle distance
// and geofence containment. No state, no I/O.
package geo

import (
	"math"

	"social-service/internal/apperrors"
	"social-service/internal/models"
)

// EarthRadiusMeters is the mean Earth radius used by the Haversine formula.
const EarthRadiusMeters = 6371000.0

// Distance returns the great-circle distance in meters between two
// coordinates given in degrees. It is symmetric in its arguments and
// returns exactly 0 for identical coordinates.
func Distance(lat1, lon1, lat2, lon2 float64) (float64, error) {
	if !finite(lat1, lon1, lat2, lon2) {
		return 0, apperrors.ErrInvalidCoordinate
	}
	if lat1 == lat2 && lon1 == lon2 {
		return 0, nil
	}

	phi1 := radians(lat1)
	phi2 := radians(lat2)
	dPhi := radians(lat2 - lat1)
	dLambda := radians(lon2 - lon1)

	sinPhi := math.Sin(dPhi / 2)
	sinLambda := math.Sin(dLambda / 2)
	a := sinPhi*sinPhi + math.Cos(phi1)*math.Cos(phi2)*sinLambda*sinLambda

	// Floating point can push a just past 1 near the antipodes, which would
	// feed Sqrt a negative 1-a. Clamp before the inverse trig step.
	if a > 1 {
		a = 1
	} else if a < 0 {
		a = 0
	}

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusMeters * c, nil
}

// WithinGeofence reports whether the coordinate lies inside the fence.
// The boundary is inclusive: a point exactly at radius distance counts.
func WithinGeofence(lat, lon float64, fence models.Geofence) (bool, error) {
	if !finite(fence.Latitude, fence.Longitude, fence.Radius) {
		return false, apperrors.ErrInvalidCoordinate
	}
	d, err := Distance(lat, lon, fence.Latitude, fence.Longitude)
	if err != nil {
		return false, err
	}
	return d <= fence.Radius, nil
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

func finite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
