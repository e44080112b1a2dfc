package utils

import (
	"math"

	"greenguard-be/models"
)

// metersPerDegreeLat is the approximate length of one degree of latitude.
const metersPerDegreeLat = 111320.0

// DistanceMeters returns the approximate distance between two coordinates
// using an equirectangular projection. Accurate enough for the sub-5km
// ranges this system works with; symmetric and zero for identical points.
func DistanceMeters(a, b models.Location) float64 {
	latRad := (a.Lat + b.Lat) / 2 * math.Pi / 180
	dLat := (b.Lat - a.Lat) * metersPerDegreeLat
	dLng := (b.Lng - a.Lng) * metersPerDegreeLat * math.Cos(latRad)
	return math.Sqrt(dLat*dLat + dLng*dLng)
}

// Offset returns a coordinate approximately distanceMeters away from origin
// along bearingRadians (0 = north, increasing clockwise). Flat-earth
// approximation; longitude is scaled by cos(latitude) so east-west offsets
// don't stretch away from the equator.
func Offset(origin models.Location, distanceMeters, bearingRadians float64) models.Location {
	latDelta := distanceMeters * math.Cos(bearingRadians) / metersPerDegreeLat
	lngDelta := distanceMeters * math.Sin(bearingRadians) / (metersPerDegreeLat * math.Cos(origin.Lat*math.Pi/180))
	return models.Location{
		Lat: origin.Lat + latDelta,
		Lng: origin.Lng + lngDelta,
	}
}
