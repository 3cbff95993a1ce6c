// Package geo provides great-circle distance on a spherical Earth.
// Every distance-dependent query and score in the service goes through
// DistanceKm; there is no other haversine in the tree.
package geo

import "math"

// earthRadiusKm is the mean Earth radius used by the haversine formula.
const earthRadiusKm = 6371.0

// Unknown is the sentinel distance for undefined geography. It orders
// after every finite distance and earns no tier bonus.
var Unknown = math.Inf(1)

// IsUnknown reports whether d is the sentinel distance.
func IsUnknown(d float64) bool {
	return math.IsInf(d, 1)
}

// Finite reports whether every value is a finite number.
func Finite(vals ...float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// DistanceKm returns the haversine distance in kilometers between two
// coordinate pairs. Non-finite input yields Unknown rather than an
// error so missing locations degrade to "no bonus" downstream.
func DistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	if !Finite(lat1, lon1, lat2, lon2) {
		return Unknown
	}

	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
