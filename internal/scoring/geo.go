// Package scoring implements the expert/request compatibility model: the
// great-circle distance helper, the six factor scorers and the weighted
// composer. Everything here is a pure function over its inputs; the
// package holds no state beyond the immutable weight and bonus tables.
package scoring

import "math"

// earthRadiusKm is the spherical-earth radius used by Distance.
const earthRadiusKm = 6371.0

// Distance returns the great-circle distance in kilometers between two
// points given in decimal degrees, rounded to two decimals. Out-of-range
// coordinates produce garbage values, never a panic.
func Distance(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := radians(lat2 - lat1)
	dLng := radians(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(radians(lat1))*math.Cos(radians(lat2))*
			math.Sin(dLng/2)*math.Sin(dLng/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return round2(earthRadiusKm * c)
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
