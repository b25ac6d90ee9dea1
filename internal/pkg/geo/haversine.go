package geo

import (
	"fmt"
	"math"
)

// EarthRadiusMiles is the mean Earth radius used for great-circle distances.
const EarthRadiusMiles = 3959.0

// DistanceMiles calculates the great-circle distance in miles between two
// points given in decimal degrees, using the Haversine formula.
func DistanceMiles(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusMiles * c
}

// ValidatePoint checks that a coordinate pair is finite and within the
// WGS 84 range. Out-of-range input would otherwise produce a plausible but
// wrong distance rather than a NaN, so callers must reject it up front.
func ValidatePoint(lat, lon float64) error {
	if math.IsNaN(lat) || math.IsInf(lat, 0) || math.IsNaN(lon) || math.IsInf(lon, 0) {
		return fmt.Errorf("coordinates must be finite, got (%v, %v)", lat, lon)
	}
	if lat < -90 || lat > 90 {
		return fmt.Errorf("latitude must be in [-90, 90], got %v", lat)
	}
	if lon < -180 || lon > 180 {
		return fmt.Errorf("longitude must be in [-180, 180], got %v", lon)
	}
	return nil
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
