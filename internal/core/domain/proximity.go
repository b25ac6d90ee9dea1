package domain

import (
	"fmt"
	"sort"

	"github.com/dmarroquin/warehousewatch/internal/pkg/geo"
)

// DefaultAlertRadiusMiles is the tight radius used for proximity alerts.
const DefaultAlertRadiusMiles = 2.0

// MapViewRadiusMiles is the wide radius used to populate the map view.
const MapViewRadiusMiles = 10.0

// WithinRadius returns the warehouses within radiusMiles of ref, each
// annotated with its great-circle distance, ordered closest first. Equal
// distances keep their input order (stable sort). The input slice is not
// mutated; distances are recomputed on every call.
//
// A radius of zero or less falls back to DefaultAlertRadiusMiles. Invalid
// coordinates on the reference point or any warehouse are a contract
// violation and fail the whole call.
func WithinRadius(ref GeoPoint, warehouses []Warehouse, radiusMiles float64) ([]Warehouse, error) {
	if err := geo.ValidatePoint(ref.Lat, ref.Lon); err != nil {
		return nil, fmt.Errorf("reference point: %w", err)
	}
	if radiusMiles <= 0 {
		radiusMiles = DefaultAlertRadiusMiles
	}

	result := make([]Warehouse, 0, len(warehouses))
	for _, w := range warehouses {
		if err := geo.ValidatePoint(w.Location.Lat, w.Location.Lon); err != nil {
			return nil, fmt.Errorf("warehouse %s: %w", w.ID, err)
		}
		d := geo.DistanceMiles(ref.Lat, ref.Lon, w.Location.Lat, w.Location.Lon)
		if d > radiusMiles {
			continue
		}
		w.DistanceMiles = &d
		result = append(result, w)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return *result[i].DistanceMiles < *result[j].DistanceMiles
	})
	return result, nil
}
