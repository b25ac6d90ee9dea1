package domain

import (
	"time"
)

// Status classifies a warehouse project's construction/operational state.
type Status string

const (
	StatusUpcoming       Status = "upcoming"
	StatusInConstruction Status = "in-construction"
	StatusOperating      Status = "operating"
	StatusDormant        Status = "dormant"
)

// ValidStatus reports whether s is one of the four known lifecycle statuses.
func ValidStatus(s Status) bool {
	switch s {
	case StatusUpcoming, StatusInConstruction, StatusOperating, StatusDormant:
		return true
	}
	return false
}

// GeoPoint represents a geographic coordinate (WGS 84) in decimal degrees.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// DefaultReferencePoint is the fallback user location when no live position
// is available (Mira Loma, CA, the center of the covered area).
var DefaultReferencePoint = GeoPoint{Lat: 33.8303, Lon: -117.3289}

// Warehouse represents a warehouse or distribution-center project.
type Warehouse struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Address         string   `json:"address,omitempty"`
	Location        GeoPoint `json:"location"`
	Status          Status   `json:"status,omitempty"`
	ImpactStatement string   `json:"impact_statement,omitempty"`
	Source          string   `json:"source,omitempty"`

	// DistanceMiles is computed per proximity query, never persisted.
	DistanceMiles *float64 `json:"distance_miles,omitempty"`

	CreatedAt time.Time `json:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// StatusCounts holds per-status warehouse totals for the stats panel.
type StatusCounts struct {
	Total          int `json:"total"`
	Upcoming       int `json:"upcoming"`
	InConstruction int `json:"in_construction"`
	Operating      int `json:"operating"`
	Dormant        int `json:"dormant"`
}

// ProximityAlert is emitted when a warehouse is found within the tight
// alert radius of a user's position.
type ProximityAlert struct {
	WarehouseID   string    `json:"warehouse_id"`
	Name          string    `json:"name"`
	Status        Status    `json:"status"`
	DistanceMiles float64   `json:"distance_miles"`
	Reference     GeoPoint  `json:"reference"`
	DetectedAt    time.Time `json:"detected_at"`
}
