package geo_test

import (
	"math"
	"testing"

	"github.com/dmarroquin/warehousewatch/internal/pkg/geo"
)

func TestDistanceMiles_SamePoint(t *testing.T) {
	points := [][2]float64{
		{33.8303, -117.3289},
		{0, 0},
		{-90, 180},
	}
	for _, p := range points {
		if d := geo.DistanceMiles(p[0], p[1], p[0], p[1]); d != 0 {
			t.Errorf("distance between identical points (%v, %v) = %v, want 0", p[0], p[1], d)
		}
	}
}

func TestDistanceMiles_Symmetry(t *testing.T) {
	d1 := geo.DistanceMiles(33.8303, -117.3289, 34.0522, -118.2437)
	d2 := geo.DistanceMiles(34.0522, -118.2437, 33.8303, -117.3289)
	if d1 != d2 {
		t.Errorf("distance not symmetric: %v vs %v", d1, d2)
	}
}

func TestDistanceMiles_KnownDistance(t *testing.T) {
	// Two points in Mira Loma roughly 0.21 miles apart.
	d := geo.DistanceMiles(33.8303, -117.3289, 33.8297, -117.3253)
	if math.Abs(d-0.21) > 0.01 {
		t.Errorf("expected ~0.21 miles, got %v", d)
	}
}

func TestDistanceMiles_NonNegative(t *testing.T) {
	d := geo.DistanceMiles(-45.0, 170.0, 45.0, -170.0)
	if d < 0 || math.IsNaN(d) {
		t.Errorf("expected finite non-negative distance, got %v", d)
	}
}

func TestValidatePoint(t *testing.T) {
	cases := []struct {
		name    string
		lat     float64
		lon     float64
		wantErr bool
	}{
		{"valid", 33.83, -117.33, false},
		{"boundary", -90, 180, false},
		{"lat too high", 90.1, 0, true},
		{"lat too low", -91, 0, true},
		{"lon too high", 0, 181, true},
		{"lon too low", 0, -180.5, true},
		{"nan lat", math.NaN(), 0, true},
		{"inf lon", 0, math.Inf(1), true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := geo.ValidatePoint(tc.lat, tc.lon)
			if tc.wantErr && err == nil {
				t.Errorf("expected error for (%v, %v)", tc.lat, tc.lon)
			}
			if !tc.wantErr && err != nil {
				t.Errorf("unexpected error for (%v, %v): %v", tc.lat, tc.lon, err)
			}
		})
	}
}
