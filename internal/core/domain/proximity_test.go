package domain_test

import (
	"math"
	"testing"

	"github.com/dmarroquin/warehousewatch/internal/core/domain"
)

var ref = domain.GeoPoint{Lat: 33.8303, Lon: -117.3289}

func fixtureWarehouses() []domain.Warehouse {
	return []domain.Warehouse{
		{ID: "far", Name: "Far DC", Location: domain.GeoPoint{Lat: 34.05, Lon: -118.24}},            // ~55 mi
		{ID: "near", Name: "Near DC", Location: domain.GeoPoint{Lat: 33.8297, Lon: -117.3253}},      // ~0.21 mi
		{ID: "mid", Name: "Mid DC", Location: domain.GeoPoint{Lat: 33.88, Lon: -117.40}},            // ~5.5 mi
		{ID: "edge", Name: "Edge DC", Location: domain.GeoPoint{Lat: 33.85, Lon: -117.35}},          // ~1.8 mi
		{ID: "same", Name: "Colocated DC", Location: domain.GeoPoint{Lat: 33.8303, Lon: -117.3289}}, // 0 mi
	}
}

func TestWithinRadius_FiltersAndSorts(t *testing.T) {
	out, err := domain.WithinRadius(ref, fixtureWarehouses(), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i, w := range out {
		if w.DistanceMiles == nil {
			t.Fatalf("warehouse %s has no computed distance", w.ID)
		}
		if *w.DistanceMiles > 10 {
			t.Errorf("warehouse %s outside radius: %v", w.ID, *w.DistanceMiles)
		}
		if i > 0 && *out[i-1].DistanceMiles > *w.DistanceMiles {
			t.Errorf("output not sorted ascending at index %d", i)
		}
	}

	for _, w := range out {
		if w.ID == "far" {
			t.Error("far warehouse should be outside the 10 mile radius")
		}
	}
	if out[0].ID != "same" {
		t.Errorf("closest warehouse should be colocated one, got %s", out[0].ID)
	}
}

func TestWithinRadius_WideIsSupersetOfTight(t *testing.T) {
	ws := fixtureWarehouses()

	tight, err := domain.WithinRadius(ref, ws, 2)
	if err != nil {
		t.Fatalf("tight: %v", err)
	}
	wide, err := domain.WithinRadius(ref, ws, 10)
	if err != nil {
		t.Fatalf("wide: %v", err)
	}

	wideIDs := map[string]bool{}
	for _, w := range wide {
		wideIDs[w.ID] = true
	}
	for _, w := range tight {
		if !wideIDs[w.ID] {
			t.Errorf("warehouse %s in 2 mi result but not in 10 mi result", w.ID)
		}
	}
	if len(wide) < len(tight) {
		t.Errorf("wide result smaller than tight: %d < %d", len(wide), len(tight))
	}
}

func TestWithinRadius_DefaultRadius(t *testing.T) {
	out, err := domain.WithinRadius(ref, fixtureWarehouses(), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Default is 2 miles: near, edge, same qualify; mid (~5.5 mi) does not.
	for _, w := range out {
		if w.ID == "mid" || w.ID == "far" {
			t.Errorf("warehouse %s should be outside the default 2 mile radius", w.ID)
		}
	}
	if len(out) != 3 {
		t.Errorf("expected 3 warehouses within default radius, got %d", len(out))
	}
}

func TestWithinRadius_DoesNotMutateInput(t *testing.T) {
	ws := fixtureWarehouses()
	if _, err := domain.WithinRadius(ref, ws, 10); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, w := range ws {
		if w.DistanceMiles != nil {
			t.Errorf("input warehouse %s was mutated", w.ID)
		}
	}
}

func TestWithinRadius_StableTieBreak(t *testing.T) {
	ws := []domain.Warehouse{
		{ID: "a", Location: ref},
		{ID: "b", Location: ref},
		{ID: "c", Location: ref},
	}
	out, err := domain.WithinRadius(ref, ws, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 3 || out[0].ID != "a" || out[1].ID != "b" || out[2].ID != "c" {
		t.Errorf("equal distances should keep input order, got %v", out)
	}
}

func TestWithinRadius_InvalidReference(t *testing.T) {
	_, err := domain.WithinRadius(domain.GeoPoint{Lat: math.NaN(), Lon: 0}, fixtureWarehouses(), 10)
	if err == nil {
		t.Error("expected error for NaN reference latitude")
	}

	_, err = domain.WithinRadius(domain.GeoPoint{Lat: 91, Lon: 0}, fixtureWarehouses(), 10)
	if err == nil {
		t.Error("expected error for out-of-range reference latitude")
	}
}

func TestWithinRadius_InvalidWarehouseCoordinates(t *testing.T) {
	ws := []domain.Warehouse{
		{ID: "bad", Location: domain.GeoPoint{Lat: 200, Lon: 0}},
	}
	_, err := domain.WithinRadius(ref, ws, 10)
	if err == nil {
		t.Error("expected error for out-of-range warehouse latitude")
	}
}
