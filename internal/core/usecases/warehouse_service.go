package usecases

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dmarroquin/warehousewatch/internal/core/domain"
	"github.com/dmarroquin/warehousewatch/internal/core/ports"
	"github.com/dmarroquin/warehousewatch/internal/pkg/metrics"
)

// WarehouseService handles warehouse-related business logic.
type WarehouseService struct {
	warehouses ports.WarehouseRepository
	cache      ports.CacheService
	events     ports.EventPublisher
}

// NewWarehouseService creates a new WarehouseService.
func NewWarehouseService(warehouses ports.WarehouseRepository, cache ports.CacheService, events ports.EventPublisher) *WarehouseService {
	return &WarehouseService{warehouses: warehouses, cache: cache, events: events}
}

// List returns all warehouses, optionally filtered by lifecycle status.
// The unfiltered base list is cached; proximity results never are.
func (s *WarehouseService) List(ctx context.Context, status domain.Status) ([]domain.Warehouse, error) {
	if status != "" && !domain.ValidStatus(status) {
		return nil, fmt.Errorf("unknown status %q", status)
	}

	cacheKey := "warehouses:list:" + string(status)
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var ws []domain.Warehouse
			if err := json.Unmarshal(data, &ws); err == nil {
				metrics.CacheHits.WithLabelValues("warehouses:list").Inc()
				return ws, nil
			}
		}
		metrics.CacheMisses.WithLabelValues("warehouses:list").Inc()
	}

	ws, err := s.warehouses.List(ctx, status)
	if err != nil {
		return nil, err
	}

	// Cache for 5 minutes (the project catalog changes rarely)
	if s.cache != nil {
		if data, err := json.Marshal(ws); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, 300)
		}
	}

	return ws, nil
}

// Nearby returns the warehouses within radiusMiles of ref, annotated with
// distance and sorted closest first. Distances are computed fresh on every
// call; only the base list behind them may come from cache.
func (s *WarehouseService) Nearby(ctx context.Context, ref domain.GeoPoint, radiusMiles float64) ([]domain.Warehouse, error) {
	ws, err := s.List(ctx, "")
	if err != nil {
		return nil, err
	}
	return domain.WithinRadius(ref, ws, radiusMiles)
}

// CheckAlerts finds warehouses within the tight alert radius of ref and
// publishes a proximity alert event for each hit.
func (s *WarehouseService) CheckAlerts(ctx context.Context, ref domain.GeoPoint) ([]domain.Warehouse, error) {
	nearby, err := s.Nearby(ctx, ref, domain.DefaultAlertRadiusMiles)
	if err != nil {
		return nil, err
	}

	if s.events != nil {
		now := time.Now().UTC()
		for _, w := range nearby {
			alert := &domain.ProximityAlert{
				WarehouseID:   w.ID,
				Name:          w.Name,
				Status:        w.Status,
				DistanceMiles: *w.DistanceMiles,
				Reference:     ref,
				DetectedAt:    now,
			}
			_ = s.events.PublishProximityAlert(ctx, alert)
		}
	}

	return nearby, nil
}

// GetByID returns a single warehouse.
func (s *WarehouseService) GetByID(ctx context.Context, id string) (*domain.Warehouse, error) {
	cacheKey := "warehouses:id:" + id
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var w domain.Warehouse
			if err := json.Unmarshal(data, &w); err == nil {
				metrics.CacheHits.WithLabelValues("warehouses:id").Inc()
				return &w, nil
			}
		}
		metrics.CacheMisses.WithLabelValues("warehouses:id").Inc()
	}

	w, err := s.warehouses.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(w); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, 600)
		}
	}

	return w, nil
}

// Stats returns warehouse counts per lifecycle status.
func (s *WarehouseService) Stats(ctx context.Context) (*domain.StatusCounts, error) {
	return s.warehouses.CountByStatus(ctx)
}

// Ingest upserts mapped warehouses, invalidates the list cache, and
// publishes an ingest event per record.
func (s *WarehouseService) Ingest(ctx context.Context, ws []domain.Warehouse) error {
	if len(ws) == 0 {
		return nil
	}
	if err := s.warehouses.UpsertBatch(ctx, ws); err != nil {
		return fmt.Errorf("upsert batch: %w", err)
	}

	if s.cache != nil {
		for _, st := range []domain.Status{"", domain.StatusUpcoming, domain.StatusInConstruction, domain.StatusOperating, domain.StatusDormant} {
			_ = s.cache.Delete(ctx, "warehouses:list:"+string(st))
		}
	}

	if s.events != nil {
		for i := range ws {
			_ = s.events.PublishWarehouseIngested(ctx, &ws[i])
		}
	}
	return nil
}
