package ports

import (
	"context"

	"github.com/dmarroquin/warehousewatch/internal/core/domain"
)

// EventPublisher publishes domain events to a message broker.
type EventPublisher interface {
	PublishWarehouseIngested(ctx context.Context, w *domain.Warehouse) error
	PublishProximityAlert(ctx context.Context, alert *domain.ProximityAlert) error
}

// CacheService provides read-through caching.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}

// Prober checks reachability of an external endpoint with a single GET,
// measuring latency. It never follows the response beyond its status.
type Prober interface {
	Probe(ctx context.Context, url string) domain.ProbeResult
}
