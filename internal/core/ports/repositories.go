package ports

import (
	"context"

	"github.com/dmarroquin/warehousewatch/internal/core/domain"
)

// WarehouseRepository persists warehouse projects.
type WarehouseRepository interface {
	Upsert(ctx context.Context, w *domain.Warehouse) error
	UpsertBatch(ctx context.Context, ws []domain.Warehouse) error
	GetByID(ctx context.Context, id string) (*domain.Warehouse, error)
	List(ctx context.Context, status domain.Status) ([]domain.Warehouse, error)
	CountByStatus(ctx context.Context) (*domain.StatusCounts, error)
}

// DataSourceRepository persists the public data source catalog.
type DataSourceRepository interface {
	Upsert(ctx context.Context, ds *domain.DataSource) error
	GetByID(ctx context.Context, id string) (*domain.DataSource, error)
	List(ctx context.Context, category string) ([]domain.DataSource, error)
	RecordProbe(ctx context.Context, res *domain.ProbeResult) error
}
