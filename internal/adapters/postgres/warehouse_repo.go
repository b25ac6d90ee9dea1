package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/dmarroquin/warehousewatch/internal/core/domain"
)

// WarehouseRepo implements ports.WarehouseRepository with pgx.
type WarehouseRepo struct {
	db *DB
}

// NewWarehouseRepo creates a new WarehouseRepo.
func NewWarehouseRepo(db *DB) *WarehouseRepo {
	return &WarehouseRepo{db: db}
}

const warehouseUpsert = `
	INSERT INTO warehouses (id, name, address, lat, lon, status, impact_statement, source)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	ON CONFLICT (id) DO UPDATE
	SET name = EXCLUDED.name, address = EXCLUDED.address,
	    lat = EXCLUDED.lat, lon = EXCLUDED.lon,
	    status = EXCLUDED.status,
	    impact_statement = EXCLUDED.impact_statement,
	    source = EXCLUDED.source,
	    updated_at = now()
`

// Upsert inserts or updates a single warehouse.
func (r *WarehouseRepo) Upsert(ctx context.Context, w *domain.Warehouse) error {
	_, err := r.db.Pool.Exec(ctx, warehouseUpsert,
		w.ID, w.Name, w.Address, w.Location.Lat, w.Location.Lon,
		string(w.Status), w.ImpactStatement, w.Source)
	return err
}

// UpsertBatch inserts many warehouses using pgx.Batch.
func (r *WarehouseRepo) UpsertBatch(ctx context.Context, ws []domain.Warehouse) error {
	batch := &pgx.Batch{}
	for _, w := range ws {
		batch.Queue(warehouseUpsert,
			w.ID, w.Name, w.Address, w.Location.Lat, w.Location.Lon,
			string(w.Status), w.ImpactStatement, w.Source)
	}
	br := r.db.Pool.SendBatch(ctx, batch)
	defer br.Close()
	for range ws {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("batch exec: %w", err)
		}
	}
	return nil
}

// GetByID returns a warehouse by ID.
func (r *WarehouseRepo) GetByID(ctx context.Context, id string) (*domain.Warehouse, error) {
	var w domain.Warehouse
	var status string
	err := r.db.Pool.QueryRow(ctx, `
		SELECT id, name, COALESCE(address, ''), lat, lon,
		       COALESCE(status, ''), COALESCE(impact_statement, ''),
		       COALESCE(source, ''), created_at, updated_at
		FROM warehouses WHERE id = $1
	`, id).Scan(
		&w.ID, &w.Name, &w.Address, &w.Location.Lat, &w.Location.Lon,
		&status, &w.ImpactStatement, &w.Source, &w.CreatedAt, &w.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("warehouse %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	w.Status = domain.Status(status)
	return &w, nil
}

// List returns warehouses, optionally filtered by lifecycle status,
// ordered by name for stable pagination.
func (r *WarehouseRepo) List(ctx context.Context, status domain.Status) ([]domain.Warehouse, error) {
	query := `
		SELECT id, name, COALESCE(address, ''), lat, lon,
		       COALESCE(status, ''), COALESCE(impact_statement, ''),
		       COALESCE(source, ''), created_at, updated_at
		FROM warehouses
	`
	args := []any{}
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, string(status))
	}
	query += ` ORDER BY name`

	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ws []domain.Warehouse
	for rows.Next() {
		var w domain.Warehouse
		var st string
		if err := rows.Scan(
			&w.ID, &w.Name, &w.Address, &w.Location.Lat, &w.Location.Lon,
			&st, &w.ImpactStatement, &w.Source, &w.CreatedAt, &w.UpdatedAt,
		); err != nil {
			return nil, err
		}
		w.Status = domain.Status(st)
		ws = append(ws, w)
	}
	return ws, rows.Err()
}

// CountByStatus returns per-status warehouse totals.
func (r *WarehouseRepo) CountByStatus(ctx context.Context) (*domain.StatusCounts, error) {
	var c domain.StatusCounts
	err := r.db.Pool.QueryRow(ctx, `
		SELECT count(*),
		       count(*) FILTER (WHERE status = 'upcoming'),
		       count(*) FILTER (WHERE status = 'in-construction'),
		       count(*) FILTER (WHERE status = 'operating'),
		       count(*) FILTER (WHERE status = 'dormant')
		FROM warehouses
	`).Scan(&c.Total, &c.Upcoming, &c.InConstruction, &c.Operating, &c.Dormant)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
