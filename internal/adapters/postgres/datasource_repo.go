package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/dmarroquin/warehousewatch/internal/core/domain"
)

// DataSourceRepo implements ports.DataSourceRepository with pgx.
type DataSourceRepo struct {
	db *DB
}

// NewDataSourceRepo creates a new DataSourceRepo.
func NewDataSourceRepo(db *DB) *DataSourceRepo {
	return &DataSourceRepo{db: db}
}

// Upsert inserts or updates a catalog entry.
func (r *DataSourceRepo) Upsert(ctx context.Context, ds *domain.DataSource) error {
	_, err := r.db.Pool.Exec(ctx, `
		INSERT INTO data_sources (id, name, agency, category, endpoint, format,
		                          update_frequency, requires_auth, coverage_area, notes, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name, agency = EXCLUDED.agency,
		    category = EXCLUDED.category, endpoint = EXCLUDED.endpoint,
		    format = EXCLUDED.format, update_frequency = EXCLUDED.update_frequency,
		    requires_auth = EXCLUDED.requires_auth,
		    coverage_area = EXCLUDED.coverage_area,
		    notes = EXCLUDED.notes, active = EXCLUDED.active
	`, ds.ID, ds.Name, ds.Agency, ds.Category, ds.Endpoint, ds.Format,
		ds.UpdateFrequency, ds.RequiresAuth, ds.CoverageArea, ds.Notes, ds.Active)
	return err
}

const dataSourceColumns = `
	id, name, COALESCE(agency, ''), COALESCE(category, ''), COALESCE(endpoint, ''),
	COALESCE(format, ''), COALESCE(update_frequency, ''), requires_auth,
	COALESCE(coverage_area, ''), COALESCE(notes, ''), active,
	last_probed_at, last_status, last_latency_ms, reachable, created_at
`

// GetByID returns a catalog entry by ID.
func (r *DataSourceRepo) GetByID(ctx context.Context, id string) (*domain.DataSource, error) {
	var ds domain.DataSource
	err := r.db.Pool.QueryRow(ctx, `
		SELECT `+dataSourceColumns+` FROM data_sources WHERE id = $1
	`, id).Scan(
		&ds.ID, &ds.Name, &ds.Agency, &ds.Category, &ds.Endpoint,
		&ds.Format, &ds.UpdateFrequency, &ds.RequiresAuth,
		&ds.CoverageArea, &ds.Notes, &ds.Active,
		&ds.LastProbedAt, &ds.LastStatus, &ds.LastLatencyMs, &ds.Reachable, &ds.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("data source %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &ds, nil
}

// List returns catalog entries, optionally filtered by category.
func (r *DataSourceRepo) List(ctx context.Context, category string) ([]domain.DataSource, error) {
	query := `SELECT ` + dataSourceColumns + ` FROM data_sources`
	args := []any{}
	if category != "" {
		query += ` WHERE category = $1`
		args = append(args, category)
	}
	query += ` ORDER BY agency, name`

	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var dss []domain.DataSource
	for rows.Next() {
		var ds domain.DataSource
		if err := rows.Scan(
			&ds.ID, &ds.Name, &ds.Agency, &ds.Category, &ds.Endpoint,
			&ds.Format, &ds.UpdateFrequency, &ds.RequiresAuth,
			&ds.CoverageArea, &ds.Notes, &ds.Active,
			&ds.LastProbedAt, &ds.LastStatus, &ds.LastLatencyMs, &ds.Reachable, &ds.CreatedAt,
		); err != nil {
			return nil, err
		}
		dss = append(dss, ds)
	}
	return dss, rows.Err()
}

// RecordProbe stamps the latest probe outcome onto the catalog entry.
func (r *DataSourceRepo) RecordProbe(ctx context.Context, res *domain.ProbeResult) error {
	_, err := r.db.Pool.Exec(ctx, `
		UPDATE data_sources
		SET last_probed_at = $2, last_status = $3, last_latency_ms = $4, reachable = $5
		WHERE id = $1
	`, res.SourceID, res.ProbedAt, res.StatusCode, res.LatencyMs, res.Reachable)
	return err
}
