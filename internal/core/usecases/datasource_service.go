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

// DataSourceService manages the public data source catalog and reachability
// probing.
type DataSourceService struct {
	sources ports.DataSourceRepository
	prober  ports.Prober
	cache   ports.CacheService
}

// NewDataSourceService creates a new DataSourceService.
func NewDataSourceService(sources ports.DataSourceRepository, prober ports.Prober, cache ports.CacheService) *DataSourceService {
	return &DataSourceService{sources: sources, prober: prober, cache: cache}
}

// List returns catalog entries, optionally filtered by category.
func (s *DataSourceService) List(ctx context.Context, category string) ([]domain.DataSource, error) {
	cacheKey := "datasources:list:" + category
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var dss []domain.DataSource
			if err := json.Unmarshal(data, &dss); err == nil {
				metrics.CacheHits.WithLabelValues("datasources:list").Inc()
				return dss, nil
			}
		}
		metrics.CacheMisses.WithLabelValues("datasources:list").Inc()
	}

	dss, err := s.sources.List(ctx, category)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(dss); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, 600)
		}
	}

	return dss, nil
}

// GetByID returns a single catalog entry.
func (s *DataSourceService) GetByID(ctx context.Context, id string) (*domain.DataSource, error) {
	return s.sources.GetByID(ctx, id)
}

// Probe runs a GET-and-measure check against a source's endpoint, persists
// the outcome on the catalog entry, and invalidates the list cache.
func (s *DataSourceService) Probe(ctx context.Context, id string) (*domain.ProbeResult, error) {
	ds, err := s.sources.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ds.Endpoint == "" {
		return nil, fmt.Errorf("data source %s: %w", id, domain.ErrNoEndpoint)
	}

	start := time.Now()
	res := s.prober.Probe(ctx, ds.Endpoint)
	res.SourceID = ds.ID

	metrics.ProbeDuration.WithLabelValues(ds.Category).Observe(time.Since(start).Seconds())
	if !res.Reachable {
		metrics.ProbeFailures.WithLabelValues(ds.Category).Inc()
	}

	if err := s.sources.RecordProbe(ctx, &res); err != nil {
		return nil, fmt.Errorf("record probe: %w", err)
	}

	if s.cache != nil {
		_ = s.cache.Delete(ctx, "datasources:list:")
		_ = s.cache.Delete(ctx, "datasources:list:"+ds.Category)
	}

	return &res, nil
}
