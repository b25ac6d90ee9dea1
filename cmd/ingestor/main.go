package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	natsadapter "github.com/dmarroquin/warehousewatch/internal/adapters/nats"
	"github.com/dmarroquin/warehousewatch/internal/adapters/postgres"
	"github.com/dmarroquin/warehousewatch/internal/core/domain"
	"github.com/dmarroquin/warehousewatch/internal/core/mapping"
	"github.com/dmarroquin/warehousewatch/internal/core/ports"
	"github.com/dmarroquin/warehousewatch/internal/core/usecases"
	"github.com/dmarroquin/warehousewatch/internal/pkg/config"
	"github.com/dmarroquin/warehousewatch/internal/pkg/metrics"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: ingestor <dataset.json|url> [source-label]\n       ingestor catalog <sources.json>")
	}

	cfg, err := config.Load("warehousewatch-ingestor")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()

	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer db.Close()

	// Catalog seeding mode
	if os.Args[1] == "catalog" {
		if len(os.Args) < 3 {
			log.Fatal("usage: ingestor catalog <sources.json>")
		}
		seedCatalog(ctx, db, os.Args[2])
		return
	}

	// Warehouse dataset mode
	target := os.Args[1]
	source := sourceLabel(target)
	if len(os.Args) > 2 {
		source = os.Args[2]
	}

	raw, err := fetchDataset(target)
	if err != nil {
		log.Fatalf("fetch dataset: %v", err)
	}

	// NATS is optional for a one-shot ingest run. The interface stays nil
	// unless the connection actually succeeded.
	var events ports.EventPublisher
	if pub, err := natsadapter.NewPublisher(cfg.NATS.URL); err != nil {
		log.Printf("nats unavailable, skipping events: %v", err)
	} else {
		defer pub.Close()
		events = pub
	}

	repo := postgres.NewWarehouseRepo(db)
	svc := usecases.NewWarehouseService(repo, nil, events)
	mapper := usecases.NewMappingService()

	if err := ingestDataset(ctx, svc, mapper, raw, source); err != nil {
		log.Fatalf("ingest: %v", err)
	}
}

// ingestDataset runs the schema mapper over an external dataset, skips
// records without a usable name or coordinates, and upserts the rest.
func ingestDataset(ctx context.Context, svc *usecases.WarehouseService, mapper *usecases.MappingService, raw []byte, source string) error {
	outcomes, err := mapper.Preview(raw)
	if err != nil {
		return fmt.Errorf("map dataset: %w", err)
	}

	log.Printf("[%s] mapped %d records", source, len(outcomes))

	var keep []domain.Warehouse
	skipped := 0
	for i, o := range outcomes {
		logFieldReports(source, i, o)

		w := o.Warehouse
		if w.Name == "" || !hasCoordinates(o) {
			skipped++
			log.Printf("[%s] record %d skipped: missing %s", source, i, strings.Join(o.MissingFields, ", "))
			continue
		}
		w.Source = source
		keep = append(keep, w)
	}

	if err := svc.Ingest(ctx, keep); err != nil {
		return err
	}

	metrics.WarehousesIngested.WithLabelValues(source).Add(float64(len(keep)))
	log.Printf("[%s] done: %d upserted, %d skipped", source, len(keep), skipped)
	return nil
}

// hasCoordinates reports whether both latitude and longitude mapped.
func hasCoordinates(o mapping.Outcome) bool {
	lat, lon := false, false
	for _, rep := range o.FieldReports {
		switch rep.Field {
		case mapping.FieldLatitude:
			lat = rep.Mapped
		case mapping.FieldLongitude:
			lon = rep.Mapped
		}
	}
	return lat && lon
}

func logFieldReports(source string, idx int, o mapping.Outcome) {
	for _, rep := range o.FieldReports {
		switch {
		case rep.Mapped:
			log.Printf("[%s] record %d: %s <- %s (%s)", source, idx, rep.Field, rep.SourceField, rep.Transform)
		case rep.Generated:
			log.Printf("[%s] record %d: %s generated (%s)", source, idx, rep.Field, rep.Transform)
		default:
			log.Printf("[%s] record %d: %s unmapped, consulted %v", source, idx, rep.Field, rep.Consulted)
		}
		for _, issue := range rep.Issues {
			log.Printf("[%s] record %d: %s issue: %s", source, idx, rep.Field, issue)
		}
	}
	if len(o.UnmappedSourceFields) > 0 {
		log.Printf("[%s] record %d: unmapped source fields: %v", source, idx, o.UnmappedSourceFields)
	}
}

// seedCatalog upserts public data source catalog entries from a JSON file.
func seedCatalog(ctx context.Context, db *postgres.DB, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("read catalog: %v", err)
	}

	var sources []domain.DataSource
	if err := json.Unmarshal(data, &sources); err != nil {
		log.Fatalf("parse catalog: %v", err)
	}

	repo := postgres.NewDataSourceRepo(db)
	for i := range sources {
		if err := repo.Upsert(ctx, &sources[i]); err != nil {
			log.Fatalf("upsert %s: %v", sources[i].ID, err)
		}
		log.Printf("OK  %s (%s)", sources[i].ID, sources[i].Category)
	}
	log.Printf("catalog seeded: %d sources", len(sources))
}

// fetchDataset reads a local file or downloads from an HTTP(S) URL.
func fetchDataset(target string) ([]byte, error) {
	if strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://") {
		client := &http.Client{Timeout: 120 * time.Second}
		resp, err := client.Get(target)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("HTTP %d for %s", resp.StatusCode, target)
		}
		return io.ReadAll(resp.Body)
	}
	return os.ReadFile(target)
}

// sourceLabel derives a source name from a path or URL.
func sourceLabel(target string) string {
	s := target
	if i := strings.LastIndex(s, "/"); i >= 0 {
		s = s[i+1:]
	}
	s = strings.TrimSuffix(s, ".json")
	if s == "" {
		s = "unknown"
	}
	return s
}
