package main

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmarroquin/warehousewatch/internal/pkg/config"
)

const migrationsDir = "migrations"

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: migrate <up|status>")
	}

	cfg, err := config.Load("warehousewatch-migrate")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	if err := ensureTracking(ctx, pool); err != nil {
		log.Fatalf("migrations table: %v", err)
	}

	switch os.Args[1] {
	case "up":
		migrateUp(ctx, pool)
	case "status":
		printStatus(ctx, pool)
	default:
		log.Fatalf("unknown command: %s", os.Args[1])
	}
}

// ensureTracking creates the table recording which files have been applied.
func ensureTracking(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			filename   text PRIMARY KEY,
			applied_at timestamptz NOT NULL DEFAULT now()
		)
	`)
	return err
}

func appliedSet(ctx context.Context, pool *pgxpool.Pool) (map[string]bool, error) {
	rows, err := pool.Query(ctx, `SELECT filename FROM schema_migrations`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applied := map[string]bool{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		applied[name] = true
	}
	return applied, rows.Err()
}

// sqlFiles lists the .sql files under migrationsDir in lexical order, which
// is why the files carry numeric prefixes.
func sqlFiles() ([]string, error) {
	entries, err := os.ReadDir(migrationsDir)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sql") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

// migrateUp applies every pending file inside its own transaction, recording
// it in schema_migrations on success. A failed file stops the run and leaves
// earlier files applied.
func migrateUp(ctx context.Context, pool *pgxpool.Pool) {
	names, err := sqlFiles()
	if err != nil {
		log.Fatalf("list migrations: %v", err)
	}
	applied, err := appliedSet(ctx, pool)
	if err != nil {
		log.Fatalf("read applied migrations: %v", err)
	}

	ran := 0
	for _, name := range names {
		if applied[name] {
			continue
		}

		sql, err := os.ReadFile(filepath.Join(migrationsDir, name))
		if err != nil {
			log.Fatalf("read %s: %v", name, err)
		}

		tx, err := pool.Begin(ctx)
		if err != nil {
			log.Fatalf("begin %s: %v", name, err)
		}
		if _, err := tx.Exec(ctx, string(sql)); err != nil {
			_ = tx.Rollback(ctx)
			log.Fatalf("exec %s: %v", name, err)
		}
		if _, err := tx.Exec(ctx, `INSERT INTO schema_migrations (filename) VALUES ($1)`, name); err != nil {
			_ = tx.Rollback(ctx)
			log.Fatalf("record %s: %v", name, err)
		}
		if err := tx.Commit(ctx); err != nil {
			log.Fatalf("commit %s: %v", name, err)
		}

		log.Printf("applied %s", name)
		ran++
	}

	if ran == 0 {
		log.Println("nothing to apply")
		return
	}
	log.Printf("done: %d applied", ran)
}

func printStatus(ctx context.Context, pool *pgxpool.Pool) {
	names, err := sqlFiles()
	if err != nil {
		log.Fatalf("list migrations: %v", err)
	}
	applied, err := appliedSet(ctx, pool)
	if err != nil {
		log.Fatalf("read applied migrations: %v", err)
	}

	for _, name := range names {
		state := "pending"
		if applied[name] {
			state = "applied"
		}
		log.Printf("%-8s %s", state, name)
	}
}
