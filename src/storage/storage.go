package storage

import (
	"context"
	"fmt"
	"log"

	"tally-server/src/config"
	"tally-server/src/db"
	pgstore "tally-server/src/db/sql"
	"tally-server/src/db/sqlite"
	"tally-server/src/services"
)

// Open connects the store selected by cfg.DatabaseDriver and brings its schema
// up to date. The returned func releases the connection.
func Open(ctx context.Context, cfg config.Config) (services.Store, func(), error) {
	switch cfg.DatabaseDriver {
	case config.DriverPostgres:
		pool, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		if err := db.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("failed to migrate postgres: %w", err)
		}
		log.Printf("INFO: Using postgres store")
		return pgstore.New(pool), pool.Close, nil
	case config.DriverSQLite:
		store, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open sqlite at %s: %w", cfg.SQLitePath, err)
		}
		log.Printf("INFO: Using sqlite store at %s", cfg.SQLitePath)
		return store, func() {
			if err := store.Close(); err != nil {
				log.Printf("ERROR: Failed to close sqlite store: %v", err)
			}
		}, nil
	default:
		return nil, nil, fmt.Errorf("unknown database driver %q", cfg.DatabaseDriver)
	}
}
