// Package localdb opens the client's SQLite replica and keeps its schema
// current.
package localdb

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/agrosuite/agrosync/internal/client/migrations"
	"github.com/agrosuite/agrosync/internal/client/repositories/farms"
	"github.com/agrosuite/agrosync/internal/client/repositories/meta"
	"github.com/agrosuite/agrosync/internal/client/repositories/records"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

// Repositories bundles the replica's repositories together with the raw
// handle services need for transactions.
type Repositories struct {
	DB      *sql.DB
	Meta    meta.Repository
	Farms   farms.Repository
	Records records.Repository
}

// RunMigrations applies the embedded goose migrations to db.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	return goose.UpContext(ctx, db, ".")
}

// Open opens (creating if needed) the local replica at dsn, migrates it and
// seeds the local_meta row.
func Open(ctx context.Context, dsn string) (*Repositories, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open local database: %w", err)
	}

	if err := RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	metaRepo := meta.NewSQLiteRepository(db)
	if err := metaRepo.Init(ctx); err != nil {
		return nil, err
	}

	return &Repositories{
		DB:      db,
		Meta:    metaRepo,
		Farms:   farms.NewSQLiteRepository(db),
		Records: records.NewSQLiteRepository(db),
	}, nil
}

func (r *Repositories) Close() error {
	return r.DB.Close()
}
