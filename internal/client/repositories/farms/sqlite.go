// Package farms stores the farms this replica knows about. Farms are not
// part of the synchronized payload; they arrive through the membership
// endpoints or are created locally before the first sync.
package farms

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/agrosuite/agrosync/internal/common"
	"github.com/agrosuite/agrosync/internal/dbx"
)

type Farm struct {
	ID       string
	Name     string
	Currency string
	Timezone string
}

type Repository interface {
	Upsert(ctx context.Context, f *Farm) error
	Get(ctx context.Context, id string) (*Farm, error)
	List(ctx context.Context) ([]Farm, error)
}

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Upsert(ctx context.Context, f *Farm) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO farms (id, name, currency, timezone) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name,
			currency = excluded.currency,
			timezone = excluded.timezone
	`, f.ID, f.Name, f.Currency, f.Timezone)
	if err != nil {
		return fmt.Errorf("failed to upsert farm: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Get(ctx context.Context, id string) (*Farm, error) {
	var f Farm
	err := r.db.QueryRowContext(ctx, `SELECT id, name, currency, timezone FROM farms WHERE id = ?`, id).
		Scan(&f.ID, &f.Name, &f.Currency, &f.Timezone)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read farm: %w", err)
	}
	return &f, nil
}

func (r *SQLiteRepository) List(ctx context.Context) ([]Farm, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, currency, timezone FROM farms ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list farms: %w", err)
	}
	defer rows.Close()

	var result []Farm
	for rows.Next() {
		var f Farm
		if err := rows.Scan(&f.ID, &f.Name, &f.Currency, &f.Timezone); err != nil {
			return nil, err
		}
		result = append(result, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
