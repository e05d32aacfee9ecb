package synclog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/agrosuite/agrosync/internal/common"
	"github.com/agrosuite/agrosync/internal/dbx"
	"github.com/agrosuite/agrosync/internal/server/models"
	"github.com/agrosuite/agrosync/internal/timex"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Start(ctx context.Context, entry *models.SyncLogEntry) error {
	query :=
		`INSERT INTO sync_log (id, user_id, device_id, started_at, finished_at, status)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 `

	_, err := r.db.ExecContext(ctx, query,
		entry.ID, entry.UserID, entry.DeviceID, entry.StartedAt, entry.FinishedAt, entry.Status)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Finish(ctx context.Context, id, status string, finishedAt timex.Timestamp) error {
	query :=
		`UPDATE sync_log SET status = $1, finished_at = $2
		 WHERE id = $3
		 `

	res, err := r.db.ExecContext(ctx, query, status, finishedAt, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.SyncLogEntry, error) {
	query :=
		`SELECT id, user_id, device_id, started_at, finished_at, status FROM sync_log
		 WHERE id = $1
		 `

	entry := &models.SyncLogEntry{}
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&entry.ID, &entry.UserID, &entry.DeviceID, &entry.StartedAt, &entry.FinishedAt, &entry.Status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return entry, nil
}
