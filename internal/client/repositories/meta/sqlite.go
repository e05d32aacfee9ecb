package meta

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/agrosuite/agrosync/internal/common"
	"github.com/agrosuite/agrosync/internal/dbx"
	"github.com/agrosuite/agrosync/internal/timex"
)

// SQLiteRepository implements Repository over the local_meta and settings
// tables.
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Init(ctx context.Context) error {
	deviceID, err := common.MakeRandHexString(8)
	if err != nil {
		return fmt.Errorf("failed to generate device id: %w", err)
	}

	// Epoch watermark: the first sync pulls everything.
	_, err = r.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO local_meta (id, device_id, last_sync_at) VALUES (1, ?, ?)
	`, "device-"+deviceID, timex.Timestamp{})
	if err != nil {
		return fmt.Errorf("failed to init local meta: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) DeviceID(ctx context.Context) (string, error) {
	var id string
	err := r.db.QueryRowContext(ctx, `SELECT device_id FROM local_meta WHERE id = 1`).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("failed to read device id: %w", err)
	}
	return id, nil
}

func (r *SQLiteRepository) LastSyncAt(ctx context.Context) (timex.Timestamp, error) {
	var ts timex.Timestamp
	err := r.db.QueryRowContext(ctx, `SELECT last_sync_at FROM local_meta WHERE id = 1`).Scan(&ts)
	if err != nil {
		return timex.Timestamp{}, fmt.Errorf("failed to read watermark: %w", err)
	}
	return ts, nil
}

func (r *SQLiteRepository) SetLastSyncAt(ctx context.Context, ts timex.Timestamp) error {
	_, err := r.db.ExecContext(ctx, `UPDATE local_meta SET last_sync_at = ? WHERE id = 1`, ts)
	if err != nil {
		return fmt.Errorf("failed to advance watermark: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetSetting(ctx context.Context, key string) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get setting[%s]: %w", key, err)
	}
	return value, nil
}

func (r *SQLiteRepository) SetSetting(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to set setting[%s]: %w", key, err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteSetting(ctx context.Context, key string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM settings WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("failed to delete setting[%s]: %w", key, err)
	}
	return nil
}
