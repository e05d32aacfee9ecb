package records

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/agrosuite/agrosync/internal/common"
	"github.com/agrosuite/agrosync/internal/dbx"
	"github.com/agrosuite/agrosync/internal/syncx"
	"github.com/agrosuite/agrosync/internal/timex"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or
// *sql.Tx). SQL is generated from each table's spec so column order lives
// in one place.
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func upsertQuery(spec syncx.TableSpec) string {
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(spec.Columns)), ", ")

	sets := make([]string, 0, len(spec.Columns)-1)
	for _, c := range spec.Columns {
		if c == "id" {
			continue
		}
		sets = append(sets, fmt.Sprintf("%s = excluded.%s", c, c))
	}

	return fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s)
		ON CONFLICT(id) DO UPDATE SET %s`,
		spec.Name, strings.Join(spec.Columns, ", "), placeholders, strings.Join(sets, ", "))
}

func (r *SQLiteRepository) Upsert(ctx context.Context, rec syncx.Record) error {
	spec, ok := syncx.Spec(rec.Table())
	if !ok {
		return fmt.Errorf("unknown table %q", rec.Table())
	}
	if _, err := r.db.ExecContext(ctx, upsertQuery(spec), rec.Values()...); err != nil {
		return fmt.Errorf("failed to upsert %s row: %w", spec.Name, err)
	}
	return nil
}

func (r *SQLiteRepository) GetMeta(ctx context.Context, table, id string) (*syncx.Meta, error) {
	if !syncx.IsSyncTable(table) {
		return nil, fmt.Errorf("unknown table %q", table)
	}

	query := fmt.Sprintf(`SELECT id, farm_id, created_at, updated_at, deleted_at FROM %s WHERE id = ?`, table)

	var m syncx.Meta
	err := r.db.QueryRowContext(ctx, query, id).Scan(&m.ID, &m.FarmID, &m.CreatedAt, &m.UpdatedAt, &m.DeletedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s meta: %w", table, err)
	}
	return &m, nil
}

func (r *SQLiteRepository) Get(ctx context.Context, table, id string) (syncx.Record, error) {
	spec, ok := syncx.Spec(table)
	if !ok {
		return nil, fmt.Errorf("unknown table %q", table)
	}

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = ?`, strings.Join(spec.Columns, ", "), spec.Name)

	rec := spec.New()
	err := r.db.QueryRowContext(ctx, query, id).Scan(rec.Fields()...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s row: %w", table, err)
	}
	return rec, nil
}

func (r *SQLiteRepository) ChangedSince(ctx context.Context, table, farmID string, since timex.Timestamp) ([]syncx.Record, error) {
	spec, ok := syncx.Spec(table)
	if !ok {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT %s FROM %s
		WHERE farm_id = ?
		  AND (updated_at > ? OR (deleted_at IS NOT NULL AND deleted_at > ?))
		ORDER BY id`, strings.Join(spec.Columns, ", "), spec.Name)

	return r.selectRecords(ctx, spec, query, farmID, since, since)
}

func (r *SQLiteRepository) ListActive(ctx context.Context, table, farmID string) ([]syncx.Record, error) {
	spec, ok := syncx.Spec(table)
	if !ok {
		return nil, fmt.Errorf("unknown table %q", table)
	}

	query := fmt.Sprintf(`SELECT %s FROM %s
		WHERE farm_id = ? AND deleted_at IS NULL
		ORDER BY id`, strings.Join(spec.Columns, ", "), spec.Name)

	return r.selectRecords(ctx, spec, query, farmID)
}

func (r *SQLiteRepository) SoftDelete(ctx context.Context, table, id string, at timex.Timestamp) error {
	if !syncx.IsSyncTable(table) {
		return fmt.Errorf("unknown table %q", table)
	}

	query := fmt.Sprintf(`UPDATE %s SET deleted_at = ?, updated_at = ? WHERE id = ?`, table)
	res, err := r.db.ExecContext(ctx, query, at, at, id)
	if err != nil {
		return fmt.Errorf("failed to soft-delete %s row: %w", table, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *SQLiteRepository) selectRecords(ctx context.Context, spec syncx.TableSpec, query string, args ...any) ([]syncx.Record, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select %s rows: %w", spec.Name, err)
	}
	defer rows.Close()

	var result []syncx.Record
	for rows.Next() {
		rec := spec.New()
		if err := rows.Scan(rec.Fields()...); err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", spec.Name, err)
		}
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
