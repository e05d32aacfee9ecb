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

// PostgresRepository implements Repository over a DBTX (either *sql.DB or
// *sql.Tx). SQL is generated from each table's spec so column order lives
// in one place.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// upsertQuery keeps the last-write-wins rule inside the statement itself:
// the update only fires for a strictly newer updated_at. FOR UPDATE in
// GetMetaForUpdate serializes writers for existing rows, but two first
// inserts of the same id can both miss the lock; the WHERE guard keeps the
// older of the two from winning the conflict. Timestamps are fixed-width
// ISO-8601 TEXT, so the string comparison is chronological.
func upsertQuery(spec syncx.TableSpec) string {
	placeholders := make([]string, len(spec.Columns))
	for i := range spec.Columns {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	sets := make([]string, 0, len(spec.Columns)-1)
	for _, c := range spec.Columns {
		if c == "id" {
			continue
		}
		sets = append(sets, fmt.Sprintf("%s = excluded.%s", c, c))
	}

	return fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s)
		ON CONFLICT(id) DO UPDATE SET %s
		WHERE excluded.updated_at > %s.updated_at`,
		spec.Name, strings.Join(spec.Columns, ", "), strings.Join(placeholders, ", "),
		strings.Join(sets, ", "), spec.Name)
}

func (r *PostgresRepository) Upsert(ctx context.Context, rec syncx.Record) error {
	spec, ok := syncx.Spec(rec.Table())
	if !ok {
		return fmt.Errorf("unknown table %q", rec.Table())
	}
	if _, err := r.db.ExecContext(ctx, upsertQuery(spec), rec.Values()...); err != nil {
		return fmt.Errorf("failed to upsert %s row: %w", spec.Name, err)
	}
	return nil
}

func (r *PostgresRepository) GetMetaForUpdate(ctx context.Context, table, id string) (*syncx.Meta, error) {
	if !syncx.IsSyncTable(table) {
		return nil, fmt.Errorf("unknown table %q", table)
	}

	query := fmt.Sprintf(`SELECT id, farm_id, created_at, updated_at, deleted_at FROM %s
		WHERE id = $1 FOR UPDATE`, table)

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

func (r *PostgresRepository) Get(ctx context.Context, table, id string) (syncx.Record, error) {
	spec, ok := syncx.Spec(table)
	if !ok {
		return nil, fmt.Errorf("unknown table %q", table)
	}

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, strings.Join(spec.Columns, ", "), spec.Name)

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

func (r *PostgresRepository) ChangedSince(ctx context.Context, table, farmID string, since timex.Timestamp) ([]syncx.Record, error) {
	spec, ok := syncx.Spec(table)
	if !ok {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT %s FROM %s
		WHERE farm_id = $1
		  AND (updated_at > $2 OR (deleted_at IS NOT NULL AND deleted_at > $3))
		ORDER BY id`, strings.Join(spec.Columns, ", "), spec.Name)

	rows, err := r.db.QueryContext(ctx, query, farmID, since, since)
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
