package records

import (
	"context"

	"github.com/agrosuite/agrosync/internal/syncx"
	"github.com/agrosuite/agrosync/internal/timex"
)

// Repository is the client replica store for synchronizable rows. One
// implementation backed by the local SQLite database.
type Repository interface {
	// Upsert inserts the row or overwrites all columns of an existing row
	// with the same id. Batch atomicity is the caller's concern: wrap the
	// calls in dbx.WithTx.
	Upsert(ctx context.Context, rec syncx.Record) error

	// GetMeta returns the sync bookkeeping columns of a stored row, or
	// common.ErrorNotFound.
	GetMeta(ctx context.Context, table, id string) (*syncx.Meta, error)

	// Get returns a full stored row, or common.ErrorNotFound.
	Get(ctx context.Context, table, id string) (syncx.Record, error)

	// ChangedSince returns, ordered by id, every row of the farm whose
	// updated_at is strictly after since, or whose tombstone timestamp is.
	// Unknown tables yield an empty result, not an error.
	ChangedSince(ctx context.Context, table, farmID string, since timex.Timestamp) ([]syncx.Record, error)

	// ListActive returns the farm's non-deleted rows ordered by id.
	ListActive(ctx context.Context, table, farmID string) ([]syncx.Record, error)

	// SoftDelete tombstones a row, advancing updated_at and deleted_at to at.
	SoftDelete(ctx context.Context, table, id string, at timex.Timestamp) error
}
