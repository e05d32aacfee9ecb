package records

import (
	"context"

	"github.com/agrosuite/agrosync/internal/syncx"
	"github.com/agrosuite/agrosync/internal/timex"
)

// Repository is the authoritative store for synchronizable rows.
type Repository interface {
	// Upsert inserts the row or overwrites all columns of an existing row
	// with the same id.
	Upsert(ctx context.Context, rec syncx.Record) error

	// GetMetaForUpdate reads the sync bookkeeping columns of a stored row
	// and locks the row until the surrounding transaction ends, so
	// concurrent pushes for the same id serialize. common.ErrorNotFound
	// when the row does not exist.
	GetMetaForUpdate(ctx context.Context, table, id string) (*syncx.Meta, error)

	// Get returns a full stored row, or common.ErrorNotFound.
	Get(ctx context.Context, table, id string) (syncx.Record, error)

	// ChangedSince returns, ordered by id, every row of the farm whose
	// updated_at is strictly after since, or whose tombstone timestamp is.
	ChangedSince(ctx context.Context, table, farmID string, since timex.Timestamp) ([]syncx.Record, error)
}
