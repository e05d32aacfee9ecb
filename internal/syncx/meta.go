package syncx

import "github.com/agrosuite/agrosync/internal/timex"

// Meta holds the sync bookkeeping columns every synchronizable row carries.
//
//   - ID is assigned once by whichever replica creates the row and never
//     changes. UUIDv4 keeps ids collision-resistant across disconnected
//     replicas.
//   - CreatedAt is set at first creation and never changed by sync.
//   - UpdatedAt advances on every local mutation, including soft delete.
//   - DeletedAt, when set, marks the row as a tombstone. Tombstones are
//     retained forever so deletions propagate to offline peers.
type Meta struct {
	ID        string              `json:"id" validate:"required,uuid4"`
	FarmID    string              `json:"farm_id"`
	CreatedAt timex.Timestamp     `json:"created_at"`
	UpdatedAt timex.Timestamp     `json:"updated_at"`
	DeletedAt timex.NullTimestamp `json:"deleted_at"`
}

// Deleted reports whether the row is a tombstone.
func (m *Meta) Deleted() bool {
	return m.DeletedAt.Valid
}

// metaColumns are the leading columns shared by every synchronizable table,
// in the order repositories read and write them.
var metaColumns = []string{"id", "farm_id", "created_at", "updated_at", "deleted_at"}

func (m *Meta) values() []any {
	return []any{m.ID, m.FarmID, m.CreatedAt, m.UpdatedAt, m.DeletedAt}
}

func (m *Meta) fields() []any {
	return []any{&m.ID, &m.FarmID, &m.CreatedAt, &m.UpdatedAt, &m.DeletedAt}
}
