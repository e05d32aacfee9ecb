package syncx

import (
	"testing"

	"github.com/agrosuite/agrosync/internal/timex"
	"github.com/stretchr/testify/assert"
)

func metaAt(t *testing.T, updatedAt string) *Meta {
	t.Helper()
	ts, err := timex.Parse(updatedAt)
	if err != nil {
		t.Fatalf("bad timestamp %q: %v", updatedAt, err)
	}
	return &Meta{ID: "6f1b0d5e-0000-4000-8000-000000000001", UpdatedAt: ts}
}

func TestShouldApply_FirstWrite(t *testing.T) {
	incoming := metaAt(t, "2024-05-01T10:00:00Z")
	assert.True(t, ShouldApply(incoming, nil))
}

func TestShouldApply_StrictlyNewerWins(t *testing.T) {
	older := metaAt(t, "2024-05-01T10:00:00Z")
	newer := metaAt(t, "2024-05-01T10:00:01Z")

	assert.True(t, ShouldApply(newer, older))
	assert.False(t, ShouldApply(older, newer))
}

func TestShouldApply_TieKeepsStored(t *testing.T) {
	a := metaAt(t, "2024-05-01T10:00:00Z")
	b := metaAt(t, "2024-05-01T10:00:00Z")

	assert.False(t, ShouldApply(a, b), "equal updated_at must never replace the stored row")
}

func TestShouldApply_TombstoneBeatsOlderLiveRow(t *testing.T) {
	live := metaAt(t, "2024-05-01T10:00:00Z")

	tomb := metaAt(t, "2024-05-01T10:00:05Z")
	tomb.DeletedAt = timex.NullTimestamp{Time: tomb.UpdatedAt, Valid: true}

	assert.True(t, ShouldApply(tomb, live))
	assert.False(t, ShouldApply(live, tomb), "a newer tombstone must not be resurrected by an older live row")
}
