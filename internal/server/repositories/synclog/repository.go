package synclog

import (
	"context"

	"github.com/agrosuite/agrosync/internal/server/models"
	"github.com/agrosuite/agrosync/internal/timex"
)

// Repository is the push audit trail. Start is committed before the batch
// transaction so failed pushes stay visible.
type Repository interface {
	Start(ctx context.Context, entry *models.SyncLogEntry) error
	Finish(ctx context.Context, id, status string, finishedAt timex.Timestamp) error
	Get(ctx context.Context, id string) (*models.SyncLogEntry, error)
}
