package models

import "github.com/agrosuite/agrosync/internal/timex"

// Sync log statuses. A row is created STARTED and finalized exactly once.
const (
	SyncStatusStarted = "STARTED"
	SyncStatusOK      = "OK"
	SyncStatusFailed  = "FAILED"
)

type SyncLogEntry struct {
	ID         string
	UserID     string
	DeviceID   string
	StartedAt  timex.Timestamp
	FinishedAt timex.NullTimestamp
	Status     string
}
