package syncx

import (
	"encoding/json"

	"github.com/agrosuite/agrosync/internal/timex"
)

// RowSet maps table names to wire rows. Rows stay raw until the receiving
// side decodes them per table, so unknown tables can be skipped without
// failing the whole payload.
type RowSet map[string][]json.RawMessage

// PushRequest is the body of POST /sync/push: every local change since the
// client's watermark, grouped per table.
type PushRequest struct {
	FarmID     string          `json:"farm_id" validate:"required"`
	DeviceID   string          `json:"device_id" validate:"required"`
	LastSyncAt timex.Timestamp `json:"last_sync_at"`
	Payload    RowSet          `json:"payload"`
}

// PushResponse reports how many rows were actually applied per table.
// ServerTime is the authoritative clock value both sides use as the new
// watermark basis; clients must never substitute their local clock.
type PushResponse struct {
	OK         bool            `json:"ok"`
	Applied    map[string]int  `json:"applied"`
	ServerTime timex.Timestamp `json:"server_time"`
}

// PullResponse carries every row changed on the server strictly after the
// requested watermark, scoped to the caller's farm.
type PullResponse struct {
	OK         bool            `json:"ok"`
	ServerTime timex.Timestamp `json:"server_time"`
	Payload    RowSet          `json:"payload"`
}
