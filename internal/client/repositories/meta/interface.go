package meta

import (
	"context"

	"github.com/agrosuite/agrosync/internal/timex"
)

// Setting keys used by the client.
const (
	SettingActiveFarmID = "active_farm_id"
	SettingUserEmail    = "user_email"
	SettingAccessToken  = "access_token"
)

// Repository stores the replica's bookkeeping: its device identity, the
// sync watermark and simple key/value settings.
type Repository interface {
	// Init makes sure the local_meta row exists, generating a device id and
	// a zero watermark on first run.
	Init(ctx context.Context) error

	// DeviceID returns the replica's stable device identifier.
	DeviceID(ctx context.Context) (string, error)

	// LastSyncAt returns the replica watermark: everything at or before this
	// server-time instant is known reconciled.
	LastSyncAt(ctx context.Context) (timex.Timestamp, error)

	// SetLastSyncAt advances the watermark. Callers only invoke it after a
	// fully successful push+pull cycle, inside the same transaction that
	// applied the pulled rows.
	SetLastSyncAt(ctx context.Context, ts timex.Timestamp) error

	// GetSetting returns the value for key, or "" when unset.
	GetSetting(ctx context.Context, key string) (string, error)

	// SetSetting stores the value for key.
	SetSetting(ctx context.Context, key, value string) error

	// DeleteSetting removes a key.
	DeleteSetting(ctx context.Context, key string) error
}
