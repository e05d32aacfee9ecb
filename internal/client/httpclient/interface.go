// Package httpclient implements the HTTP transport between the client and
// the sync server. All methods speak JSON and map transport-level failures
// to the shared sentinel errors in internal/common.
package httpclient

import (
	"context"

	"github.com/agrosuite/agrosync/internal/syncx"
	"github.com/agrosuite/agrosync/internal/timex"
)

// User describes the authenticated account as returned by the server.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Farm describes a farm the server knows about.
type Farm struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Currency string `json:"currency"`
	Timezone string `json:"timezone"`
	Role     string `json:"role,omitempty"`
}

// Invite is a staff invitation code issued by a farm owner.
type Invite struct {
	Code      string          `json:"code"`
	FarmID    string          `json:"farm_id"`
	ExpiresAt timex.Timestamp `json:"expires_at"`
}

// PushResult is the server's answer to a push: per-table applied counts
// plus the server clock reading used to advance the watermark.
type PushResult struct {
	Applied    map[string]int
	ServerTime timex.Timestamp
}

// PullResult carries rows changed on the server since the watermark.
type PullResult struct {
	Payload    syncx.RowSet
	ServerTime timex.Timestamp
}

type Client interface {
	SetAccessToken(token string)
	Register(ctx context.Context, email, password, name string) error
	Login(ctx context.Context, email, password string) (string, error)
	Me(ctx context.Context) (*User, []Farm, error)
	CreateFarm(ctx context.Context, name, currency, timezone string) (*Farm, error)
	InviteStaff(ctx context.Context, farmID string) (*Invite, error)
	JoinFarm(ctx context.Context, code string) (*Farm, error)
	Push(ctx context.Context, req *syncx.PushRequest) (*PushResult, error)
	Pull(ctx context.Context, farmID string, since timex.Timestamp) (*PullResult, error)
	Ping(ctx context.Context) error
}
