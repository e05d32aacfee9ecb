package models

import "github.com/agrosuite/agrosync/internal/timex"

// Membership roles. OWNER can invite; both roles sync.
const (
	RoleOwner = "OWNER"
	RoleStaff = "STAFF"
)

type Farm struct {
	ID          string
	Name        string
	OwnerUserID string
	Currency    string
	Timezone    string
	CreatedAt   timex.Timestamp
}

type Membership struct {
	ID        string
	UserID    string
	FarmID    string
	Role      string
	CreatedAt timex.Timestamp
}

type FarmInvite struct {
	Code            string
	FarmID          string
	CreatedByUserID string
	CreatedAt       timex.Timestamp
	ExpiresAt       timex.Timestamp
}
