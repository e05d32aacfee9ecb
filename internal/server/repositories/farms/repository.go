package farms

import (
	"context"

	"github.com/agrosuite/agrosync/internal/server/models"
)

// Repository covers farms together with their memberships and invite codes.
// They always change together, so they share one repository.
type Repository interface {
	CreateFarm(ctx context.Context, farm *models.Farm) error
	GetFarm(ctx context.Context, id string) (*models.Farm, error)

	CreateMembership(ctx context.Context, m *models.Membership) error
	// GetMembership returns common.ErrorNotFound when the user has no role
	// on the farm.
	GetMembership(ctx context.Context, userID, farmID string) (*models.Membership, error)
	ListUserFarms(ctx context.Context, userID string) ([]models.Farm, []models.Membership, error)

	CreateInvite(ctx context.Context, inv *models.FarmInvite) error
	GetInvite(ctx context.Context, code string) (*models.FarmInvite, error)
}
