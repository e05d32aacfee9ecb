package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/agrosuite/agrosync/internal/common"
	"github.com/agrosuite/agrosync/internal/dbx"
	"github.com/agrosuite/agrosync/internal/server/config"
	"github.com/agrosuite/agrosync/internal/server/models"
	"github.com/agrosuite/agrosync/internal/server/repositories/repomanager"
	"github.com/agrosuite/agrosync/internal/syncx"
	"github.com/agrosuite/agrosync/internal/timex"
	"github.com/google/uuid"
)

const inviteCodeBytes = 8

// FarmService manages farms, memberships and staff invites.
type FarmService struct {
	db                     *sql.DB
	repomanager            repomanager.RepositoryManager
	inviteValidityDuration time.Duration
}

func NewFarmService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *FarmService {
	return &FarmService{
		db:                     db,
		repomanager:            m,
		inviteValidityDuration: cfg.InviteValidityDuration,
	}
}

// Create makes a farm, an OWNER membership for the creator and the default
// cost categories, in one transaction.
func (s *FarmService) Create(ctx context.Context, userID, name, currency, timezone string) (*models.Farm, error) {
	if name == "" {
		return nil, common.ErrorValidation
	}
	if currency == "" {
		currency = "BRL"
	}
	if timezone == "" {
		timezone = "America/Sao_Paulo"
	}

	now := timex.Now()
	farm := &models.Farm{
		ID:          uuid.NewString(),
		Name:        name,
		OwnerUserID: userID,
		Currency:    currency,
		Timezone:    timezone,
		CreatedAt:   now,
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		farmsRepo := s.repomanager.Farms(tx)

		if err := farmsRepo.CreateFarm(ctx, farm); err != nil {
			return err
		}

		membership := &models.Membership{
			ID:        uuid.NewString(),
			UserID:    userID,
			FarmID:    farm.ID,
			Role:      models.RoleOwner,
			CreatedAt: now,
		}
		if err := farmsRepo.CreateMembership(ctx, membership); err != nil {
			return err
		}

		recordsRepo := s.repomanager.Records(tx)
		for _, dc := range syncx.DefaultCategories {
			cat := &syncx.Category{
				Meta: syncx.Meta{
					ID:        uuid.NewString(),
					FarmID:    farm.ID,
					CreatedAt: now,
					UpdatedAt: now,
				},
				Name:         dc.Name,
				IsDirectCost: dc.IsDirectCost,
			}
			if err := recordsRepo.Upsert(ctx, cat); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error creating farm: %w", err)
	}

	return farm, nil
}

// Invite issues a staff invite code. Only the farm OWNER may invite.
func (s *FarmService) Invite(ctx context.Context, userID, farmID string) (*models.FarmInvite, error) {
	membership, err := s.RequireMembership(ctx, userID, farmID)
	if err != nil {
		return nil, err
	}
	if membership.Role != models.RoleOwner {
		return nil, common.ErrorNotFarmMember
	}

	code, err := common.MakeRandHexString(inviteCodeBytes)
	if err != nil {
		return nil, err
	}

	now := timex.Now()
	invite := &models.FarmInvite{
		Code:            code,
		FarmID:          farmID,
		CreatedByUserID: userID,
		CreatedAt:       now,
		ExpiresAt:       timex.New(now.Add(s.inviteValidityDuration)),
	}

	if err := s.repomanager.Farms(s.db).CreateInvite(ctx, invite); err != nil {
		return nil, fmt.Errorf("error creating invite: %w", err)
	}
	return invite, nil
}

// Join exchanges a valid invite code for a STAFF membership. Joining a farm
// the user already belongs to is a no-op, so retried joins are safe.
func (s *FarmService) Join(ctx context.Context, userID, code string) (*models.Farm, error) {
	farmsRepo := s.repomanager.Farms(s.db)

	invite, err := farmsRepo.GetInvite(ctx, code)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorInviteInvalid
		}
		return nil, err
	}
	if timex.Now().After(invite.ExpiresAt) {
		return nil, common.ErrorInviteExpired
	}

	farm, err := farmsRepo.GetFarm(ctx, invite.FarmID)
	if err != nil {
		return nil, err
	}

	membership := &models.Membership{
		ID:        uuid.NewString(),
		UserID:    userID,
		FarmID:    farm.ID,
		Role:      models.RoleStaff,
		CreatedAt: timex.Now(),
	}
	if err := farmsRepo.CreateMembership(ctx, membership); err != nil {
		if !errors.Is(err, common.ErrorAlreadyExists) {
			return nil, err
		}
	}
	return farm, nil
}

func (s *FarmService) ListUserFarms(ctx context.Context, userID string) ([]models.Farm, []models.Membership, error) {
	return s.repomanager.Farms(s.db).ListUserFarms(ctx, userID)
}

// RequireMembership returns the caller's membership on the farm, or
// common.ErrorNotFarmMember. Access checks never leak whether the farm
// exists.
func (s *FarmService) RequireMembership(ctx context.Context, userID, farmID string) (*models.Membership, error) {
	membership, err := s.repomanager.Farms(s.db).GetMembership(ctx, userID, farmID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFarmMember
		}
		return nil, err
	}
	return membership, nil
}
