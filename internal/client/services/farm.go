package services

import (
	"context"
	"fmt"

	"github.com/agrosuite/agrosync/internal/client/httpclient"
	"github.com/agrosuite/agrosync/internal/client/localdb"
	"github.com/agrosuite/agrosync/internal/client/repositories/farms"
	"github.com/agrosuite/agrosync/internal/client/repositories/meta"
	"github.com/agrosuite/agrosync/internal/common"
)

// FarmService manages farm membership and the active farm selection.
//
// Farms are created on the server first so memberships and invite codes
// have an authority; the created farm is then mirrored into the local
// farms table. The server seeds the default cost categories, which arrive
// with the first pull.
type FarmService interface {
	Create(ctx context.Context, name, currency, timezone string) (*farms.Farm, error)
	Invite(ctx context.Context, farmID string) (*httpclient.Invite, error)
	Join(ctx context.Context, code string) (*farms.Farm, error)
	List(ctx context.Context) ([]farms.Farm, error)
	SetActive(ctx context.Context, farmID string) error
	ActiveFarmID(ctx context.Context) (string, error)
}

type farmService struct {
	client httpclient.Client
	repos  *localdb.Repositories
}

func NewFarmService(client httpclient.Client, repos *localdb.Repositories) FarmService {
	return &farmService{client: client, repos: repos}
}

func (s *farmService) Create(ctx context.Context, name, currency, timezone string) (*farms.Farm, error) {
	remote, err := s.client.CreateFarm(ctx, name, currency, timezone)
	if err != nil {
		return nil, fmt.Errorf("farm creation error: %w", err)
	}

	// The server already seeded the default categories for this farm;
	// the first pull brings them in. Seeding here too would duplicate
	// every category, because sync resolves by id, not by name.
	farm := &farms.Farm{ID: remote.ID, Name: remote.Name, Currency: remote.Currency, Timezone: remote.Timezone}
	if err := s.repos.Farms.Upsert(ctx, farm); err != nil {
		return nil, err
	}

	if err := s.repos.Meta.SetSetting(ctx, meta.SettingActiveFarmID, farm.ID); err != nil {
		return nil, err
	}
	return farm, nil
}

func (s *farmService) Invite(ctx context.Context, farmID string) (*httpclient.Invite, error) {
	return s.client.InviteStaff(ctx, farmID)
}

// Join exchanges an invite code for a STAFF membership and mirrors the
// joined farm locally. The farm's rows arrive with the next sync.
func (s *farmService) Join(ctx context.Context, code string) (*farms.Farm, error) {
	remote, err := s.client.JoinFarm(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("join error: %w", err)
	}

	farm := &farms.Farm{ID: remote.ID, Name: remote.Name, Currency: remote.Currency, Timezone: remote.Timezone}
	if err := s.repos.Farms.Upsert(ctx, farm); err != nil {
		return nil, err
	}
	if err := s.repos.Meta.SetSetting(ctx, meta.SettingActiveFarmID, farm.ID); err != nil {
		return nil, err
	}
	return farm, nil
}

func (s *farmService) List(ctx context.Context) ([]farms.Farm, error) {
	return s.repos.Farms.List(ctx)
}

func (s *farmService) SetActive(ctx context.Context, farmID string) error {
	if _, err := s.repos.Farms.Get(ctx, farmID); err != nil {
		return err
	}
	return s.repos.Meta.SetSetting(ctx, meta.SettingActiveFarmID, farmID)
}

// ActiveFarmID returns the selected farm, or common.ErrorNotFound when the
// replica has not picked one yet.
func (s *farmService) ActiveFarmID(ctx context.Context) (string, error) {
	id, err := s.repos.Meta.GetSetting(ctx, meta.SettingActiveFarmID)
	if err != nil {
		return "", err
	}
	if id == "" {
		return "", common.ErrorNotFound
	}
	return id, nil
}
