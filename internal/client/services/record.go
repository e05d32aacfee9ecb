package services

import (
	"context"
	"fmt"

	"github.com/agrosuite/agrosync/internal/client/localdb"
	"github.com/agrosuite/agrosync/internal/client/repositories/records"
	"github.com/agrosuite/agrosync/internal/dbx"
	"github.com/agrosuite/agrosync/internal/syncx"
	"github.com/agrosuite/agrosync/internal/timex"
	"github.com/google/uuid"
)

func newRecordsRepo(db dbx.DBTX) records.Repository {
	return records.NewSQLiteRepository(db)
}

// RecordService is the local editing surface. Every mutation only touches
// the replica; changed rows reach the server on the next sync.
type RecordService interface {
	// Create fills in id and timestamps, validates and stores a new row.
	Create(ctx context.Context, rec syncx.Record) error

	// Update advances updated_at, validates and overwrites the stored row.
	Update(ctx context.Context, rec syncx.Record) error

	// Delete tombstones a row. The row keeps syncing so other replicas
	// learn about the deletion.
	Delete(ctx context.Context, table, id string) error

	Get(ctx context.Context, table, id string) (syncx.Record, error)
	ListActive(ctx context.Context, table string) ([]syncx.Record, error)
}

type recordService struct {
	repos *localdb.Repositories
	farms FarmService
}

func NewRecordService(repos *localdb.Repositories, farms FarmService) RecordService {
	return &recordService{repos: repos, farms: farms}
}

func (s *recordService) Create(ctx context.Context, rec syncx.Record) error {
	farmID, err := s.farms.ActiveFarmID(ctx)
	if err != nil {
		return err
	}

	m := rec.SyncMeta()
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	m.FarmID = farmID
	now := timex.Now()
	m.CreatedAt = now
	m.UpdatedAt = now

	if err := syncx.Validate(rec); err != nil {
		return err
	}
	if err := s.repos.Records.Upsert(ctx, rec); err != nil {
		return fmt.Errorf("saving error: %w", err)
	}
	return nil
}

func (s *recordService) Update(ctx context.Context, rec syncx.Record) error {
	m := rec.SyncMeta()

	stored, err := s.repos.Records.GetMeta(ctx, rec.Table(), m.ID)
	if err != nil {
		return err
	}
	m.FarmID = stored.FarmID
	m.CreatedAt = stored.CreatedAt
	m.UpdatedAt = timex.Now()

	if err := syncx.Validate(rec); err != nil {
		return err
	}
	if err := s.repos.Records.Upsert(ctx, rec); err != nil {
		return fmt.Errorf("saving error: %w", err)
	}
	return nil
}

func (s *recordService) Delete(ctx context.Context, table, id string) error {
	return s.repos.Records.SoftDelete(ctx, table, id, timex.Now())
}

func (s *recordService) Get(ctx context.Context, table, id string) (syncx.Record, error) {
	return s.repos.Records.Get(ctx, table, id)
}

func (s *recordService) ListActive(ctx context.Context, table string) ([]syncx.Record, error) {
	farmID, err := s.farms.ActiveFarmID(ctx)
	if err != nil {
		return nil, err
	}
	return s.repos.Records.ListActive(ctx, table, farmID)
}
