package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/agrosuite/agrosync/internal/common"
	"github.com/agrosuite/agrosync/internal/dbx"
	"github.com/agrosuite/agrosync/internal/logging"
	"github.com/agrosuite/agrosync/internal/server/models"
	"github.com/agrosuite/agrosync/internal/server/repositories/repomanager"
	"github.com/agrosuite/agrosync/internal/syncx"
	"github.com/agrosuite/agrosync/internal/timex"
	"github.com/google/uuid"
)

// SyncService applies pushed batches and serves pulls. It owns the
// authoritative clock: every response carries a server_time the client must
// use as its next watermark basis.
type SyncService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
}

func NewSyncService(db *sql.DB, m repomanager.RepositoryManager, logger logging.Logger) *SyncService {
	return &SyncService{db: db, repomanager: m, logger: logger}
}

// Push applies a client batch. The whole batch commits or rolls back as one
// transaction; a malformed row is skipped without failing the batch, but a
// storage error aborts it.
//
// Rules applied per row:
//   - farm_id is forced to the request's farm, whatever the row claims
//   - missing created_at/updated_at default to server time
//   - last write wins: the row replaces a stored one only when its
//     updated_at is strictly newer
//
// Unknown tables in the payload are ignored. Re-pushing an already applied
// batch is a no-op, which is what makes client retries safe.
func (s *SyncService) Push(ctx context.Context, userID string, req *syncx.PushRequest) (*syncx.PushResponse, error) {
	if err := syncx.ValidateStruct(req); err != nil {
		return nil, common.ErrorValidation
	}

	if _, err := s.requireMembership(ctx, userID, req.FarmID); err != nil {
		return nil, err
	}

	// The audit row commits before the batch so a failed push still shows up.
	logEntry := &models.SyncLogEntry{
		ID:        uuid.NewString(),
		UserID:    userID,
		DeviceID:  req.DeviceID,
		StartedAt: timex.Now(),
		Status:    models.SyncStatusStarted,
	}
	if err := s.repomanager.SyncLog(s.db).Start(ctx, logEntry); err != nil {
		return nil, err
	}

	serverTime := timex.Now()
	applied := make(map[string]int)

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		recordsRepo := s.repomanager.Records(tx)

		for _, table := range syncx.Tables {
			for _, raw := range req.Payload[table] {
				rec, err := syncx.DecodeRecord(table, raw)
				if err != nil {
					s.logger.Warn(ctx, "skipping invalid row", "table", table, "error", err.Error())
					continue
				}

				m := rec.SyncMeta()
				m.FarmID = req.FarmID
				if m.CreatedAt.IsZero() {
					m.CreatedAt = serverTime
				}
				if m.UpdatedAt.IsZero() {
					m.UpdatedAt = serverTime
				}

				if err := syncx.Validate(rec); err != nil {
					s.logger.Warn(ctx, "skipping invalid row", "table", table, "id", m.ID, "error", err.Error())
					continue
				}

				stored, err := recordsRepo.GetMetaForUpdate(ctx, table, m.ID)
				if err != nil && !errors.Is(err, common.ErrorNotFound) {
					return err
				}

				if !syncx.ShouldApply(m, stored) {
					continue
				}
				if err := recordsRepo.Upsert(ctx, rec); err != nil {
					return err
				}
				applied[table]++
			}
		}
		return nil
	})

	status := models.SyncStatusOK
	if err != nil {
		status = models.SyncStatusFailed
	}
	if finErr := s.repomanager.SyncLog(s.db).Finish(ctx, logEntry.ID, status, timex.Now()); finErr != nil {
		s.logger.Error(ctx, "failed to finalize sync log", "id", logEntry.ID, "error", finErr.Error())
	}

	if err != nil {
		return nil, fmt.Errorf("push failed: %w", err)
	}

	return &syncx.PushResponse{OK: true, Applied: applied, ServerTime: serverTime}, nil
}

// Pull returns every row of the farm changed strictly after since.
func (s *SyncService) Pull(ctx context.Context, userID, farmID string, since timex.Timestamp) (*syncx.PullResponse, error) {
	if farmID == "" {
		return nil, common.ErrorValidation
	}

	if _, err := s.requireMembership(ctx, userID, farmID); err != nil {
		return nil, err
	}

	serverTime := timex.Now()
	payload := syncx.RowSet{}

	recordsRepo := s.repomanager.Records(s.db)
	for _, table := range syncx.Tables {
		recs, err := recordsRepo.ChangedSince(ctx, table, farmID, since)
		if err != nil {
			return nil, err
		}
		if len(recs) == 0 {
			continue
		}
		rows, err := syncx.EncodeRecords(recs)
		if err != nil {
			return nil, err
		}
		payload[table] = rows
	}

	return &syncx.PullResponse{OK: true, ServerTime: serverTime, Payload: payload}, nil
}

func (s *SyncService) requireMembership(ctx context.Context, userID, farmID string) (*models.Membership, error) {
	membership, err := s.repomanager.Farms(s.db).GetMembership(ctx, userID, farmID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFarmMember
		}
		return nil, err
	}
	return membership, nil
}
