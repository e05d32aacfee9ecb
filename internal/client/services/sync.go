package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/agrosuite/agrosync/internal/client/httpclient"
	"github.com/agrosuite/agrosync/internal/client/localdb"
	"github.com/agrosuite/agrosync/internal/client/repositories/meta"
	"github.com/agrosuite/agrosync/internal/common"
	"github.com/agrosuite/agrosync/internal/dbx"
	"github.com/agrosuite/agrosync/internal/logging"
	"github.com/agrosuite/agrosync/internal/syncx"
	"github.com/agrosuite/agrosync/internal/timex"
)

// SyncState names the phase a sync session is in. Exposed for progress
// reporting in the CLI.
type SyncState string

const (
	StateIdle      SyncState = "IDLE"
	StatePushing   SyncState = "PUSHING"
	StatePulling   SyncState = "PULLING"
	StateApplying  SyncState = "APPLYING"
	StateAdvancing SyncState = "ADVANCING"
	StateFailed    SyncState = "FAILED"
)

// SyncSummary reports what a completed session did.
type SyncSummary struct {
	Pushed        int
	AppliedRemote map[string]int
	Pulled        int
	AppliedLocal  int
	Watermark     timex.Timestamp
}

// SyncService runs full push+pull sessions against the server. A session
// either completes and advances the watermark, or fails and leaves the
// watermark untouched so the next session retries the same window.
type SyncService interface {
	Sync(ctx context.Context) (*SyncSummary, error)
	State() SyncState
}

type syncService struct {
	client httpclient.Client
	repos  *localdb.Repositories
	farms  FarmService
	logger logging.Logger

	running sync.Mutex

	stateMu sync.Mutex
	state   SyncState
}

func NewSyncService(client httpclient.Client, repos *localdb.Repositories, farms FarmService, logger logging.Logger) SyncService {
	return &syncService{
		client: client,
		repos:  repos,
		farms:  farms,
		logger: logger,
		state:  StateIdle,
	}
}

func (s *syncService) State() SyncState {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	return s.state
}

func (s *syncService) setState(st SyncState) {
	s.stateMu.Lock()
	s.state = st
	s.stateMu.Unlock()
}

// Sync runs one session: collect local changes since the watermark, push
// them, pull the server's changes over the same window, apply the winners
// locally and advance the watermark, all relative to server time.
//
// Only one session runs at a time; a second call while one is in flight
// fails fast with common.ErrorSyncInProgress.
func (s *syncService) Sync(ctx context.Context) (*SyncSummary, error) {
	if !s.running.TryLock() {
		return nil, common.ErrorSyncInProgress
	}
	defer s.running.Unlock()

	summary, err := s.run(ctx)
	if err != nil {
		s.setState(StateFailed)
		return nil, err
	}
	s.setState(StateIdle)
	return summary, nil
}

func (s *syncService) run(ctx context.Context) (*SyncSummary, error) {
	farmID, err := s.farms.ActiveFarmID(ctx)
	if err != nil {
		return nil, fmt.Errorf("no active farm: %w", err)
	}

	deviceID, err := s.repos.Meta.DeviceID(ctx)
	if err != nil {
		return nil, err
	}
	since, err := s.repos.Meta.LastSyncAt(ctx)
	if err != nil {
		return nil, err
	}

	// Local edits made after this instant belong to the next session.
	sessionStart := timex.Now()

	s.setState(StatePushing)

	payload, pushed, err := s.collectChanges(ctx, farmID, since)
	if err != nil {
		return nil, err
	}

	pushResult, err := s.client.Push(ctx, &syncx.PushRequest{
		FarmID:     farmID,
		DeviceID:   deviceID,
		LastSyncAt: since,
		Payload:    payload,
	})
	if err != nil {
		return nil, fmt.Errorf("push error: %w", err)
	}

	s.logger.Info(ctx, "push complete", "farm_id", farmID, "rows", pushed)

	s.setState(StatePulling)

	pullResult, err := s.client.Pull(ctx, farmID, since)
	if err != nil {
		return nil, fmt.Errorf("pull error: %w", err)
	}

	s.setState(StateApplying)

	// The watermark never moves past the session start. A later server
	// clock would hide local edits made while the session was running.
	watermark := pullResult.ServerTime
	if watermark.After(sessionStart) {
		watermark = sessionStart
	}
	// And it never moves backward. A server clock that stepped back must
	// widen the next pull window, not shrink the replica's.
	if since.After(watermark) {
		watermark = since
	}

	pulled, applied, err := s.applyPulled(ctx, pullResult.Payload, watermark)
	if err != nil {
		return nil, fmt.Errorf("apply error: %w", err)
	}

	s.logger.Info(ctx, "sync complete",
		"farm_id", farmID, "pushed", pushed, "pulled", pulled,
		"applied", applied, "watermark", watermark.String())

	return &SyncSummary{
		Pushed:        pushed,
		AppliedRemote: pushResult.Applied,
		Pulled:        pulled,
		AppliedLocal:  applied,
		Watermark:     watermark,
	}, nil
}

// collectChanges gathers every row changed since the watermark, grouped by
// table. Tables with no changes are left out of the payload.
func (s *syncService) collectChanges(ctx context.Context, farmID string, since timex.Timestamp) (syncx.RowSet, int, error) {
	payload := syncx.RowSet{}
	total := 0

	for _, table := range syncx.Tables {
		recs, err := s.repos.Records.ChangedSince(ctx, table, farmID, since)
		if err != nil {
			return nil, 0, err
		}
		if len(recs) == 0 {
			continue
		}
		rows, err := syncx.EncodeRecords(recs)
		if err != nil {
			return nil, 0, err
		}
		payload[table] = rows
		total += len(rows)
	}

	return payload, total, nil
}

// applyPulled writes the server's rows into the replica and advances the
// watermark, in one transaction. Per row, last write wins: an incoming row
// only replaces a stored one when its updated_at is strictly newer.
// Undecodable rows are logged and skipped; they must not wedge the session
// forever.
func (s *syncService) applyPulled(ctx context.Context, payload syncx.RowSet, watermark timex.Timestamp) (int, int, error) {
	pulled, applied := 0, 0

	err := dbx.WithTx(ctx, s.repos.DB, nil, func(ctx context.Context, tx dbx.DBTX) error {
		recordsRepo := newRecordsRepo(tx)

		for _, table := range syncx.Tables {
			for _, raw := range payload[table] {
				pulled++

				rec, err := syncx.DecodeRecord(table, raw)
				if err != nil {
					s.logger.Warn(ctx, "skipping undecodable row", "table", table, "error", err.Error())
					continue
				}

				stored, err := recordsRepo.GetMeta(ctx, table, rec.SyncMeta().ID)
				if err != nil && !errors.Is(err, common.ErrorNotFound) {
					return err
				}

				if !syncx.ShouldApply(rec.SyncMeta(), stored) {
					continue
				}
				if err := recordsRepo.Upsert(ctx, rec); err != nil {
					return err
				}
				applied++
			}
		}

		s.setState(StateAdvancing)
		return meta.NewSQLiteRepository(tx).SetLastSyncAt(ctx, watermark)
	})
	if err != nil {
		return 0, 0, err
	}

	return pulled, applied, nil
}
