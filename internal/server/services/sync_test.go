package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/agrosuite/agrosync/internal/common"
	"github.com/agrosuite/agrosync/internal/server/models"
	"github.com/agrosuite/agrosync/internal/syncx"
	"github.com/agrosuite/agrosync/internal/timex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Row ids must be UUIDv4 or validation drops the row before it is applied.
const (
	cattleID  = "5c2f7b57-34b5-4f6e-9f0a-1d2e3f4a5b6c"
	cattleID2 = "8a1b2c3d-4e5f-4a6b-8c9d-0e1f2a3b4c5d"
)

func setupSyncService(t *testing.T) (*fakeManager, *SyncService) {
	t.Helper()
	m := newFakeManager()
	svc := NewSyncService(testDB(t), m, discardLogger())
	member(m, "owner1", "farm1", models.RoleOwner)
	return m, svc
}

func ts(t *testing.T, s string) timex.Timestamp {
	t.Helper()
	v, err := timex.Parse(s)
	require.NoError(t, err)
	return v
}

func rawCattle(t *testing.T, c *syncx.Cattle) json.RawMessage {
	t.Helper()
	b, err := json.Marshal(c)
	require.NoError(t, err)
	return b
}

func pushReq(rows ...json.RawMessage) *syncx.PushRequest {
	return &syncx.PushRequest{
		FarmID:   "farm1",
		DeviceID: "device-abc",
		Payload:  syncx.RowSet{syncx.TableCattle: rows},
	}
}

func TestPush_AppliesRowsAndForcesFarmID(t *testing.T) {
	m, svc := setupSyncService(t)
	ctx := context.Background()

	at := ts(t, "2024-03-01T10:00:00Z")
	row := rawCattle(t, &syncx.Cattle{
		Meta: syncx.Meta{ID: cattleID, FarmID: "someone-elses-farm", CreatedAt: at, UpdatedAt: at},
		Tag:  "BR-001",
	})

	resp, err := svc.Push(ctx, "owner1", pushReq(row))
	require.NoError(t, err)
	assert.True(t, resp.OK)
	assert.Equal(t, 1, resp.Applied[syncx.TableCattle])

	stored, err := m.records.Get(ctx, syncx.TableCattle, cattleID)
	require.NoError(t, err)
	assert.Equal(t, "farm1", stored.SyncMeta().FarmID)
}

func TestPush_NonMemberRejected(t *testing.T) {
	_, svc := setupSyncService(t)

	_, err := svc.Push(context.Background(), "stranger", pushReq())
	assert.ErrorIs(t, err, common.ErrorNotFarmMember)
}

func TestPush_MissingFarmID(t *testing.T) {
	_, svc := setupSyncService(t)

	req := &syncx.PushRequest{DeviceID: "device-abc"}
	_, err := svc.Push(context.Background(), "owner1", req)
	assert.ErrorIs(t, err, common.ErrorValidation)
}

func TestPush_ZeroTimestampsDefaultToServerTime(t *testing.T) {
	m, svc := setupSyncService(t)
	ctx := context.Background()

	row := rawCattle(t, &syncx.Cattle{Meta: syncx.Meta{ID: cattleID}, Tag: "BR-001"})

	resp, err := svc.Push(ctx, "owner1", pushReq(row))
	require.NoError(t, err)

	stored, err := m.records.Get(ctx, syncx.TableCattle, cattleID)
	require.NoError(t, err)
	sm := stored.SyncMeta()
	assert.Equal(t, resp.ServerTime.String(), sm.CreatedAt.String())
	assert.Equal(t, resp.ServerTime.String(), sm.UpdatedAt.String())
}

func TestPush_StaleRowIgnored(t *testing.T) {
	m, svc := setupSyncService(t)
	ctx := context.Background()

	newer := ts(t, "2024-03-05T00:00:00Z")
	require.NoError(t, m.records.Upsert(ctx, &syncx.Cattle{
		Meta: syncx.Meta{ID: cattleID, FarmID: "farm1", CreatedAt: newer, UpdatedAt: newer},
		Tag:  "stored",
	}))

	older := ts(t, "2024-03-01T00:00:00Z")
	row := rawCattle(t, &syncx.Cattle{
		Meta: syncx.Meta{ID: cattleID, FarmID: "farm1", CreatedAt: older, UpdatedAt: older},
		Tag:  "stale",
	})

	resp, err := svc.Push(ctx, "owner1", pushReq(row))
	require.NoError(t, err)
	assert.Equal(t, 0, resp.Applied[syncx.TableCattle])

	stored, err := m.records.Get(ctx, syncx.TableCattle, cattleID)
	require.NoError(t, err)
	assert.Equal(t, "stored", stored.(*syncx.Cattle).Tag)
}

func TestPush_RepushIsNoop(t *testing.T) {
	_, svc := setupSyncService(t)
	ctx := context.Background()

	at := ts(t, "2024-03-01T10:00:00Z")
	row := rawCattle(t, &syncx.Cattle{
		Meta: syncx.Meta{ID: cattleID, FarmID: "farm1", CreatedAt: at, UpdatedAt: at},
		Tag:  "BR-001",
	})

	first, err := svc.Push(ctx, "owner1", pushReq(row))
	require.NoError(t, err)
	assert.Equal(t, 1, first.Applied[syncx.TableCattle])

	second, err := svc.Push(ctx, "owner1", pushReq(row))
	require.NoError(t, err)
	assert.Equal(t, 0, second.Applied[syncx.TableCattle])
}

func TestPush_InvalidRowSkippedWithoutFailingBatch(t *testing.T) {
	m, svc := setupSyncService(t)
	ctx := context.Background()

	at := ts(t, "2024-03-01T10:00:00Z")
	bad := rawCattle(t, &syncx.Cattle{
		Meta: syncx.Meta{ID: cattleID2, FarmID: "farm1", CreatedAt: at, UpdatedAt: at},
	}) // missing required tag
	good := rawCattle(t, &syncx.Cattle{
		Meta: syncx.Meta{ID: cattleID, FarmID: "farm1", CreatedAt: at, UpdatedAt: at},
		Tag:  "BR-002",
	})

	resp, err := svc.Push(ctx, "owner1", pushReq(bad, good))
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Applied[syncx.TableCattle])

	_, err = m.records.Get(ctx, syncx.TableCattle, cattleID2)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestPush_NonUUIDRowSkipped(t *testing.T) {
	m, svc := setupSyncService(t)
	ctx := context.Background()

	at := ts(t, "2024-03-01T10:00:00Z")
	row := rawCattle(t, &syncx.Cattle{
		Meta: syncx.Meta{ID: "cow-1", FarmID: "farm1", CreatedAt: at, UpdatedAt: at},
		Tag:  "BR-001",
	})

	resp, err := svc.Push(ctx, "owner1", pushReq(row))
	require.NoError(t, err)
	assert.Equal(t, 0, resp.Applied[syncx.TableCattle])

	_, err = m.records.Get(ctx, syncx.TableCattle, "cow-1")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestPush_SyncLogFinalized(t *testing.T) {
	m, svc := setupSyncService(t)
	ctx := context.Background()

	_, err := svc.Push(ctx, "owner1", pushReq())
	require.NoError(t, err)

	require.Len(t, m.syncLog.order, 1)
	entry := m.syncLog.entries[m.syncLog.order[0]]
	assert.Equal(t, models.SyncStatusOK, entry.Status)
	assert.Equal(t, "device-abc", entry.DeviceID)
	assert.True(t, entry.FinishedAt.Valid)
}

func TestPush_StorageErrorFailsBatchAndLog(t *testing.T) {
	m, svc := setupSyncService(t)
	ctx := context.Background()

	m.records.upsertErr = errors.New("disk full")

	at := ts(t, "2024-03-01T10:00:00Z")
	row := rawCattle(t, &syncx.Cattle{
		Meta: syncx.Meta{ID: cattleID, FarmID: "farm1", CreatedAt: at, UpdatedAt: at},
		Tag:  "BR-001",
	})

	_, err := svc.Push(ctx, "owner1", pushReq(row))
	require.Error(t, err)

	require.Len(t, m.syncLog.order, 1)
	entry := m.syncLog.entries[m.syncLog.order[0]]
	assert.Equal(t, models.SyncStatusFailed, entry.Status)
}

func TestPull_ReturnsChangesStrictlyAfterSince(t *testing.T) {
	m, svc := setupSyncService(t)
	ctx := context.Background()

	boundary := ts(t, "2024-03-01T00:00:00Z")
	after := ts(t, "2024-03-02T00:00:00Z")
	require.NoError(t, m.records.Upsert(ctx, &syncx.Cattle{
		Meta: syncx.Meta{ID: "at-boundary", FarmID: "farm1", CreatedAt: boundary, UpdatedAt: boundary},
		Tag:  "BR-001",
	}))
	require.NoError(t, m.records.Upsert(ctx, &syncx.Cattle{
		Meta: syncx.Meta{ID: "after", FarmID: "farm1", CreatedAt: after, UpdatedAt: after},
		Tag:  "BR-002",
	}))

	resp, err := svc.Pull(ctx, "owner1", "farm1", boundary)
	require.NoError(t, err)
	require.Len(t, resp.Payload[syncx.TableCattle], 1)

	rec, err := syncx.DecodeRecord(syncx.TableCattle, resp.Payload[syncx.TableCattle][0])
	require.NoError(t, err)
	assert.Equal(t, "after", rec.SyncMeta().ID)
}

func TestPull_NonMember(t *testing.T) {
	_, svc := setupSyncService(t)

	_, err := svc.Pull(context.Background(), "stranger", "farm1", timex.Timestamp{})
	assert.ErrorIs(t, err, common.ErrorNotFarmMember)
}

func TestPull_EmptyFarmID(t *testing.T) {
	_, svc := setupSyncService(t)

	_, err := svc.Pull(context.Background(), "owner1", "", timex.Timestamp{})
	assert.ErrorIs(t, err, common.ErrorValidation)
}
