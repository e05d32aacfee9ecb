package services

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/agrosuite/agrosync/internal/client/httpclient"
	"github.com/agrosuite/agrosync/internal/client/localdb"
	"github.com/agrosuite/agrosync/internal/client/repositories/farms"
	"github.com/agrosuite/agrosync/internal/client/repositories/meta"
	"github.com/agrosuite/agrosync/internal/common"
	"github.com/agrosuite/agrosync/internal/logging"
	"github.com/agrosuite/agrosync/internal/syncx"
	"github.com/agrosuite/agrosync/internal/timex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClient is an in-memory transport double. Push requests are recorded;
// responses are whatever the test loads into it.
type fakeClient struct {
	pushReqs   []*syncx.PushRequest
	pushErr    error
	pullErr    error
	serverTime timex.Timestamp
	pullRows   syncx.RowSet

	pushStarted chan struct{}
	pushBlock   chan struct{}

	createdFarm *httpclient.Farm
}

func (f *fakeClient) SetAccessToken(string) {}

func (f *fakeClient) Register(context.Context, string, string, string) error { return nil }

func (f *fakeClient) Login(context.Context, string, string) (string, error) { return "", nil }

func (f *fakeClient) Me(context.Context) (*httpclient.User, []httpclient.Farm, error) {
	return nil, nil, nil
}

func (f *fakeClient) CreateFarm(context.Context, string, string, string) (*httpclient.Farm, error) {
	return f.createdFarm, nil
}

func (f *fakeClient) InviteStaff(context.Context, string) (*httpclient.Invite, error) {
	return nil, nil
}

func (f *fakeClient) JoinFarm(context.Context, string) (*httpclient.Farm, error) { return nil, nil }

func (f *fakeClient) Push(ctx context.Context, req *syncx.PushRequest) (*httpclient.PushResult, error) {
	if f.pushStarted != nil {
		close(f.pushStarted)
		<-f.pushBlock
	}
	if f.pushErr != nil {
		return nil, f.pushErr
	}
	f.pushReqs = append(f.pushReqs, req)
	return &httpclient.PushResult{Applied: map[string]int{}, ServerTime: f.serverTime}, nil
}

func (f *fakeClient) Pull(ctx context.Context, farmID string, since timex.Timestamp) (*httpclient.PullResult, error) {
	if f.pullErr != nil {
		return nil, f.pullErr
	}
	return &httpclient.PullResult{Payload: f.pullRows, ServerTime: f.serverTime}, nil
}

func (f *fakeClient) Ping(context.Context) error { return nil }

func testLogger() logging.Logger {
	return logging.NewTextLogger(io.Discard)
}

func setupSync(t *testing.T) (*localdb.Repositories, *fakeClient, SyncService) {
	t.Helper()
	ctx := context.Background()

	repos, err := localdb.Open(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = repos.Close() })

	require.NoError(t, repos.Farms.Upsert(ctx, &farms.Farm{ID: "farm1", Name: "Sítio A"}))
	require.NoError(t, repos.Meta.SetSetting(ctx, meta.SettingActiveFarmID, "farm1"))

	client := &fakeClient{serverTime: timex.Now()}
	farmSvc := NewFarmService(client, repos)
	syncSvc := NewSyncService(client, repos, farmSvc, testLogger())

	return repos, client, syncSvc
}

func mustParse(t *testing.T, s string) timex.Timestamp {
	t.Helper()
	v, err := timex.Parse(s)
	require.NoError(t, err)
	return v
}

func localCattle(t *testing.T, repos *localdb.Repositories, id, tag string, at timex.Timestamp) {
	t.Helper()
	rec := &syncx.Cattle{
		Meta: syncx.Meta{ID: id, FarmID: "farm1", CreatedAt: at, UpdatedAt: at},
		Tag:  tag,
	}
	require.NoError(t, repos.Records.Upsert(context.Background(), rec))
}

func encode(t *testing.T, recs ...syncx.Record) syncx.RowSet {
	t.Helper()
	out := syncx.RowSet{}
	for _, rec := range recs {
		rows, err := syncx.EncodeRecords([]syncx.Record{rec})
		require.NoError(t, err)
		out[rec.Table()] = append(out[rec.Table()], rows...)
	}
	return out
}

const cattleID = "0d4f0c7a-0b1c-4f5e-9d28-0e6d7a9b1c2d"

func TestSync_PushesLocalChangesAndAdvancesWatermark(t *testing.T) {
	repos, client, svc := setupSync(t)
	ctx := context.Background()

	at := mustParse(t, "2024-03-01T10:00:00Z")
	localCattle(t, repos, cattleID, "BR-001", at)

	serverTime := mustParse(t, "2024-03-02T00:00:00Z")
	client.serverTime = serverTime

	summary, err := svc.Sync(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Pushed)
	require.Len(t, client.pushReqs, 1)
	req := client.pushReqs[0]
	assert.Equal(t, "farm1", req.FarmID)
	assert.NotEmpty(t, req.DeviceID)
	assert.Len(t, req.Payload[syncx.TableCattle], 1)

	wm, err := repos.Meta.LastSyncAt(ctx)
	require.NoError(t, err)
	assert.Equal(t, serverTime.String(), wm.String())
	assert.Equal(t, StateIdle, svc.State())
}

func TestSync_SecondRunPushesNothing(t *testing.T) {
	repos, client, svc := setupSync(t)
	ctx := context.Background()

	localCattle(t, repos, cattleID, "BR-001", mustParse(t, "2024-03-01T10:00:00Z"))
	client.serverTime = mustParse(t, "2024-03-02T00:00:00Z")

	_, err := svc.Sync(ctx)
	require.NoError(t, err)

	client.serverTime = mustParse(t, "2024-03-03T00:00:00Z")
	summary, err := svc.Sync(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Pushed)
}

func TestSync_WatermarkClampedToSessionStart(t *testing.T) {
	repos, client, svc := setupSync(t)
	ctx := context.Background()

	// A server clock far in the future must not push the watermark past
	// the session, or edits made meanwhile would never sync.
	future := timex.New(time.Now().UTC().Add(2 * time.Hour))
	client.serverTime = future

	_, err := svc.Sync(ctx)
	require.NoError(t, err)

	wm, err := repos.Meta.LastSyncAt(ctx)
	require.NoError(t, err)
	assert.True(t, future.After(wm))
}

func TestSync_WatermarkNeverRegresses(t *testing.T) {
	repos, client, svc := setupSync(t)
	ctx := context.Background()

	client.serverTime = mustParse(t, "2024-03-05T00:00:00Z")
	_, err := svc.Sync(ctx)
	require.NoError(t, err)

	// A server clock that stepped back must not shrink the watermark,
	// or already-synced rows would be pushed again every session.
	client.serverTime = mustParse(t, "2024-03-01T00:00:00Z")
	summary, err := svc.Sync(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-05T00:00:00Z", summary.Watermark.String())

	wm, err := repos.Meta.LastSyncAt(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-05T00:00:00Z", wm.String())
}

func TestSync_AppliesNewerPulledRow(t *testing.T) {
	repos, client, svc := setupSync(t)
	ctx := context.Background()

	localCattle(t, repos, cattleID, "local", mustParse(t, "2024-03-01T00:00:00Z"))

	remote := &syncx.Cattle{
		Meta: syncx.Meta{
			ID:        cattleID,
			FarmID:    "farm1",
			CreatedAt: mustParse(t, "2024-03-01T00:00:00Z"),
			UpdatedAt: mustParse(t, "2024-03-05T00:00:00Z"),
		},
		Tag: "remote",
	}
	client.pullRows = encode(t, remote)
	client.serverTime = mustParse(t, "2024-03-05T00:00:01Z")

	summary, err := svc.Sync(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.AppliedLocal)

	got, err := repos.Records.Get(ctx, syncx.TableCattle, cattleID)
	require.NoError(t, err)
	assert.Equal(t, "remote", got.(*syncx.Cattle).Tag)
}

func TestSync_TieKeepsStoredRow(t *testing.T) {
	repos, client, svc := setupSync(t)
	ctx := context.Background()

	at := mustParse(t, "2024-03-01T00:00:00Z")
	localCattle(t, repos, cattleID, "local", at)

	remote := &syncx.Cattle{
		Meta: syncx.Meta{ID: cattleID, FarmID: "farm1", CreatedAt: at, UpdatedAt: at},
		Tag:  "remote",
	}
	client.pullRows = encode(t, remote)

	summary, err := svc.Sync(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.AppliedLocal)

	got, err := repos.Records.Get(ctx, syncx.TableCattle, cattleID)
	require.NoError(t, err)
	assert.Equal(t, "local", got.(*syncx.Cattle).Tag)
}

func TestSync_AppliesRemoteTombstone(t *testing.T) {
	repos, client, svc := setupSync(t)
	ctx := context.Background()

	localCattle(t, repos, cattleID, "BR-001", mustParse(t, "2024-03-01T00:00:00Z"))

	deletedAt := mustParse(t, "2024-03-05T00:00:00Z")
	remote := &syncx.Cattle{
		Meta: syncx.Meta{
			ID:        cattleID,
			FarmID:    "farm1",
			CreatedAt: mustParse(t, "2024-03-01T00:00:00Z"),
			UpdatedAt: deletedAt,
			DeletedAt: timex.NullTimestamp{Time: deletedAt, Valid: true},
		},
		Tag: "BR-001",
	}
	client.pullRows = encode(t, remote)

	_, err := svc.Sync(ctx)
	require.NoError(t, err)

	m, err := repos.Records.GetMeta(ctx, syncx.TableCattle, cattleID)
	require.NoError(t, err)
	assert.True(t, m.Deleted())

	active, err := repos.Records.ListActive(ctx, syncx.TableCattle, "farm1")
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestSync_PullFailureLeavesWatermark(t *testing.T) {
	repos, client, svc := setupSync(t)
	ctx := context.Background()

	client.pullErr = common.ErrorTransport

	_, err := svc.Sync(ctx)
	require.Error(t, err)
	assert.Equal(t, StateFailed, svc.State())

	wm, err := repos.Meta.LastSyncAt(ctx)
	require.NoError(t, err)
	assert.True(t, wm.IsZero())
}

func TestSync_NoActiveFarm(t *testing.T) {
	repos, _, svc := setupSync(t)
	ctx := context.Background()

	require.NoError(t, repos.Meta.DeleteSetting(ctx, meta.SettingActiveFarmID))

	_, err := svc.Sync(ctx)
	assert.Error(t, err)
}

func TestSync_ConcurrentSessionRejected(t *testing.T) {
	_, client, svc := setupSync(t)
	ctx := context.Background()

	client.pushStarted = make(chan struct{})
	client.pushBlock = make(chan struct{})

	done := make(chan error, 1)
	go func() {
		_, err := svc.Sync(ctx)
		done <- err
	}()

	<-client.pushStarted
	_, err := svc.Sync(ctx)
	assert.ErrorIs(t, err, common.ErrorSyncInProgress)

	close(client.pushBlock)
	require.NoError(t, <-done)
}
