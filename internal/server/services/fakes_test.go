package services

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"testing"

	"github.com/agrosuite/agrosync/internal/common"
	"github.com/agrosuite/agrosync/internal/dbx"
	"github.com/agrosuite/agrosync/internal/logging"
	"github.com/agrosuite/agrosync/internal/server/models"
	"github.com/agrosuite/agrosync/internal/server/repositories/farms"
	"github.com/agrosuite/agrosync/internal/server/repositories/records"
	"github.com/agrosuite/agrosync/internal/server/repositories/synclog"
	"github.com/agrosuite/agrosync/internal/server/repositories/users"
	"github.com/agrosuite/agrosync/internal/syncx"
	"github.com/agrosuite/agrosync/internal/timex"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

// The fakes keep state in maps and ignore the DBTX they are handed. The
// services still need a real *sql.DB for their transactions, so tests open
// an empty in-memory database just for Begin and Commit.

type fakeManager struct {
	users   *fakeUsers
	farms   *fakeFarms
	syncLog *fakeSyncLog
	records *fakeRecords
}

func newFakeManager() *fakeManager {
	return &fakeManager{
		users:   &fakeUsers{byEmail: map[string]*models.User{}},
		farms:   &fakeFarms{memberships: map[string]*models.Membership{}, farms: map[string]*models.Farm{}, invites: map[string]*models.FarmInvite{}},
		syncLog: &fakeSyncLog{entries: map[string]*models.SyncLogEntry{}},
		records: &fakeRecords{rows: map[string]map[string]syncx.Record{}},
	}
}

func (m *fakeManager) RunMigrations(context.Context, *sql.DB) error  { return nil }
func (m *fakeManager) Users(dbx.DBTX) users.Repository              { return m.users }
func (m *fakeManager) Farms(dbx.DBTX) farms.Repository              { return m.farms }
func (m *fakeManager) SyncLog(dbx.DBTX) synclog.Repository          { return m.syncLog }
func (m *fakeManager) Records(dbx.DBTX) records.Repository          { return m.records }

type fakeUsers struct {
	byEmail map[string]*models.User
}

func (f *fakeUsers) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if _, ok := f.byEmail[user.Email]; ok {
		return nil, common.ErrorAlreadyExists
	}
	f.byEmail[user.Email] = user
	return user, nil
}

func (f *fakeUsers) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return u, nil
}

func (f *fakeUsers) GetByID(ctx context.Context, id string) (*models.User, error) {
	for _, u := range f.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, common.ErrorNotFound
}

type fakeFarms struct {
	farms       map[string]*models.Farm
	memberships map[string]*models.Membership
	invites     map[string]*models.FarmInvite
}

func membershipKey(userID, farmID string) string {
	return userID + "/" + farmID
}

func (f *fakeFarms) CreateFarm(ctx context.Context, farm *models.Farm) error {
	f.farms[farm.ID] = farm
	return nil
}

func (f *fakeFarms) GetFarm(ctx context.Context, id string) (*models.Farm, error) {
	farm, ok := f.farms[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return farm, nil
}

func (f *fakeFarms) CreateMembership(ctx context.Context, m *models.Membership) error {
	key := membershipKey(m.UserID, m.FarmID)
	if _, ok := f.memberships[key]; ok {
		return common.ErrorAlreadyExists
	}
	f.memberships[key] = m
	return nil
}

func (f *fakeFarms) GetMembership(ctx context.Context, userID, farmID string) (*models.Membership, error) {
	m, ok := f.memberships[membershipKey(userID, farmID)]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return m, nil
}

func (f *fakeFarms) ListUserFarms(ctx context.Context, userID string) ([]models.Farm, []models.Membership, error) {
	var out []models.Farm
	var ms []models.Membership
	for _, m := range f.memberships {
		if m.UserID != userID {
			continue
		}
		farm, ok := f.farms[m.FarmID]
		if !ok {
			continue
		}
		out = append(out, *farm)
		ms = append(ms, *m)
	}
	return out, ms, nil
}

func (f *fakeFarms) CreateInvite(ctx context.Context, inv *models.FarmInvite) error {
	f.invites[inv.Code] = inv
	return nil
}

func (f *fakeFarms) GetInvite(ctx context.Context, code string) (*models.FarmInvite, error) {
	inv, ok := f.invites[code]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return inv, nil
}

type fakeSyncLog struct {
	entries map[string]*models.SyncLogEntry
	order   []string
}

func (f *fakeSyncLog) Start(ctx context.Context, entry *models.SyncLogEntry) error {
	f.entries[entry.ID] = entry
	f.order = append(f.order, entry.ID)
	return nil
}

func (f *fakeSyncLog) Finish(ctx context.Context, id, status string, finishedAt timex.Timestamp) error {
	entry, ok := f.entries[id]
	if !ok {
		return common.ErrorNotFound
	}
	entry.Status = status
	entry.FinishedAt = timex.NullTimestamp{Time: finishedAt, Valid: true}
	return nil
}

func (f *fakeSyncLog) Get(ctx context.Context, id string) (*models.SyncLogEntry, error) {
	entry, ok := f.entries[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return entry, nil
}

type fakeRecords struct {
	rows      map[string]map[string]syncx.Record
	upsertErr error
}

func (f *fakeRecords) Upsert(ctx context.Context, rec syncx.Record) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	table := rec.Table()
	if f.rows[table] == nil {
		f.rows[table] = map[string]syncx.Record{}
	}
	f.rows[table][rec.SyncMeta().ID] = rec
	return nil
}

func (f *fakeRecords) GetMetaForUpdate(ctx context.Context, table, id string) (*syncx.Meta, error) {
	rec, ok := f.rows[table][id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	m := *rec.SyncMeta()
	return &m, nil
}

func (f *fakeRecords) Get(ctx context.Context, table, id string) (syncx.Record, error) {
	rec, ok := f.rows[table][id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return rec, nil
}

func (f *fakeRecords) ChangedSince(ctx context.Context, table, farmID string, since timex.Timestamp) ([]syncx.Record, error) {
	var out []syncx.Record
	for _, rec := range f.rows[table] {
		m := rec.SyncMeta()
		if m.FarmID != farmID {
			continue
		}
		if m.UpdatedAt.After(since) || (m.DeletedAt.Valid && m.DeletedAt.Time.After(since)) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func testDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func discardLogger() logging.Logger {
	return logging.NewTextLogger(io.Discard)
}

func member(f *fakeManager, userID, farmID, role string) {
	f.farms.memberships[membershipKey(userID, farmID)] = &models.Membership{
		ID:     fmt.Sprintf("m-%s-%s", userID, farmID),
		UserID: userID,
		FarmID: farmID,
		Role:   role,
	}
}
