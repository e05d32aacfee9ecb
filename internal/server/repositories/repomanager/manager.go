package repomanager

import (
	"context"
	"database/sql"

	"github.com/agrosuite/agrosync/internal/dbx"
	"github.com/agrosuite/agrosync/internal/server/repositories/farms"
	"github.com/agrosuite/agrosync/internal/server/repositories/records"
	"github.com/agrosuite/agrosync/internal/server/repositories/synclog"
	"github.com/agrosuite/agrosync/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Farms(db dbx.DBTX) farms.Repository
	SyncLog(db dbx.DBTX) synclog.Repository
	Records(db dbx.DBTX) records.Repository
}
