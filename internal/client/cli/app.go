// Package cli implements the interactive client: a small REPL over the
// local replica with explicit sync sessions against the server.
package cli

import (
	"bufio"
	"context"
	"errors"
	"log"
	"os"

	"github.com/agrosuite/agrosync/internal/client/config"
	"github.com/agrosuite/agrosync/internal/client/httpclient"
	"github.com/agrosuite/agrosync/internal/client/localdb"
	"github.com/agrosuite/agrosync/internal/client/services"
	"github.com/agrosuite/agrosync/internal/common"
	"github.com/agrosuite/agrosync/internal/logging"
)

type App struct {
	config        *config.Config
	repos         *localdb.Repositories
	authService   services.AuthService
	farmService   services.FarmService
	recordService services.RecordService
	syncService   services.SyncService
	userEmail     string
	reader        *bufio.Reader
}

func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	repos, err := localdb.Open(ctx, c.DatabasePath)
	if err != nil {
		log.Printf("error initializing database: %s", err.Error())
		return nil, err
	}

	apiClient := httpclient.NewHTTPClient(c.ServerURL, c.RequestTimeout)

	as := services.NewAuthService(apiClient, repos)
	fs := services.NewFarmService(apiClient, repos)
	rs := services.NewRecordService(repos, fs)
	ss := services.NewSyncService(apiClient, repos, fs, logger)

	app := &App{
		config:        c,
		repos:         repos,
		authService:   as,
		farmService:   fs,
		recordService: rs,
		syncService:   ss,
		reader:        bufio.NewReader(os.Stdin),
	}

	// Resume a cached session if one exists; the user can still re-login.
	email, err := as.RestoreSession(ctx)
	if err != nil && !errors.Is(err, common.ErrorUnauthorized) {
		return nil, err
	}
	app.userEmail = email

	return app, nil
}

func (a *App) isLoggedIn() bool {
	return a.userEmail != ""
}

func (a *App) Run(ctx context.Context) {
	defer a.repos.Close()
	a.Root(ctx)
}
