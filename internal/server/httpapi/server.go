// Package httpapi exposes the server over HTTP/JSON: auth, farm membership
// and the push/pull sync endpoints.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/agrosuite/agrosync/internal/logging"
	"github.com/agrosuite/agrosync/internal/server/config"
	"github.com/agrosuite/agrosync/internal/server/services"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

type Server struct {
	echo        *echo.Echo
	config      *config.Config
	logger      logging.Logger
	userService *services.UserService
	farmService *services.FarmService
	syncService *services.SyncService
}

func NewServer(cfg *config.Config, logger logging.Logger,
	us *services.UserService, fs *services.FarmService, ss *services.SyncService) *Server {

	s := &Server{
		echo:        echo.New(),
		config:      cfg,
		logger:      logger,
		userService: us,
		farmService: fs,
		syncService: ss,
	}

	s.echo.HideBanner = true
	s.echo.Use(middleware.Recover())

	s.routes()
	return s
}

func (s *Server) routes() {
	e := s.echo

	e.GET("/ping", s.ping)
	e.POST("/auth/register", s.register)
	e.POST("/auth/login", s.login)

	authed := e.Group("", s.bearerAuth)
	authed.GET("/me", s.me)
	authed.POST("/farms", s.createFarm)
	authed.POST("/farms/:farm_id/invite", s.inviteStaff)
	authed.POST("/farms/join", s.joinFarm)
	authed.POST("/sync/push", s.push)
	authed.GET("/sync/pull", s.pull)
}

// Run serves until ctx is cancelled, then drains in-flight requests within
// the configured shutdown timeout.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		if err := s.echo.Start(s.config.EndpointAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	s.logger.Info(ctx, "http server started", "addr", s.config.EndpointAddr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout())
	defer cancel()

	return s.echo.Shutdown(shutdownCtx)
}

func (s *Server) shutdownTimeout() time.Duration {
	if s.config.ShutdownTimeout > 0 {
		return s.config.ShutdownTimeout
	}
	return 10 * time.Second
}

func (s *Server) ping(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "OK"})
}
