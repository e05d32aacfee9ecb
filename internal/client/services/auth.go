// Package services contains application services for the AgroSync client.
// This file defines the authentication service: register, login, session
// restore from local settings, and liveness probe.
package services

import (
	"context"
	"fmt"

	"github.com/agrosuite/agrosync/internal/client/httpclient"
	"github.com/agrosuite/agrosync/internal/client/localdb"
	"github.com/agrosuite/agrosync/internal/client/repositories/meta"
	"github.com/agrosuite/agrosync/internal/common"
)

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - Register: create a new account on the server.
//   - Login: authenticate against the server and cache the session locally.
//   - RestoreSession: rearm the transport with a previously cached token.
//   - Me: fetch the authenticated user and farm memberships.
//   - Logout: drop the cached session.
//   - Ping: check server liveness.
type AuthService interface {
	Register(ctx context.Context, email, password, name string) error
	Login(ctx context.Context, email, password string) error
	RestoreSession(ctx context.Context) (string, error)
	Me(ctx context.Context) (*httpclient.User, []httpclient.Farm, error)
	Logout(ctx context.Context) error
	Ping(ctx context.Context) error
}

type authService struct {
	client httpclient.Client
	repos  *localdb.Repositories
}

func NewAuthService(client httpclient.Client, repos *localdb.Repositories) AuthService {
	return &authService{client: client, repos: repos}
}

func (a *authService) Register(ctx context.Context, email, password, name string) error {
	if err := a.client.Register(ctx, email, password, name); err != nil {
		return fmt.Errorf("register error: %w", err)
	}
	return nil
}

// Login authenticates against the server and stores the token and account
// email in local settings so later runs can resume without a password.
func (a *authService) Login(ctx context.Context, email, password string) error {
	token, err := a.client.Login(ctx, email, password)
	if err != nil {
		return fmt.Errorf("login error: %w", err)
	}

	if err := a.repos.Meta.SetSetting(ctx, meta.SettingAccessToken, token); err != nil {
		return err
	}
	if err := a.repos.Meta.SetSetting(ctx, meta.SettingUserEmail, email); err != nil {
		return err
	}
	return nil
}

// RestoreSession loads the cached token into the transport and returns the
// cached account email. common.ErrorUnauthorized when no session is cached.
func (a *authService) RestoreSession(ctx context.Context) (string, error) {
	token, err := a.repos.Meta.GetSetting(ctx, meta.SettingAccessToken)
	if err != nil {
		return "", err
	}
	if token == "" {
		return "", common.ErrorUnauthorized
	}

	a.client.SetAccessToken(token)

	return a.repos.Meta.GetSetting(ctx, meta.SettingUserEmail)
}

func (a *authService) Me(ctx context.Context) (*httpclient.User, []httpclient.Farm, error) {
	return a.client.Me(ctx)
}

func (a *authService) Logout(ctx context.Context) error {
	a.client.SetAccessToken("")
	if err := a.repos.Meta.DeleteSetting(ctx, meta.SettingAccessToken); err != nil {
		return err
	}
	return a.repos.Meta.DeleteSetting(ctx, meta.SettingUserEmail)
}

func (a *authService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}
