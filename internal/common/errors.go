// Package common defines shared constants and sentinel errors used across
// the client and server layers of AgroSync. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal   = errors.New("internal error")
	ErrorValidation = errors.New("validation error")

	// Auth errors. ErrorUnauthorized means the credential is missing, invalid
	// or expired (the caller should re-authenticate); ErrorNotFarmMember means
	// the credential is fine but the caller has no access to the farm.
	ErrorUnauthorized  = errors.New("unauthorized")
	ErrorNotFarmMember = errors.New("no access to farm")
	ErrorInvalidToken  = errors.New("invalid token")
	ErrorTokenExpired  = errors.New("token expired")

	ErrorInvalidLoginPassword = errors.New("invalid email/password")
	ErrorInviteInvalid        = errors.New("invalid invite code")
	ErrorInviteExpired        = errors.New("invite expired")

	// Sync session errors. ErrorTransport marks network-level failures that
	// are safe to retry with the watermark untouched.
	ErrorTransport      = errors.New("transport error")
	ErrorSyncInProgress = errors.New("sync session already in progress")
)
