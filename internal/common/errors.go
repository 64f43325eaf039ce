// Package common defines shared constants and sentinel errors used across
// the Gardian admin service. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorForbidden    = errors.New("forbidden")
	ErrorValidation   = errors.New("validation error")

	// Account gating errors surfaced by the login workflow.
	ErrorAccountPending   = errors.New("account pending approval")
	ErrorAccountSuspended = errors.New("account suspended")

	// Phone verification errors.
	ErrorInvalidCode    = errors.New("invalid verification code")
	ErrorCodeExpired    = errors.New("verification code expired")
	ErrorResendCooldown = errors.New("resend cooldown active")

	// Collaborator errors: evidence upload vs. record write.
	ErrorStorage     = errors.New("storage error")
	ErrorPersistence = errors.New("persistence error")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired        = errors.New("token expired")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
)
