// Package access implements session resolution and route guarding for the
// admin dashboard: an access token is resolved into an immutable per-request
// Session, and a pure decision function maps (session, allowed roles) to a
// render-or-redirect outcome.
package access

import (
	"context"
	"errors"

	"github.com/kuryentech/gardian-admin/internal/common"
	"github.com/kuryentech/gardian-admin/internal/logging"
	"github.com/kuryentech/gardian-admin/internal/server/auth"
	"github.com/kuryentech/gardian-admin/internal/server/models"
)

// Session is the resolved authentication context for one request. It is built
// once by the resolver and never mutated afterward, so every reader observes
// a consistent view.
type Session struct {
	UserID string
	Role   models.Role
	Status models.AccountStatus
}

// RoleKnown reports whether the profile carried a recognized role. A session
// without a known role fails every route check.
func (s *Session) RoleKnown() bool {
	return s != nil && s.Role.Valid()
}

// ProfileStore is the subset of the users repository the resolver needs.
type ProfileStore interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
}

// Resolver turns an access token into a Session by validating the token and
// reading the profile record it points at.
type Resolver struct {
	profiles ProfileStore
	secret   []byte
	logger   logging.Logger
}

func NewResolver(profiles ProfileStore, secret []byte, logger logging.Logger) *Resolver {
	return &Resolver{profiles: profiles, secret: secret, logger: logger.With("module", "access")}
}

// Resolve validates the token and loads the profile record. A missing profile
// or a profile read failure yields a session without a role rather than an
// error: the caller stays authenticated but cannot pass any role check.
// Only a token failure is an error (ErrInvalidToken or ErrTokenExpired).
func (r *Resolver) Resolve(ctx context.Context, token string) (*Session, error) {
	userID, err := auth.GetUserIDFromToken(token, r.secret)
	if err != nil {
		return nil, err
	}

	user, err := r.profiles.GetByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, common.ErrorNotFound) {
			r.logger.Error(ctx, "profile fetch failed", "user_id", userID, "error", err.Error())
		}
		return &Session{UserID: userID}, nil
	}

	return &Session{UserID: userID, Role: user.Role, Status: user.Status}, nil
}

// Decision is the outcome of a route check.
type Decision int

const (
	// Render grants access to the requested route.
	Render Decision = iota
	// RedirectToLogin denies access. Unauthenticated and wrong-role requests
	// both land here; the dashboard sends both to the login route.
	RedirectToLogin
	// ShowLoading is returned while the session is still being resolved.
	ShowLoading
)

// Decide is the pure route-guard function. Checks run in a fixed order:
// loading, then authentication, then role membership.
func Decide(loading bool, sess *Session, allowed []models.Role) Decision {
	if loading {
		return ShowLoading
	}
	if sess == nil {
		return RedirectToLogin
	}
	for _, role := range allowed {
		if sess.Role == role {
			return Render
		}
	}
	return RedirectToLogin
}
