// Package services contains server-side business logic. This file implements
// AuthService: credential login gated by role and account status, the phone
// verification step, token issuing/refreshing and signup.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/kuryentech/gardian-admin/internal/common"
	"github.com/kuryentech/gardian-admin/internal/dbx"
	"github.com/kuryentech/gardian-admin/internal/server/auth"
	"github.com/kuryentech/gardian-admin/internal/server/config"
	"github.com/kuryentech/gardian-admin/internal/server/models"
	"github.com/kuryentech/gardian-admin/internal/server/repositories/repomanager"
)

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// LoginChallenge is returned after a successful credential check: the client
// must complete phone verification before any tokens are issued.
type LoginChallenge struct {
	ChallengeID string
	PhoneHint   string
}

// Challenger is the phone verification collaborator (see the otp package).
type Challenger interface {
	Begin(ctx context.Context, userID, phone string) (string, error)
	Verify(ctx context.Context, challengeID, code string) (string, error)
	Resend(ctx context.Context, challengeID string) error
}

// AuthService provides authentication-related operations:
//   - Login: verify credentials, gate on role/status, start phone verification
//   - VerifyCode: complete phone verification and mint tokens
//   - RefreshToken: rotate refresh tokens and mint new access tokens
//   - Signup: create a profile that stays pending until approved
type AuthService struct {
	db                           *sql.DB
	repomanager                  repomanager.RepositoryManager
	challenger                   Challenger
	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
}

// NewAuthService constructs an AuthService using repositories and server config.
func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, challenger Challenger, cfg *config.Config) *AuthService {
	return &AuthService{
		db:                           db,
		repomanager:                  m,
		challenger:                   challenger,
		jwtSecret:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
	}
}

// gate enforces the dashboard access rules on a profile: the role must belong
// to the closed admin set, and the account must be active. The role check
// runs first, mirroring the login screen's order of messages.
func (s *AuthService) gate(user *models.User) error {
	if !user.Role.Valid() {
		return common.ErrorForbidden
	}
	switch user.Status {
	case models.StatusSuspended:
		return common.ErrorAccountSuspended
	case models.StatusPending:
		return common.ErrorAccountPending
	}
	return nil
}

// Login verifies email/password and the access gate, then starts a phone
// verification challenge. No tokens are issued here.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginChallenge, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}

	ok, err := auth.VerifyPassword(password, user.PasswordHash)
	if err != nil || !ok {
		return nil, common.ErrorUnauthorized
	}

	if err := s.gate(user); err != nil {
		return nil, err
	}

	challengeID, err := s.challenger.Begin(ctx, user.ID, user.Phone)
	if err != nil {
		return nil, common.ErrorInternal
	}

	return &LoginChallenge{ChallengeID: challengeID, PhoneHint: maskPhone(user.Phone)}, nil
}

// VerifyCode completes phone verification. The access gate is re-checked:
// the profile may have been suspended between the two login steps.
func (s *AuthService) VerifyCode(ctx context.Context, challengeID, code string) (*TokenPair, error) {
	userID, err := s.challenger.Verify(ctx, challengeID, code)
	if err != nil {
		return nil, err
	}

	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}

	if err := s.gate(user); err != nil {
		return nil, err
	}

	return s.generateTokenPair(ctx, user.ID, s.db)
}

// ResendCode redelivers the verification code for an open challenge, subject
// to the cooldown enforced by the challenger.
func (s *AuthService) ResendCode(ctx context.Context, challengeID string) error {
	return s.challenger.Resend(ctx, challengeID)
}

// RefreshToken validates a refresh token, rotates it transactionally, and
// returns a fresh TokenPair. Expired tokens yield ErrRefreshTokenExpired.
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	repo := s.repomanager.RefreshTokens(s.db)

	token, err := repo.Find(ctx, refreshToken)
	if err != nil {
		return nil, fmt.Errorf("error searching refresh token: %w", err)
	}
	if token.Expires.Before(time.Now()) {
		return nil, common.ErrRefreshTokenExpired
	}

	var pair *TokenPair
	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repoTx := s.repomanager.RefreshTokens(tx)
		if err := repoTx.Delete(ctx, refreshToken); err != nil {
			return fmt.Errorf("error deleting refresh token: %w", err)
		}
		var genErr error
		pair, genErr = s.generateTokenPair(ctx, token.UserID, tx)
		return genErr
	}); err != nil {
		return nil, err
	}
	return pair, nil
}

// Logout revokes the given refresh token. The access token simply expires.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	return s.repomanager.RefreshTokens(s.db).Delete(ctx, refreshToken)
}

// SignupInput carries the fields collected by the signup form.
type SignupInput struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Barangay  string
	Password  string
}

// Signup creates a profile with the personnel_admin role in pending status.
// The account cannot complete login until a super admin activates it.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*models.User, error) {
	if in.Email == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: email and password are required", common.ErrorValidation)
	}

	hash, err := auth.HashPassword(in.Password, nil)
	if err != nil {
		return nil, common.ErrorInternal
	}

	user := &models.User{
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		Phone:        in.Phone,
		Barangay:     in.Barangay,
		Role:         models.RolePersonnelAdmin,
		Status:       models.StatusPending,
		PasswordHash: hash,
	}

	created, err := s.repomanager.Users(s.db).Create(ctx, user)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, fmt.Errorf("%w: email already registered", common.ErrorValidation)
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return created, nil
}

// --- helpers below ---

func (s *AuthService) generateAccessToken(userID string) (string, error) {
	return auth.GenerateToken(userID, s.jwtSecret, s.accessTokenValidityDuration)
}

func (s *AuthService) generateRefreshToken() (string, error) {
	return common.MakeRandHexString(32)
}

func (s *AuthService) generateTokenPair(ctx context.Context, userID string, tx dbx.DBTX) (*TokenPair, error) {
	access, err := s.generateAccessToken(userID)
	if err != nil {
		return nil, common.ErrorInternal
	}

	refresh, err := s.generateRefreshToken()
	if err != nil {
		return nil, common.ErrorInternal
	}

	if err := s.repomanager.RefreshTokens(tx).Create(ctx, userID, refresh, s.refreshTokenValidityDuration); err != nil {
		return nil, common.ErrorInternal
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func maskPhone(phone string) string {
	if len(phone) <= 2 {
		return phone
	}
	return strings.Repeat("*", len(phone)-2) + phone[len(phone)-2:]
}
