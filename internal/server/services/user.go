package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/kuryentech/gardian-admin/internal/common"
	"github.com/kuryentech/gardian-admin/internal/server/auth"
	"github.com/kuryentech/gardian-admin/internal/server/models"
	"github.com/kuryentech/gardian-admin/internal/server/repositories/repomanager"
)

// UserAdminService implements the user-management screen: listing, creating,
// editing and deleting admin accounts. All operations are super_admin-gated
// at the route layer.
type UserAdminService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewUserAdminService(db *sql.DB, m repomanager.RepositoryManager) *UserAdminService {
	return &UserAdminService{db: db, repomanager: m}
}

// UserFilter narrows the admin listing. Zero values match everything.
type UserFilter struct {
	Search string
	Role   string
	Status string
}

func (f UserFilter) matches(u *models.User) bool {
	if f.Role != "" && f.Role != "all" && string(u.Role) != f.Role {
		return false
	}
	if f.Status != "" && f.Status != "all" && string(u.Status) != f.Status {
		return false
	}
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		haystack := strings.ToLower(u.FirstName + " " + u.LastName + " " + u.Email + " " + u.Barangay)
		if !strings.Contains(haystack, needle) {
			return false
		}
	}
	return true
}

// List returns admin profiles matching the filter, newest first, together
// with per-role counts over the unfiltered set (the summary cards always show
// totals).
func (s *UserAdminService) List(ctx context.Context, filter UserFilter) ([]models.User, map[models.Role]int, error) {
	all, err := s.repomanager.Users(s.db).ListAdmins(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("error listing users: %w", err)
	}

	counts := make(map[models.Role]int, 3)
	filtered := make([]models.User, 0, len(all))
	for i := range all {
		counts[all[i].Role]++
		if filter.matches(&all[i]) {
			filtered = append(filtered, all[i])
		}
	}

	return filtered, counts, nil
}

// Get returns a single profile by ID.
func (s *UserAdminService) Get(ctx context.Context, id string) (*models.User, error) {
	return s.repomanager.Users(s.db).GetByID(ctx, id)
}

// CreateUserInput carries the fields of the "add admin" form. Role and Status
// arrive as raw strings and are validated against the closed enums.
type CreateUserInput struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Barangay  string
	Password  string
	Role      string
	Status    string
}

// Create validates the input and stores a new admin profile.
func (s *UserAdminService) Create(ctx context.Context, in CreateUserInput) (*models.User, error) {
	if in.Email == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: email and password are required", common.ErrorValidation)
	}

	role, err := models.ParseRole(in.Role)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorValidation, err)
	}

	status, err := models.ParseAccountStatus(in.Status)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorValidation, err)
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
		Role:         role,
		Status:       status,
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

// UpdateUserInput carries the editable fields. Nil pointers leave the stored
// value unchanged.
type UpdateUserInput struct {
	FirstName *string
	LastName  *string
	Phone     *string
	Barangay  *string
	Role      *string
	Status    *string
}

// Update applies the edit form to an existing profile.
func (s *UserAdminService) Update(ctx context.Context, id string, in UpdateUserInput) (*models.User, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.FirstName != nil {
		user.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		user.LastName = *in.LastName
	}
	if in.Phone != nil {
		user.Phone = *in.Phone
	}
	if in.Barangay != nil {
		user.Barangay = *in.Barangay
	}
	if in.Role != nil {
		role, err := models.ParseRole(*in.Role)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", common.ErrorValidation, err)
		}
		user.Role = role
	}
	if in.Status != nil {
		status, err := models.ParseAccountStatus(*in.Status)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", common.ErrorValidation, err)
		}
		user.Status = status
	}

	if err := repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("error updating user: %w", err)
	}

	return user, nil
}

// Delete removes a profile and, via cascade, its refresh tokens.
func (s *UserAdminService) Delete(ctx context.Context, id string) error {
	return s.repomanager.Users(s.db).Delete(ctx, id)
}
