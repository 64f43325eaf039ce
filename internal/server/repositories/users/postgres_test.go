package users

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/kuryentech/gardian-admin/internal/common"
	"github.com/kuryentech/gardian-admin/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

var userCols = []string{"id", "first_name", "last_name", "email", "phone", "barangay", "role", "status", "password_hash", "created_at"}

func userRow(id, role, status string) *sqlmock.Rows {
	return sqlmock.NewRows(userCols).
		AddRow(id, "Ana", "Reyes", "ana@example.com", "0917", "Uno", role, status, "$argon2id$hash", time.Now())
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^INSERT\s+INTO\s+users\s*\(first_name,\s*last_name,\s*email,\s*phone,\s*barangay,\s*role,\s*status,\s*password_hash\)`

	rows := sqlmock.NewRows([]string{"id", "created_at"}).AddRow("u-1", time.Now())
	mock.ExpectQuery(q).
		WithArgs("Ana", "Reyes", "ana@example.com", "0917", "Uno", "staff_admin", "active", "h").
		WillReturnRows(rows)

	u := &models.User{
		FirstName: "Ana", LastName: "Reyes", Email: "ana@example.com",
		Phone: "0917", Barangay: "Uno",
		Role: models.RoleStaffAdmin, Status: models.StatusActive, PasswordHash: "h",
	}
	got, err := repo.Create(context.Background(), u)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.ID != "u-1" {
		t.Fatalf("unexpected user: %+v", got)
	}
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`INSERT\s+INTO\s+users`).WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), &models.User{})
	if err == nil {
		t.Fatal("expected wrapped db error")
	}
}

func TestGetByEmail_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+id,.*FROM\s+users\s+WHERE\s+email\s*=\s*\$1\s*$`
	mock.ExpectQuery(q).WithArgs("ana@example.com").
		WillReturnRows(userRow("u-1", "super_admin", "active"))

	got, err := repo.GetByEmail(context.Background(), "ana@example.com")
	if err != nil {
		t.Fatalf("GetByEmail error: %v", err)
	}
	if got.ID != "u-1" || got.Role != models.RoleSuperAdmin || got.Status != models.StatusActive {
		t.Fatalf("unexpected user: %+v", got)
	}
}

func TestGetByEmail_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`FROM\s+users\s+WHERE\s+email`).
		WithArgs("ghost@example.com").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByEmail(context.Background(), "ghost@example.com")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestGetByID_LenientRole(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	// a stored profile with a non-admin role string still loads; the zero
	// role fails every access check downstream
	mock.ExpectQuery(`FROM\s+users\s+WHERE\s+id`).
		WithArgs("u-2").
		WillReturnRows(userRow("u-2", "user", ""))

	got, err := repo.GetByID(context.Background(), "u-2")
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if got.Role != "" {
		t.Fatalf("expected zero role, got %q", got.Role)
	}
	if got.Status != models.StatusActive {
		t.Fatalf("missing status should default to active, got %q", got.Status)
	}
}

func TestListAdmins(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := userRow("u-1", "super_admin", "active").
		AddRow("u-2", "Ben", "Santos", "ben@example.com", "0918", "Dos", "staff_admin", "pending", "h", time.Now())
	mock.ExpectQuery(`(?s)FROM\s+users\s+WHERE\s+role\s+IN`).WillReturnRows(rows)

	got, err := repo.ListAdmins(context.Background())
	if err != nil {
		t.Fatalf("ListAdmins error: %v", err)
	}
	if len(got) != 2 || got[1].Status != models.StatusPending {
		t.Fatalf("unexpected result: %+v", got)
	}
}

func TestUpdate_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE\s+users`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), &models.User{ID: "ghost"})
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestDelete_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`DELETE\s+FROM\s+users\s+WHERE\s+id\s*=\s*\$1`).
		WithArgs("u-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Delete(context.Background(), "u-1"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
}

func TestDelete_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`DELETE\s+FROM\s+users`).
		WithArgs("ghost").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.Delete(context.Background(), "ghost"); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}
