package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/kuryentech/gardian-admin/internal/common"
	"github.com/kuryentech/gardian-admin/internal/dbx"
	"github.com/kuryentech/gardian-admin/internal/logging"
	"github.com/kuryentech/gardian-admin/internal/server/models"
	feedbackrepo "github.com/kuryentech/gardian-admin/internal/server/repositories/feedback"
	refreshtokensrepo "github.com/kuryentech/gardian-admin/internal/server/repositories/refreshtokens"
	reportsrepo "github.com/kuryentech/gardian-admin/internal/server/repositories/reports"
	usersrepo "github.com/kuryentech/gardian-admin/internal/server/repositories/users"
)

// --- shared helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

type nopLogger struct{}

func (nopLogger) Info(context.Context, string, ...any)  {}
func (nopLogger) Warn(context.Context, string, ...any)  {}
func (nopLogger) Error(context.Context, string, ...any) {}
func (l nopLogger) With(...any) logging.Logger          { return l }

type fakeUsersRepo struct {
	createOut *models.User
	createErr error

	byID    map[string]*models.User
	byEmail map[string]*models.User
	getErr  error

	listOut []models.User
	listErr error

	updateErr error
	deleteErr error

	updated *models.User
	deleted []string
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if f.createOut != nil {
		return f.createOut, nil
	}
	u.ID = "generated-id"
	return u, nil
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) ListAdmins(ctx context.Context) ([]models.User, error) {
	return f.listOut, f.listErr
}

func (f *fakeUsersRepo) Update(ctx context.Context, u *models.User) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updated = u
	return nil
}

func (f *fakeUsersRepo) Delete(ctx context.Context, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeReportsRepo struct {
	listOut []models.Report
	listErr error

	getOut *models.Report
	getErr error

	updateErr         error
	updateResolvedErr error

	statusCalls   []models.ReportStatus
	resolvedCalls []struct {
		ID     string
		Status models.ReportStatus
		Image  string
		At     time.Time
	}
}

func (f *fakeReportsRepo) List(ctx context.Context) ([]models.Report, error) {
	return f.listOut, f.listErr
}

func (f *fakeReportsRepo) GetByID(ctx context.Context, id string) (*models.Report, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

func (f *fakeReportsRepo) UpdateStatus(ctx context.Context, id string, status models.ReportStatus) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.statusCalls = append(f.statusCalls, status)
	return nil
}

func (f *fakeReportsRepo) UpdateStatusResolved(ctx context.Context, id string, status models.ReportStatus, resolvedImage string, resolvedAt time.Time) error {
	f.resolvedCalls = append(f.resolvedCalls, struct {
		ID     string
		Status models.ReportStatus
		Image  string
		At     time.Time
	}{id, status, resolvedImage, resolvedAt})
	return f.updateResolvedErr
}

type fakeRefreshRepo struct {
	findOut *models.RefreshToken
	findErr error

	createErr error
	delErr    error

	created []string
	deleted []string
}

func (f *fakeRefreshRepo) Create(ctx context.Context, userID string, token string, validity time.Duration) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, token)
	return nil
}

func (f *fakeRefreshRepo) Find(ctx context.Context, token string) (*models.RefreshToken, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.findOut, nil
}

func (f *fakeRefreshRepo) Delete(ctx context.Context, token string) error {
	if f.delErr != nil {
		return f.delErr
	}
	f.deleted = append(f.deleted, token)
	return nil
}

type fakeFeedbackRepo struct {
	listOut []models.Feedback
	listErr error
}

func (f *fakeFeedbackRepo) List(ctx context.Context) ([]models.Feedback, error) {
	return f.listOut, f.listErr
}

type fakeRepoManager struct {
	u *fakeUsersRepo
	r *fakeReportsRepo
	t *fakeRefreshRepo
	f *fakeFeedbackRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository      { return m.u }
func (m *fakeRepoManager) Reports(db dbx.DBTX) reportsrepo.Repository  { return m.r }
func (m *fakeRepoManager) RefreshTokens(db dbx.DBTX) refreshtokensrepo.Repository {
	return m.t
}
func (m *fakeRepoManager) Feedback(db dbx.DBTX) feedbackrepo.Repository { return m.f }

type fakeEvidenceStore struct {
	uploadErr  error
	presignErr error
	deleteErr  error

	uploads  []string
	presigns []string
	deletes  []string
}

func (f *fakeEvidenceStore) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	if f.uploadErr != nil {
		return f.uploadErr
	}
	f.uploads = append(f.uploads, key)
	return nil
}

func (f *fakeEvidenceStore) PresignGetURL(ctx context.Context, key string) (string, error) {
	if f.presignErr != nil {
		return "", f.presignErr
	}
	f.presigns = append(f.presigns, key)
	return "https://presigned.example/" + key, nil
}

func (f *fakeEvidenceStore) Delete(ctx context.Context, key string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deletes = append(f.deletes, key)
	return nil
}

type fakeChallenger struct {
	beginOut string
	beginErr error

	verifyOut string
	verifyErr error

	resendErr error

	beginCalls  int
	resendCalls int
}

func (f *fakeChallenger) Begin(ctx context.Context, userID, phone string) (string, error) {
	f.beginCalls++
	if f.beginErr != nil {
		return "", f.beginErr
	}
	return f.beginOut, nil
}

func (f *fakeChallenger) Verify(ctx context.Context, challengeID, code string) (string, error) {
	if f.verifyErr != nil {
		return "", f.verifyErr
	}
	return f.verifyOut, nil
}

func (f *fakeChallenger) Resend(ctx context.Context, challengeID string) error {
	f.resendCalls++
	return f.resendErr
}
