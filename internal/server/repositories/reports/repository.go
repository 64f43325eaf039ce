package reports

import (
	"context"
	"time"

	"github.com/kuryentech/gardian-admin/internal/server/models"
)

// Repository is the persistence contract for citizen reports. Reports are
// created by the citizen intake flow and never deleted here; this layer only
// reads them and moves them through the status workflow.
type Repository interface {
	List(ctx context.Context) ([]models.Report, error)
	GetByID(ctx context.Context, id string) (*models.Report, error)
	UpdateStatus(ctx context.Context, id string, status models.ReportStatus) error
	UpdateStatusResolved(ctx context.Context, id string, status models.ReportStatus, resolvedImage string, resolvedAt time.Time) error
}
