// Package reports provides a PostgreSQL-backed repository for citizen
// reports. Listing joins the reporter's profile in the same query so a result
// set is always fully enriched; no row can be observed half-filled.
package reports

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/kuryentech/gardian-admin/internal/common"
	"github.com/kuryentech/gardian-admin/internal/dbx"
	"github.com/kuryentech/gardian-admin/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const reportColumns = `r.id, r.user_id, r.latitude, r.longitude, r.address,
	COALESCE(r.image, ''), COALESCE(r.annotated_image, ''), r.status, r.uploaded_at,
	r.resolved_image, r.resolved_at,
	r.drainage_count, r.pothole_count, r.road_surface_count, r.obstruction_count,
	COALESCE(r.detection_status, '')`

const reporterColumns = `COALESCE(u.first_name, ''), COALESCE(u.last_name, ''), COALESCE(u.barangay, '')`

func scanReport(row interface{ Scan(dest ...any) error }, withReporter bool) (*models.Report, error) {
	report := &models.Report{}
	var status string
	var resolvedImage sql.NullString
	var resolvedAt sql.NullTime

	dest := []any{
		&report.ID, &report.UserID, &report.Latitude, &report.Longitude, &report.Address,
		&report.Image, &report.AnnotatedImage, &status, &report.UploadedAt,
		&resolvedImage, &resolvedAt,
		&report.Detection.DrainageCount, &report.Detection.PotholeCount,
		&report.Detection.RoadSurfaceCount, &report.Detection.ObstructionCount,
		&report.Detection.Status,
	}
	if withReporter {
		dest = append(dest, &report.ReporterFirstName, &report.ReporterLastName, &report.ReporterBarangay)
	}

	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	parsed, err := models.ParseReportStatus(status)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	report.Status = parsed

	if resolvedImage.Valid {
		report.ResolvedImage = resolvedImage.String
	}
	if resolvedAt.Valid {
		t := resolvedAt.Time
		report.ResolvedAt = &t
	}

	return report, nil
}

// List returns every report joined with its reporter, newest first.
func (r *PostgresRepository) List(ctx context.Context) ([]models.Report, error) {
	query := `SELECT ` + reportColumns + `, ` + reporterColumns + `
		 FROM reports r
		 LEFT JOIN users u ON u.id = r.user_id
		 ORDER BY r.uploaded_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []models.Report
	for rows.Next() {
		report, err := scanReport(rows, true)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, *report)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Report, error) {
	query := `SELECT ` + reportColumns + `, ` + reporterColumns + `
		 FROM reports r
		 LEFT JOIN users u ON u.id = r.user_id
		 WHERE r.id = $1`

	report, err := scanReport(r.db.QueryRowContext(ctx, query, id), true)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return report, nil
}

// UpdateStatus moves a report to status without touching evidence fields.
func (r *PostgresRepository) UpdateStatus(ctx context.Context, id string, status models.ReportStatus) error {
	query := `UPDATE reports SET status = $2 WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id, string(status))
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrorNotFound
	}

	return nil
}

// UpdateStatusResolved moves a report to status and records the uploaded
// evidence reference and resolution time in the same write.
func (r *PostgresRepository) UpdateStatusResolved(ctx context.Context, id string, status models.ReportStatus, resolvedImage string, resolvedAt time.Time) error {
	query := `UPDATE reports SET status = $2, resolved_image = $3, resolved_at = $4 WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id, string(status), resolvedImage, resolvedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrorNotFound
	}

	return nil
}
