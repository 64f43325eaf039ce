package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/kuryentech/gardian-admin/internal/common"
	"github.com/kuryentech/gardian-admin/internal/logging"
	"github.com/kuryentech/gardian-admin/internal/server/classify"
	"github.com/kuryentech/gardian-admin/internal/server/models"
	"github.com/kuryentech/gardian-admin/internal/server/repositories/repomanager"
	"github.com/kuryentech/gardian-admin/internal/server/storage"
	"github.com/kuryentech/gardian-admin/internal/server/workflow"
)

// timeNow is a seam for tests.
var timeNow = time.Now

// ReportService implements the reports screen: listing with search, the
// status workflow and summary statistics. Status changes are never reflected
// optimistically; callers re-read the list after a successful transition.
type ReportService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	store       storage.EvidenceStore
	logger      logging.Logger
}

func NewReportService(db *sql.DB, m repomanager.RepositoryManager, store storage.EvidenceStore, logger logging.Logger) *ReportService {
	return &ReportService{db: db, repomanager: m, store: store, logger: logger.With("module", "reports")}
}

// ReportFilter narrows the report listing. Month is 1-12; zero means all.
type ReportFilter struct {
	Search string
	Status string
	Month  int
	Year   int
}

func (f ReportFilter) matches(r *models.Report) bool {
	if f.Status != "" && f.Status != "all" && string(r.Status) != f.Status {
		return false
	}
	if f.Month != 0 && int(r.UploadedAt.Month()) != f.Month {
		return false
	}
	if f.Year != 0 && r.UploadedAt.Year() != f.Year {
		return false
	}
	if f.Search != "" {
		issueType, _ := classify.Classify(r.Detection)
		needle := strings.ToLower(f.Search)
		haystack := strings.ToLower(strings.Join([]string{
			r.ID,
			r.ReporterFirstName,
			r.ReporterLastName,
			r.ReporterBarangay,
			string(r.Status),
			string(issueType),
		}, " "))
		if !strings.Contains(haystack, needle) {
			return false
		}
	}
	return true
}

// List returns reports matching the filter, newest first. Rows arrive from
// the repository already joined with reporter details, so the result is
// always a complete snapshot.
func (s *ReportService) List(ctx context.Context, filter ReportFilter) ([]models.Report, error) {
	all, err := s.repomanager.Reports(s.db).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing reports: %w", err)
	}

	filtered := make([]models.Report, 0, len(all))
	for i := range all {
		if filter.matches(&all[i]) {
			filtered = append(filtered, all[i])
		}
	}

	return filtered, nil
}

// Get returns a single report with its image references replaced by
// retrieval URLs.
func (s *ReportService) Get(ctx context.Context, id string) (*models.Report, error) {
	report, err := s.repomanager.Reports(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.resolveImageURLs(ctx, report)
	return report, nil
}

// resolveImageURLs swaps stored blob keys for presigned URLs. References that
// are already absolute URLs (legacy intake rows) pass through untouched. A
// presign failure leaves the raw key in place and is logged; the view can
// still render the rest of the report.
func (s *ReportService) resolveImageURLs(ctx context.Context, r *models.Report) {
	for _, field := range []*string{&r.Image, &r.AnnotatedImage, &r.ResolvedImage} {
		if *field == "" || strings.HasPrefix(*field, "http") {
			continue
		}
		url, err := s.store.PresignGetURL(ctx, *field)
		if err != nil {
			s.logger.Error(ctx, "presign failed", "key", *field, "error", err.Error())
			continue
		}
		*field = url
	}
}

// UpdateStatus runs the status workflow for one report.
//
// Order of operations: validate the transition (no writes on failure), check
// the report exists, upload evidence when the target requires it, then issue
// the single persistence write. An upload failure aborts before anything is
// written. A write failure after a successful upload triggers a best-effort
// compensating delete so the blob is not orphaned.
func (s *ReportService) UpdateStatus(ctx context.Context, id string, target models.ReportStatus, evidence []byte, contentType string) error {
	if err := workflow.ValidateTransition(target, len(evidence) > 0); err != nil {
		return err
	}

	repo := s.repomanager.Reports(s.db)

	if _, err := repo.GetByID(ctx, id); err != nil {
		return err
	}

	if !workflow.NeedsUpload(target) {
		if err := repo.UpdateStatus(ctx, id, target); err != nil {
			return fmt.Errorf("%w: %v", common.ErrorPersistence, err)
		}
		return nil
	}

	now := timeNow()
	key := workflow.EvidenceKey(id, now)

	if contentType == "" {
		contentType = "image/jpeg"
	}
	if err := s.store.Upload(ctx, key, evidence, contentType); err != nil {
		return err
	}

	if err := repo.UpdateStatusResolved(ctx, id, target, key, now); err != nil {
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			s.logger.Error(ctx, "orphaned evidence blob", "key", key, "error", delErr.Error())
		}
		return fmt.Errorf("%w: %v", common.ErrorPersistence, err)
	}

	return nil
}

// ReportStats feeds the summary cards on the reports screen.
type ReportStats struct {
	Total     int                       `json:"total"`
	Pending   int                       `json:"pending"`
	Withdrawn int                       `json:"withdrawn"`
	Resolved  int                       `json:"resolved"`
	ByType    map[classify.IssueType]int `json:"byType"`
}

// Stats aggregates counts by status and issue type over all reports.
func (s *ReportService) Stats(ctx context.Context) (*ReportStats, error) {
	all, err := s.repomanager.Reports(s.db).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing reports: %w", err)
	}

	stats := &ReportStats{ByType: make(map[classify.IssueType]int)}
	for i := range all {
		stats.Total++
		switch all[i].Status {
		case models.ReportPending:
			stats.Pending++
		case models.ReportWithdrawn:
			stats.Withdrawn++
		case models.ReportResolved:
			stats.Resolved++
		}
		issueType, _ := classify.Classify(all[i].Detection)
		stats.ByType[issueType]++
	}

	return stats, nil
}

// MonthlyReports returns the reports of one calendar month, newest first,
// for the export workbook. An out-of-range month is a validation error.
func (s *ReportService) MonthlyReports(ctx context.Context, month, year int) ([]models.Report, error) {
	if month < 1 || month > 12 || year == 0 {
		return nil, fmt.Errorf("%w: month and year are required", common.ErrorValidation)
	}
	return s.List(ctx, ReportFilter{Month: month, Year: year})
}
