package services

import (
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/kuryentech/gardian-admin/internal/server/classify"
	"github.com/kuryentech/gardian-admin/internal/server/models"
)

// ExportService builds the downloadable monthly workbook.
type ExportService struct {
	reports *ReportService
}

func NewExportService(reports *ReportService) *ExportService {
	return &ExportService{reports: reports}
}

// WorkbookName returns the suggested filename for a monthly export.
func WorkbookName(month, year int) string {
	return fmt.Sprintf("reports_%04d_%02d.xlsx", year, month)
}

// BuildMonthlyWorkbook assembles an xlsx file with a Summary sheet of
// aggregate counts and a Reports sheet listing the month's reports, newest
// first. The caller owns closing the returned file.
func (s *ExportService) BuildMonthlyWorkbook(ctx context.Context, month, year int) (*excelize.File, error) {
	reports, err := s.reports.MonthlyReports(ctx, month, year)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()

	if err := writeSummarySheet(f, reports, month, year); err != nil {
		f.Close()
		return nil, fmt.Errorf("error writing summary sheet: %w", err)
	}
	if err := writeReportsSheet(f, reports); err != nil {
		f.Close()
		return nil, fmt.Errorf("error writing reports sheet: %w", err)
	}

	f.DeleteSheet("Sheet1")
	idx, err := f.GetSheetIndex("Summary")
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("error finalizing workbook: %w", err)
	}
	f.SetActiveSheet(idx)

	return f, nil
}

func writeSummarySheet(f *excelize.File, reports []models.Report, month, year int) error {
	const sheet = "Summary"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	var pending, withdrawn, resolved int
	byType := make(map[classify.IssueType]int)
	for i := range reports {
		switch reports[i].Status {
		case models.ReportPending:
			pending++
		case models.ReportWithdrawn:
			withdrawn++
		case models.ReportResolved:
			resolved++
		}
		issueType, _ := classify.Classify(reports[i].Detection)
		byType[issueType]++
	}

	rows := [][]interface{}{
		{"Period", fmt.Sprintf("%s %d", time.Month(month).String(), year)},
		{"Total Reports", len(reports)},
		{"Pending", pending},
		{"Withdrawn", withdrawn},
		{"Resolved", resolved},
		{"Drainage", byType[classify.IssueDrainage]},
		{"Pothole", byType[classify.IssuePothole]},
		{"Road Surface", byType[classify.IssueRoadSurface]},
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}

	return nil
}

func writeReportsSheet(f *excelize.File, reports []models.Report) error {
	const sheet = "Reports"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	header := []interface{}{
		"Report ID", "Reporter", "Barangay", "Address",
		"Issue Type", "Severity", "Status", "Uploaded At", "Resolved At",
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	for i := range reports {
		r := &reports[i]
		issueType, severity := classify.Classify(r.Detection)

		resolvedAt := ""
		if r.ResolvedAt != nil {
			resolvedAt = r.ResolvedAt.Format(time.RFC3339)
		}

		row := []interface{}{
			r.ID,
			r.ReporterFirstName + " " + r.ReporterLastName,
			r.ReporterBarangay,
			r.Address,
			string(issueType),
			string(severity),
			string(r.Status),
			r.UploadedAt.Format(time.RFC3339),
			resolvedAt,
		}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}

	return nil
}
