package services

import (
	"context"
	"errors"
	"testing"

	"github.com/kuryentech/gardian-admin/internal/common"
)

func newExportService(t *testing.T, reports *fakeReportsRepo) *ExportService {
	t.Helper()
	return NewExportService(newReportService(t, reports, &fakeEvidenceStore{}))
}

func TestWorkbookName(t *testing.T) {
	t.Parallel()

	if got := WorkbookName(3, 2025); got != "reports_2025_03.xlsx" {
		t.Fatalf("WorkbookName: got %q", got)
	}
}

func TestBuildMonthlyWorkbook(t *testing.T) {
	s := newExportService(t, &fakeReportsRepo{listOut: sampleReports()})

	f, err := s.BuildMonthlyWorkbook(context.Background(), 3, 2025)
	if err != nil {
		t.Fatalf("BuildMonthlyWorkbook error: %v", err)
	}
	defer f.Close()

	period, err := f.GetCellValue("Summary", "B1")
	if err != nil {
		t.Fatalf("GetCellValue error: %v", err)
	}
	if period != "March 2025" {
		t.Fatalf("unexpected period: %q", period)
	}

	total, err := f.GetCellValue("Summary", "B2")
	if err != nil {
		t.Fatalf("GetCellValue error: %v", err)
	}
	if total != "2" {
		t.Fatalf("unexpected total: %q", total)
	}

	header, err := f.GetCellValue("Reports", "A1")
	if err != nil {
		t.Fatalf("GetCellValue error: %v", err)
	}
	if header != "Report ID" {
		t.Fatalf("unexpected header: %q", header)
	}

	// rep-1 is the newer of the two march reports, so it comes first
	first, err := f.GetCellValue("Reports", "A2")
	if err != nil {
		t.Fatalf("GetCellValue error: %v", err)
	}
	if first != "rep-1" {
		t.Fatalf("unexpected first row: %q", first)
	}
}

func TestBuildMonthlyWorkbook_InvalidMonth(t *testing.T) {
	s := newExportService(t, &fakeReportsRepo{})

	_, err := s.BuildMonthlyWorkbook(context.Background(), 0, 2025)
	if !errors.Is(err, common.ErrorValidation) {
		t.Fatalf("expected ErrorValidation, got %v", err)
	}
}

func TestBuildMonthlyWorkbook_ListError(t *testing.T) {
	s := newExportService(t, &fakeReportsRepo{listErr: errors.New("db down")})

	if _, err := s.BuildMonthlyWorkbook(context.Background(), 3, 2025); err == nil {
		t.Fatal("expected error when listing fails")
	}
}
