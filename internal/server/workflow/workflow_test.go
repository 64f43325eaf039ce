package workflow

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/kuryentech/gardian-admin/internal/common"
	"github.com/kuryentech/gardian-admin/internal/server/models"
)

func TestValidateTransition(t *testing.T) {
	t.Parallel()

	cases := []struct {
		target      models.ReportStatus
		hasEvidence bool
		wantErr     bool
	}{
		{models.ReportPending, false, false},
		{models.ReportPending, true, false},
		{models.ReportWithdrawn, false, false},
		{models.ReportWithdrawn, true, false},
		{models.ReportResolved, true, false},
		{models.ReportResolved, false, true},
		{models.ReportStatus("Closed"), true, true},
	}

	for _, tc := range cases {
		err := ValidateTransition(tc.target, tc.hasEvidence)
		if tc.wantErr {
			if !errors.Is(err, common.ErrorValidation) {
				t.Fatalf("ValidateTransition(%q, %v): want validation error, got %v", tc.target, tc.hasEvidence, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ValidateTransition(%q, %v): unexpected error %v", tc.target, tc.hasEvidence, err)
		}
	}
}

func TestNeedsUpload(t *testing.T) {
	t.Parallel()

	if !NeedsUpload(models.ReportResolved) {
		t.Fatal("resolving must upload evidence")
	}
	if NeedsUpload(models.ReportPending) || NeedsUpload(models.ReportWithdrawn) {
		t.Fatal("only the resolved transition touches the blob store")
	}
}

func TestEvidenceKey(t *testing.T) {
	t.Parallel()

	at := time.UnixMilli(1700000000000)
	got := EvidenceKey("rep-1", at)
	want := fmt.Sprintf("resolved_images/rep-1_%d.jpg", at.UnixMilli())
	if got != want {
		t.Fatalf("EvidenceKey: got %q want %q", got, want)
	}
}
