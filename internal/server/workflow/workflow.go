// Package workflow holds the report status machine rules. The transition
// graph is a full mesh: any status may move to any other, including moving a
// resolved report back to pending. The single precondition is that entering
// Resolved requires evidence.
package workflow

import (
	"fmt"
	"time"

	"github.com/kuryentech/gardian-admin/internal/common"
	"github.com/kuryentech/gardian-admin/internal/server/models"
)

// ValidateTransition checks the precondition for moving a report into target.
// It performs no writes; callers must not touch storage or persistence when
// an error is returned.
func ValidateTransition(target models.ReportStatus, hasEvidence bool) error {
	if _, err := models.ParseReportStatus(string(target)); err != nil {
		return fmt.Errorf("%w: %v", common.ErrorValidation, err)
	}
	if target == models.ReportResolved && !hasEvidence {
		return fmt.Errorf("%w: evidence required", common.ErrorValidation)
	}
	return nil
}

// NeedsUpload reports whether the transition uploads evidence at all.
// Only the Resolved transition ever touches the blob store.
func NeedsUpload(target models.ReportStatus) bool {
	return target == models.ReportResolved
}

// EvidenceKey derives the blob-store key for a report's resolution evidence
// from the report ID and the transition time.
func EvidenceKey(reportID string, t time.Time) string {
	return fmt.Sprintf("resolved_images/%s_%d.jpg", reportID, t.UnixMilli())
}
