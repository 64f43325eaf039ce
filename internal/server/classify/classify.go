// Package classify derives an issue type and severity from a report's
// detection summary. The function is pure and total: every input maps to
// exactly one (type, severity) pair.
package classify

import "github.com/kuryentech/gardian-admin/internal/server/models"

type IssueType string

const (
	IssueDrainage    IssueType = "Drainage"
	IssuePothole     IssueType = "Pothole"
	IssueRoadSurface IssueType = "Road Surface"
	IssueUnknown     IssueType = "Unknown"
)

type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// drainageClogged is the detection status that always escalates a drainage
// issue to high severity.
const drainageClogged = "Clogged"

// Classify picks the issue type by fixed precedence (drainage, then pothole,
// then road surface) and derives severity from type-specific thresholds.
func Classify(det models.Detection) (IssueType, Severity) {
	switch {
	case det.DrainageCount > 0:
		if det.Status == drainageClogged || det.ObstructionCount > 2 {
			return IssueDrainage, SeverityHigh
		}
		if det.ObstructionCount > 0 {
			return IssueDrainage, SeverityMedium
		}
		return IssueDrainage, SeverityLow
	case det.PotholeCount > 0:
		if det.PotholeCount > 3 {
			return IssuePothole, SeverityHigh
		}
		return IssuePothole, SeverityMedium
	case det.RoadSurfaceCount > 0:
		return IssueRoadSurface, SeverityMedium
	default:
		return IssueUnknown, SeverityLow
	}
}

// Score maps a severity to the numeric weight used by the heatmap view:
// high=5, medium=3, low=1.
func Score(s Severity) int {
	switch s {
	case SeverityHigh:
		return 5
	case SeverityMedium:
		return 3
	default:
		return 1
	}
}

// Rank orders severities for notification sorting; lower sorts first.
func Rank(s Severity) int {
	switch s {
	case SeverityHigh:
		return 0
	case SeverityMedium:
		return 1
	default:
		return 2
	}
}
