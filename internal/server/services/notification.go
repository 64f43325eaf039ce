package services

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	"github.com/kuryentech/gardian-admin/internal/server/classify"
	"github.com/kuryentech/gardian-admin/internal/server/models"
	"github.com/kuryentech/gardian-admin/internal/server/repositories/repomanager"
)

// Notification is one entry in the topbar dropdown, derived from a report.
type Notification struct {
	ID               string              `json:"id"`
	UserID           string              `json:"userId"`
	ReporterName     string              `json:"reporterName,omitempty"`
	IssueType        classify.IssueType  `json:"issueType"`
	Street           string              `json:"street"`
	Status           models.ReportStatus `json:"status"`
	Severity         classify.Severity   `json:"severity"`
	UploadedAt       time.Time           `json:"uploadedAt"`
	Message          string              `json:"message"`
	Type             string              `json:"type"`
	ObstructionCount int                 `json:"obstructionCount"`
	DrainageStatus   string              `json:"drainageStatus,omitempty"`
}

// NotificationService derives the notification feed from the report list.
type NotificationService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewNotificationService(db *sql.DB, m repomanager.RepositoryManager) *NotificationService {
	return &NotificationService{db: db, repomanager: m}
}

// buildNotification classifies one report and renders its message.
func buildNotification(r *models.Report) Notification {
	issueType, severity := classify.Classify(r.Detection)
	street := r.Street()

	var message, notifType string
	switch r.Status {
	case models.ReportResolved:
		message = fmt.Sprintf("%s issue at %s has been resolved", issueType, street)
		notifType = "resolved"
	case models.ReportWithdrawn:
		message = fmt.Sprintf("%s report at %s was withdrawn", issueType, street)
		notifType = "withdrawn"
	default:
		message = fmt.Sprintf("New %s report at %s", issueType, street)
		notifType = "new"
	}

	reporter := ""
	if r.ReporterFirstName != "" || r.ReporterLastName != "" {
		reporter = r.ReporterFirstName + " " + r.ReporterLastName
	}

	return Notification{
		ID:               r.ID,
		UserID:           r.UserID,
		ReporterName:     reporter,
		IssueType:        issueType,
		Street:           street,
		Status:           r.Status,
		Severity:         severity,
		UploadedAt:       r.UploadedAt,
		Message:          message,
		Type:             notifType,
		ObstructionCount: r.Detection.ObstructionCount,
		DrainageStatus:   r.Detection.Status,
	}
}

// List builds notifications for every report, high severity first, newest
// first within the same severity. Filter accepts "pending" and "resolved";
// anything else means all.
func (s *NotificationService) List(ctx context.Context, filter string) ([]Notification, error) {
	reports, err := s.repomanager.Reports(s.db).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing reports: %w", err)
	}

	notifications := make([]Notification, 0, len(reports))
	for i := range reports {
		n := buildNotification(&reports[i])
		switch filter {
		case "pending":
			if n.Status != models.ReportPending {
				continue
			}
		case "resolved":
			if n.Status != models.ReportResolved {
				continue
			}
		}
		notifications = append(notifications, n)
	}

	sort.SliceStable(notifications, func(i, j int) bool {
		ri, rj := classify.Rank(notifications[i].Severity), classify.Rank(notifications[j].Severity)
		if ri != rj {
			return ri < rj
		}
		return notifications[i].UploadedAt.After(notifications[j].UploadedAt)
	})

	return notifications, nil
}
