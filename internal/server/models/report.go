package models

import (
	"fmt"
	"time"
)

// ReportStatus is the three-state report lifecycle. Any state may move to any
// other; only the transition into Resolved carries a precondition (evidence).
type ReportStatus string

const (
	ReportPending   ReportStatus = "Pending"
	ReportWithdrawn ReportStatus = "Withdrawn"
	ReportResolved  ReportStatus = "Resolved"
)

// ParseReportStatus converts a raw status string, rejecting unknown values.
// An empty string maps to Pending, the intake default.
func ParseReportStatus(s string) (ReportStatus, error) {
	switch ReportStatus(s) {
	case ReportPending, ReportWithdrawn, ReportResolved:
		return ReportStatus(s), nil
	case "":
		return ReportPending, nil
	default:
		return "", fmt.Errorf("unknown report status %q", s)
	}
}

// Detection is the summary produced by the external image classification step.
// It is opaque to the workflow; only the notification classifier interprets it.
type Detection struct {
	DrainageCount    int    `json:"drainageCount"`
	PotholeCount     int    `json:"potholeCount"`
	RoadSurfaceCount int    `json:"roadSurfaceCount"`
	ObstructionCount int    `json:"obstructionCount"`
	Status           string `json:"status,omitempty"`
}

// Report is one citizen-submitted infrastructure issue. Reporter fields are
// filled by the listing join; they are absent on bare lookups.
type Report struct {
	ID             string       `json:"id"`
	UserID         string       `json:"userId"`
	Latitude       float64      `json:"latitude"`
	Longitude      float64      `json:"longitude"`
	Address        string       `json:"address"`
	Image          string       `json:"image,omitempty"`
	AnnotatedImage string       `json:"annotatedImage,omitempty"`
	Status         ReportStatus `json:"status"`
	UploadedAt     time.Time    `json:"uploadedAt"`
	ResolvedImage  string       `json:"resolvedImage,omitempty"`
	ResolvedAt     *time.Time   `json:"resolvedAt,omitempty"`
	Detection      Detection    `json:"detection"`

	ReporterFirstName string `json:"reporterFirstName,omitempty"`
	ReporterLastName  string `json:"reporterLastName,omitempty"`
	ReporterBarangay  string `json:"reporterBarangay,omitempty"`
}

// Street returns the address up to the first comma, the short form used in
// notification messages.
func (r *Report) Street() string {
	for i := 0; i < len(r.Address); i++ {
		if r.Address[i] == ',' {
			return r.Address[:i]
		}
	}
	return r.Address
}
