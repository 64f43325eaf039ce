package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/kuryentech/gardian-admin/internal/server/classify"
	"github.com/kuryentech/gardian-admin/internal/server/repositories/repomanager"
)

// HeatPoint is one weighted coordinate for the analytics heatmap layer.
// Weight is the severity score normalized to [0,1].
type HeatPoint struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
	Weight    float64 `json:"weight"`
}

// MonthlyBucket is one month's report counts by issue type, feeding the
// barangay report chart.
type MonthlyBucket struct {
	Month       string `json:"month"`
	Drainage    int    `json:"drainage"`
	Pothole     int    `json:"pothole"`
	RoadSurface int    `json:"roadSurface"`
}

// AnalyticsService aggregates report data for the dashboard charts.
type AnalyticsService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewAnalyticsService(db *sql.DB, m repomanager.RepositoryManager) *AnalyticsService {
	return &AnalyticsService{db: db, repomanager: m}
}

// Heatmap returns one weighted point per report with known coordinates.
func (s *AnalyticsService) Heatmap(ctx context.Context) ([]HeatPoint, error) {
	reports, err := s.repomanager.Reports(s.db).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing reports: %w", err)
	}

	points := make([]HeatPoint, 0, len(reports))
	for i := range reports {
		r := &reports[i]
		if r.Latitude == 0 && r.Longitude == 0 {
			continue
		}
		_, severity := classify.Classify(r.Detection)
		points = append(points, HeatPoint{
			Latitude:  r.Latitude,
			Longitude: r.Longitude,
			Weight:    float64(classify.Score(severity)) / 5,
		})
	}

	return points, nil
}

// MonthlyCounts returns twelve buckets of per-type report counts for year.
func (s *AnalyticsService) MonthlyCounts(ctx context.Context, year int) ([]MonthlyBucket, error) {
	reports, err := s.repomanager.Reports(s.db).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing reports: %w", err)
	}

	buckets := make([]MonthlyBucket, 12)
	for m := time.January; m <= time.December; m++ {
		buckets[m-1].Month = m.String()
	}

	for i := range reports {
		r := &reports[i]
		if r.UploadedAt.Year() != year {
			continue
		}
		bucket := &buckets[r.UploadedAt.Month()-1]
		issueType, _ := classify.Classify(r.Detection)
		switch issueType {
		case classify.IssueDrainage:
			bucket.Drainage++
		case classify.IssuePothole:
			bucket.Pothole++
		case classify.IssueRoadSurface:
			bucket.RoadSurface++
		}
	}

	return buckets, nil
}
