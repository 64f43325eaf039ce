package services

import (
	"context"
	"testing"
	"time"

	"github.com/kuryentech/gardian-admin/internal/server/models"
)

func newAnalyticsService(t *testing.T, reports *fakeReportsRepo) *AnalyticsService {
	t.Helper()
	db, _ := newSQLMockDB(t)
	t.Cleanup(func() { db.Close() })
	return NewAnalyticsService(db, &fakeRepoManager{r: reports})
}

func TestHeatmap_WeightsAndSkips(t *testing.T) {
	reports := []models.Report{
		{ID: "high", Latitude: 14.6, Longitude: 121.0, Detection: models.Detection{DrainageCount: 1, Status: "Clogged"}},
		{ID: "medium", Latitude: 14.7, Longitude: 121.1, Detection: models.Detection{RoadSurfaceCount: 1}},
		{ID: "low", Latitude: 14.8, Longitude: 121.2, Detection: models.Detection{}},
		// no coordinates
		{ID: "nowhere", Detection: models.Detection{PotholeCount: 9}},
	}
	s := newAnalyticsService(t, &fakeReportsRepo{listOut: reports})

	points, err := s.Heatmap(context.Background())
	if err != nil {
		t.Fatalf("Heatmap error: %v", err)
	}
	if len(points) != 3 {
		t.Fatalf("expected 3 points, got %d", len(points))
	}
	if points[0].Weight != 1.0 {
		t.Fatalf("high severity weight: %v", points[0].Weight)
	}
	if points[1].Weight != 0.6 {
		t.Fatalf("medium severity weight: %v", points[1].Weight)
	}
	if points[2].Weight != 0.2 {
		t.Fatalf("low severity weight: %v", points[2].Weight)
	}
}

func TestMonthlyCounts(t *testing.T) {
	reports := []models.Report{
		{UploadedAt: time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC), Detection: models.Detection{DrainageCount: 1}},
		{UploadedAt: time.Date(2025, 1, 9, 0, 0, 0, 0, time.UTC), Detection: models.Detection{PotholeCount: 1}},
		{UploadedAt: time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), Detection: models.Detection{RoadSurfaceCount: 1}},
		// other year, excluded
		{UploadedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Detection: models.Detection{DrainageCount: 1}},
		// unknown type counts nowhere
		{UploadedAt: time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC), Detection: models.Detection{}},
	}
	s := newAnalyticsService(t, &fakeReportsRepo{listOut: reports})

	buckets, err := s.MonthlyCounts(context.Background(), 2025)
	if err != nil {
		t.Fatalf("MonthlyCounts error: %v", err)
	}
	if len(buckets) != 12 {
		t.Fatalf("expected 12 buckets, got %d", len(buckets))
	}
	jan := buckets[0]
	if jan.Month != "January" || jan.Drainage != 1 || jan.Pothole != 1 || jan.RoadSurface != 0 {
		t.Fatalf("unexpected january bucket: %+v", jan)
	}
	jul := buckets[6]
	if jul.RoadSurface != 1 {
		t.Fatalf("unexpected july bucket: %+v", jul)
	}
}
