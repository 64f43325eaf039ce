package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/kuryentech/gardian-admin/internal/server/models"
	"github.com/kuryentech/gardian-admin/internal/server/repositories/repomanager"
)

// FeedbackService serves the citizen feedback screen.
type FeedbackService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewFeedbackService(db *sql.DB, m repomanager.RepositoryManager) *FeedbackService {
	return &FeedbackService{db: db, repomanager: m}
}

// List returns feedback entries, optionally narrowed by a case-insensitive
// search over name, barangay and message.
func (s *FeedbackService) List(ctx context.Context, search string) ([]models.Feedback, error) {
	all, err := s.repomanager.Feedback(s.db).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing feedback: %w", err)
	}

	if search == "" {
		return all, nil
	}

	needle := strings.ToLower(search)
	filtered := make([]models.Feedback, 0, len(all))
	for _, f := range all {
		haystack := strings.ToLower(f.Name + " " + f.Barangay + " " + f.Message)
		if strings.Contains(haystack, needle) {
			filtered = append(filtered, f)
		}
	}

	return filtered, nil
}
