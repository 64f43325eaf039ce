package feedback

import (
	"context"

	"github.com/kuryentech/gardian-admin/internal/server/models"
)

// Repository is the persistence contract for citizen feedback.
type Repository interface {
	List(ctx context.Context) ([]models.Feedback, error)
}
