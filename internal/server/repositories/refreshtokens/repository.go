package refreshtokens

import (
	"context"
	"time"

	"github.com/kuryentech/gardian-admin/internal/server/models"
)

// Repository is the persistence contract for refresh tokens.
type Repository interface {
	Create(ctx context.Context, userID string, token string, validity time.Duration) error
	Find(ctx context.Context, token string) (*models.RefreshToken, error)
	Delete(ctx context.Context, token string) error
}
