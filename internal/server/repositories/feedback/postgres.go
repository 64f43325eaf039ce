// Package feedback provides a PostgreSQL-backed repository for citizen
// feedback entries shown on the feedback dashboard.
package feedback

import (
	"context"
	"fmt"

	"github.com/kuryentech/gardian-admin/internal/dbx"
	"github.com/kuryentech/gardian-admin/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// List returns all feedback entries, newest first.
func (r *PostgresRepository) List(ctx context.Context) ([]models.Feedback, error) {
	query := `
		SELECT f.id, f.user_id, COALESCE(u.first_name || ' ' || u.last_name, ''), COALESCE(u.barangay, ''),
		       f.message, f.rating, f.created_at
		FROM feedback f
		LEFT JOIN users u ON u.id = f.user_id
		ORDER BY f.created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []models.Feedback
	for rows.Next() {
		var f models.Feedback
		if err := rows.Scan(&f.ID, &f.UserID, &f.Name, &f.Barangay, &f.Message, &f.Rating, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}
