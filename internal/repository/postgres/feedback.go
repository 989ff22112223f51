package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/fatitalo/quickfeedback/internal/domain/feedback"
	"github.com/fatitalo/quickfeedback/internal/pkg/errors"
	"github.com/fatitalo/quickfeedback/internal/pkg/metrics"
)

// FeedbackRepository implements feedback.Repository
type FeedbackRepository struct {
	db *DB
}

// NewFeedbackRepository creates a new feedback repository
func NewFeedbackRepository(db *DB) feedback.Repository {
	return &FeedbackRepository{db: db}
}

// Create creates a new feedback row
func (r *FeedbackRepository) Create(ctx context.Context, fb *feedback.Feedback) error {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("create", "feedback", time.Since(start)) }()

	now := time.Now()
	if fb.ID == "" {
		fb.ID = uuid.NewString()
	}
	fb.CreatedAt = now

	query := r.db.Rebind(`
		INSERT INTO feedback (id, name, email, message, site_url, user_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)

	_, err := r.db.ExecContext(ctx, query,
		fb.ID, fb.Name, fb.Email, fb.Message, fb.SiteURL, fb.UserID, now.Unix(),
	)
	if err != nil {
		return errors.DatabaseError("Failed to create feedback", err)
	}

	return nil
}

// List retrieves feedback newest first, optionally filtered by owner
func (r *FeedbackRepository) List(ctx context.Context, ownerID string) ([]*feedback.Feedback, error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("list", "feedback", time.Since(start)) }()

	query := `
		SELECT id, name, email, message, site_url, user_id, created_at
		FROM feedback
		ORDER BY created_at DESC
	`
	args := []interface{}{}

	if ownerID != "" {
		query = `
			SELECT id, name, email, message, site_url, user_id, created_at
			FROM feedback
			WHERE user_id = ?
			ORDER BY created_at DESC
		`
		args = append(args, ownerID)
	}

	rows, err := r.db.QueryContext(ctx, r.db.Rebind(query), args...)
	if err != nil {
		return nil, errors.DatabaseError("Failed to list feedback", err)
	}
	defer rows.Close()

	var items []*feedback.Feedback
	for rows.Next() {
		var fb feedback.Feedback
		var siteURL sql.NullString
		var createdAt int64

		err := rows.Scan(&fb.ID, &fb.Name, &fb.Email, &fb.Message, &siteURL, &fb.UserID, &createdAt)
		if err != nil {
			return nil, errors.DatabaseError("Failed to scan feedback", err)
		}

		if siteURL.Valid {
			fb.SiteURL = &siteURL.String
		}
		fb.CreatedAt = time.Unix(createdAt, 0)

		items = append(items, &fb)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.DatabaseError("Failed to iterate feedback", err)
	}

	return items, nil
}

// Delete removes a feedback row by ID
func (r *FeedbackRepository) Delete(ctx context.Context, id string) (int64, error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("delete", "feedback", time.Since(start)) }()

	result, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM feedback WHERE id = ?`), id)
	if err != nil {
		return 0, errors.DatabaseError("Failed to delete feedback", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, errors.DatabaseError("Failed to get affected rows", err)
	}

	return rows, nil
}
