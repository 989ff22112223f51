package feedback

import "context"

// Repository defines the interface for feedback data access
type Repository interface {
	// Create creates a new feedback row
	Create(ctx context.Context, fb *Feedback) error

	// List retrieves feedback newest first. An empty ownerID returns
	// all rows; otherwise only rows belonging to that owner.
	List(ctx context.Context, ownerID string) ([]*Feedback, error)

	// Delete removes a feedback row by ID and returns the number of
	// rows affected. Zero rows is not an error.
	Delete(ctx context.Context, id string) (int64, error)
}
