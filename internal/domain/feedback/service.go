package feedback

import "context"

// Submission carries the fields accepted from the widget
type Submission struct {
	Name      string
	Email     string
	Message   string
	SiteURL   string
	ProjectID string
}

// Service defines the interface for feedback business logic
type Service interface {
	// Submit stores a submission and triggers the notification
	// emails. Email delivery failures never fail the submission.
	Submit(ctx context.Context, sub Submission) (*Feedback, error)

	// List retrieves feedback newest first, optionally filtered by
	// owner.
	List(ctx context.Context, ownerID string) ([]*Feedback, error)

	// Delete removes a feedback row. Deleting an absent row succeeds.
	Delete(ctx context.Context, id string) error
}
