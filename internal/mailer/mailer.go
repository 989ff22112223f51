package mailer

import "context"

// ConfirmationEmail is sent to the person who submitted feedback.
type ConfirmationEmail struct {
	To      string
	Name    string
	Message string
}

// NotificationEmail is sent to the project owner.
type NotificationEmail struct {
	To      string
	Name    string
	Email   string
	SiteURL string
	Message string
}

// Mailer sends the transactional emails triggered by a feedback
// submission. Implementations must be safe for concurrent use.
type Mailer interface {
	SendConfirmation(ctx context.Context, email ConfirmationEmail) error
	SendNotification(ctx context.Context, email NotificationEmail) error
}
