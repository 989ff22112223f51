package services

import (
	"context"
	"time"

	"github.com/fatitalo/quickfeedback/internal/domain/feedback"
	"github.com/fatitalo/quickfeedback/internal/domain/user"
	"github.com/fatitalo/quickfeedback/internal/mailer"
	"github.com/fatitalo/quickfeedback/internal/pkg/logger"
	"github.com/fatitalo/quickfeedback/internal/pkg/metrics"
)

const mailTimeout = 15 * time.Second

// FeedbackService implements feedback.Service
type FeedbackService struct {
	repo     feedback.Repository
	users    user.Repository
	mail     mailer.Mailer
	fallback string
	logger   *logger.Logger
}

// NewFeedbackService creates a new feedback service. fallbackEmail
// receives owner notifications when the project owner cannot be
// resolved; empty disables the fallback.
func NewFeedbackService(repo feedback.Repository, users user.Repository, mail mailer.Mailer, fallbackEmail string, log *logger.Logger) feedback.Service {
	return &FeedbackService{
		repo:     repo,
		users:    users,
		mail:     mail,
		fallback: fallbackEmail,
		logger:   log,
	}
}

// Submit stores a submission and fires the notification emails.
// Email delivery runs in the background; its failures are logged and
// never surface to the submitter.
func (s *FeedbackService) Submit(ctx context.Context, sub feedback.Submission) (*feedback.Feedback, error) {
	// Resolve the owner address before the insert so the notification
	// can go out even if the owner row disappears afterwards.
	ownerEmail := s.fallback
	if owner, err := s.users.GetByID(ctx, sub.ProjectID); err == nil {
		ownerEmail = owner.Email
	} else {
		s.logger.WithFields(map[string]interface{}{
			"project_id": sub.ProjectID,
		}).WithError(err).Warn("Could not resolve project owner, using fallback address")
	}

	fb := &feedback.Feedback{
		Name:    sub.Name,
		Email:   sub.Email,
		Message: sub.Message,
		UserID:  sub.ProjectID,
	}
	if sub.SiteURL != "" {
		fb.SiteURL = &sub.SiteURL
	}

	if err := s.repo.Create(ctx, fb); err != nil {
		metrics.RecordFeedbackSubmission("error")
		return nil, err
	}
	metrics.RecordFeedbackSubmission("ok")

	go s.sendEmails(fb, ownerEmail)

	return fb, nil
}

// sendEmails delivers the submitter confirmation and the owner
// notification. Runs detached from the request.
func (s *FeedbackService) sendEmails(fb *feedback.Feedback, ownerEmail string) {
	ctx, cancel := context.WithTimeout(context.Background(), mailTimeout)
	defer cancel()

	if err := s.mail.SendConfirmation(ctx, mailer.ConfirmationEmail{
		To:      fb.Email,
		Name:    fb.Name,
		Message: fb.Message,
	}); err != nil {
		metrics.RecordEmailSent("confirmation", "error")
		s.logger.ErrorWithErr(err, "Error sending confirmation email")
	} else {
		metrics.RecordEmailSent("confirmation", "ok")
	}

	if ownerEmail == "" {
		s.logger.WithFields(map[string]interface{}{
			"feedback_id": fb.ID,
		}).Warn("No owner address resolved, skipping notification email")
		return
	}

	siteURL := ""
	if fb.SiteURL != nil {
		siteURL = *fb.SiteURL
	}

	if err := s.mail.SendNotification(ctx, mailer.NotificationEmail{
		To:      ownerEmail,
		Name:    fb.Name,
		Email:   fb.Email,
		SiteURL: siteURL,
		Message: fb.Message,
	}); err != nil {
		metrics.RecordEmailSent("notification", "error")
		s.logger.ErrorWithErr(err, "Error sending notification email")
	} else {
		metrics.RecordEmailSent("notification", "ok")
	}
}

// List retrieves feedback newest first, optionally filtered by owner
func (s *FeedbackService) List(ctx context.Context, ownerID string) ([]*feedback.Feedback, error) {
	return s.repo.List(ctx, ownerID)
}

// Delete removes a feedback row. Deleting an absent row succeeds so
// the dashboard's delete button is idempotent.
func (s *FeedbackService) Delete(ctx context.Context, id string) error {
	rows, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}

	if rows == 0 {
		s.logger.WithFields(map[string]interface{}{
			"feedback_id": id,
		}).Debug("Delete matched no rows")
	}

	return nil
}
