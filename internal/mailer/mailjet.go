package mailer

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	mailjet "github.com/mailjet/mailjet-apiv3-go"
)

var confirmationTmpl = template.Must(template.New("confirmation").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #1f2937;">Thank you for your feedback, {{.Name}}!</h2>
  <p style="color: #4b5563; line-height: 1.6;">
    We've received your message and appreciate you taking the time to share your thoughts with us.
  </p>
  <div style="background-color: #f3f4f6; padding: 16px; border-radius: 8px; margin: 20px 0;">
    <p style="color: #1f2937; margin: 0;"><strong>Your message:</strong></p>
    <p style="color: #4b5563; margin: 8px 0 0 0; white-space: pre-wrap;">{{.Message}}</p>
  </div>
  <p style="color: #6b7280; font-size: 14px; margin-top: 20px;">
    Best regards,<br>
    The QuickFeedback Team
  </p>
</div>
`))

var notificationTmpl = template.Must(template.New("notification").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #1f2937;">New Feedback Received</h2>
  <div style="background-color: #f3f4f6; padding: 20px; border-radius: 8px; margin: 20px 0;">
    <p style="color: #1f2937; margin: 8px 0;"><strong>Name:</strong> {{.Name}}</p>
    <p style="color: #1f2937; margin: 8px 0;"><strong>Email:</strong> {{.Email}}</p>
    <p style="color: #1f2937; margin: 8px 0;"><strong>Site URL:</strong> {{.SiteURL}}</p>
    <div style="margin-top: 16px; padding-top: 16px; border-top: 1px solid #d1d5db;">
      <p style="color: #1f2937; margin: 0 0 8px 0;"><strong>Message:</strong></p>
      <p style="color: #4b5563; margin: 0; white-space: pre-wrap; line-height: 1.6;">{{.Message}}</p>
    </div>
  </div>
</div>
`))

// Mailjet sends email through the Mailjet v3.1 API.
type Mailjet struct {
	client    *mailjet.Client
	fromEmail string
	fromName  string
}

// NewMailjet creates a Mailjet-backed mailer.
func NewMailjet(apiKey, secretKey, fromEmail, fromName string) *Mailjet {
	return &Mailjet{
		client:    mailjet.NewMailjetClient(apiKey, secretKey),
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

// SendConfirmation sends the thank-you email to the submitter.
func (m *Mailjet) SendConfirmation(ctx context.Context, email ConfirmationEmail) error {
	var body bytes.Buffer
	if err := confirmationTmpl.Execute(&body, email); err != nil {
		return fmt.Errorf("render confirmation email: %w", err)
	}
	return m.send(email.To, "Thanks for your feedback!", body.String())
}

// SendNotification sends the new-feedback email to the project owner.
func (m *Mailjet) SendNotification(ctx context.Context, email NotificationEmail) error {
	if email.SiteURL == "" {
		email.SiteURL = "Not provided"
	}
	var body bytes.Buffer
	if err := notificationTmpl.Execute(&body, email); err != nil {
		return fmt.Errorf("render notification email: %w", err)
	}
	return m.send(email.To, "New Feedback Received!", body.String())
}

func (m *Mailjet) send(to, subject, html string) error {
	messages := mailjet.MessagesV31{
		Info: []mailjet.InfoMessagesV31{{
			From: &mailjet.RecipientV31{
				Email: m.fromEmail,
				Name:  m.fromName,
			},
			To:       &mailjet.RecipientsV31{mailjet.RecipientV31{Email: to}},
			Subject:  subject,
			HTMLPart: html,
		}},
	}

	if _, err := m.client.SendMailV31(&messages); err != nil {
		return fmt.Errorf("could not send mail: %w", err)
	}
	return nil
}
