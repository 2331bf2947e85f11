package service

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"learnledger-backend/internal/logger"
)

type emailService struct {
	apiKey    string
	fromEmail string
	fromName  string
}

// NewEmailService builds the SendGrid-backed notifier. With an empty API key
// messages are logged instead of sent, which keeps local development working
// without credentials.
func NewEmailService(apiKey, fromEmail, fromName string) EmailService {
	return &emailService{
		apiKey:    apiKey,
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

func (s *emailService) send(ctx context.Context, to, subject, plainText, htmlContent string) error {
	if s.apiKey == "" {
		logger.Info("email delivery skipped (no API key configured)",
			"to", to, "subject", subject)
		return nil
	}

	from := mail.NewEmail(s.fromName, s.fromEmail)
	recipient := mail.NewEmail("", to)
	message := mail.NewSingleEmail(from, subject, recipient, plainText, htmlContent)

	client := sendgrid.NewSendClient(s.apiKey)
	response, err := client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}
	return nil
}

func (s *emailService) SendEnrollmentRequestNotification(ctx context.Context, instructorEmail, learnerName, courseTitle string) error {
	subject := fmt.Sprintf("New enrollment request: %s", courseTitle)
	plainText := fmt.Sprintf("%s purchased %s and is waiting for your approval.", learnerName, courseTitle)
	htmlContent := fmt.Sprintf("<p><strong>%s</strong> purchased <strong>%s</strong> and is waiting for your approval.</p>", learnerName, courseTitle)
	return s.send(ctx, instructorEmail, subject, plainText, htmlContent)
}

func (s *emailService) SendEnrollmentDecisionNotification(ctx context.Context, learnerEmail, courseTitle string, approved bool) error {
	if approved {
		subject := fmt.Sprintf("Enrollment approved: %s", courseTitle)
		plainText := fmt.Sprintf("Your enrollment in %s has been approved. Happy learning!", courseTitle)
		htmlContent := fmt.Sprintf("<p>Your enrollment in <strong>%s</strong> has been approved. Happy learning!</p>", courseTitle)
		return s.send(ctx, learnerEmail, subject, plainText, htmlContent)
	}
	subject := fmt.Sprintf("Enrollment declined: %s", courseTitle)
	plainText := fmt.Sprintf("Your enrollment in %s was declined. The purchase has been refunded in full.", courseTitle)
	htmlContent := fmt.Sprintf("<p>Your enrollment in <strong>%s</strong> was declined. The purchase has been refunded in full.</p>", courseTitle)
	return s.send(ctx, learnerEmail, subject, plainText, htmlContent)
}

func (s *emailService) SendCertificateNotification(ctx context.Context, learnerEmail, courseTitle, certificateID string) error {
	subject := fmt.Sprintf("Certificate earned: %s", courseTitle)
	plainText := fmt.Sprintf("Congratulations! You completed %s. Your certificate ID is %s.", courseTitle, certificateID)
	htmlContent := fmt.Sprintf("<p>Congratulations! You completed <strong>%s</strong>.</p><p>Your certificate ID is <code>%s</code>.</p>", courseTitle, certificateID)
	return s.send(ctx, learnerEmail, subject, plainText, htmlContent)
}
