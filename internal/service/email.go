package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type emailService struct {
	apiKey    string
	fromEmail string
	fromName  string
}

func NewEmailService(apiKey, fromEmail, fromName string) EmailService {
	return &emailService{
		apiKey:    apiKey,
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

func (s *emailService) send(to, toName, subject, plainText string) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	recipient := mail.NewEmail(toName, to)
	message := mail.NewSingleEmail(from, subject, recipient, plainText, "")

	client := sendgrid.NewSendClient(s.apiKey)
	response, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}
	return nil
}

func (s *emailService) SendAccountStatusNotification(ctx context.Context, email, name, status, reason string) error {
	subject := "Account Status Update"
	body := fmt.Sprintf("Hello %s,\n\nYour account status has been updated to: %s.", name, status)
	if reason != "" {
		body += fmt.Sprintf("\n\nReason: %s", reason)
	}
	body += "\n\nBest regards,\nThe OfficeTrack Team"
	return s.send(email, name, subject, body)
}

func (s *emailService) SendAttendanceSummary(ctx context.Context, email, officeName string, date time.Time, present int32, target *int32) error {
	subject := fmt.Sprintf("Attendance Summary - %s - %s", officeName, date.Format("2006-01-02"))
	body := fmt.Sprintf("Hello,\n\n%d employees marked attendance at %s on %s.", present, officeName, date.Format("2006-01-02"))
	if target != nil {
		body += fmt.Sprintf("\nHeadcount target: %d.", *target)
	}
	body += "\n\nBest regards,\nThe OfficeTrack Team"
	return s.send(email, "", subject, body)
}
