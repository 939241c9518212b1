package service

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"rentwheels-backend/internal/logger"
)

type sendgridEmailService struct {
	apiKey    string
	fromEmail string
	fromName  string
	opsEmail  string
}

func NewSendgridEmailService(apiKey, fromEmail, fromName, opsEmail string) EmailService {
	return &sendgridEmailService{
		apiKey:    apiKey,
		fromEmail: fromEmail,
		fromName:  fromName,
		opsEmail:  opsEmail,
	}
}

func (s *sendgridEmailService) SendLifecycleNotice(ctx context.Context, subject, body string) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	recipient := mail.NewEmail("Operations", s.opsEmail)
	message := mail.NewSingleEmail(from, subject, recipient, body, "")

	logger.ExternalServiceCall("sendgrid", "send", "subject", subject)
	client := sendgrid.NewSendClient(s.apiKey)
	response, err := client.Send(message)
	logger.ExternalServiceResult("sendgrid", "send", err)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}
	return nil
}
