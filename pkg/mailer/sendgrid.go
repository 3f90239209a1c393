// Package mailer sends transactional email through SendGrid.
package mailer

import (
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type SendGridMailer struct {
	client    *sendgrid.Client
	fromName  string
	fromEmail string
}

func NewSendGridMailer(apiKey, fromName, fromEmail string) *SendGridMailer {
	return &SendGridMailer{
		client:    sendgrid.NewSendClient(apiKey),
		fromName:  fromName,
		fromEmail: fromEmail,
	}
}

// SendOTP emails a password reset code.
func (m *SendGridMailer) SendOTP(toEmail, code string) error {
	message := mail.NewV3Mail()
	message.From = mail.NewEmail(m.fromName, m.fromEmail)
	message.Subject = "Your HAVN password reset code"

	personalization := mail.NewPersonalization()
	personalization.To = append(personalization.To, mail.NewEmail("", toEmail))
	message.Personalizations = append(message.Personalizations, personalization)

	body := fmt.Sprintf("Your HAVN verification code is %s.\n\nIt expires in 5 minutes. If you did not request a password reset you can ignore this email.\n", code)
	message.Content = append(message.Content, mail.NewContent("text/plain", body))

	resp, err := m.client.Send(message)
	if err != nil {
		return fmt.Errorf("while sending mail through SendGrid: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("non-2XX response while sending mail through SendGrid: %d %s", resp.StatusCode, resp.Body)
	}
	return nil
}
