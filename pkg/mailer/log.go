package mailer

import "log"

// LogMailer prints codes to the server log instead of sending email. Used
// in development when no SendGrid key is configured.
type LogMailer struct{}

func (LogMailer) SendOTP(toEmail, code string) error {
	log.Printf("[mailer] otp for %s: %s", toEmail, code)
	return nil
}
