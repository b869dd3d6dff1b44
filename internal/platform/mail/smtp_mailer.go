package mail

import (
	"context"
	"fmt"

	gomail "github.com/wneessen/go-mail"

	"authvault_backend/internal/feature/auth/usecase"
)

// SMTPMailer sends plaintext notification emails over SMTP.
// All sends are fire-and-forget from the caller's point of view: a failure is
// reported as an error but must never abort the state change that triggered it.
type SMTPMailer struct {
	client *gomail.Client
	from   string
}

var _ usecase.Mailer = (*SMTPMailer)(nil)

// NewSMTPMailer creates an SMTPMailer from the given configuration.
func NewSMTPMailer(cfg Config) (*SMTPMailer, error) {
	client, err := gomail.NewClient(cfg.Host,
		gomail.WithPort(cfg.Port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(cfg.Username),
		gomail.WithPassword(cfg.Password),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create smtp client: %w", err)
	}
	return &SMTPMailer{client: client, from: cfg.From}, nil
}

// SendWelcome sends the registration welcome email.
func (m *SMTPMailer) SendWelcome(ctx context.Context, email, name string) error {
	body := fmt.Sprintf("Hello %s,\n\nWelcome to AuthVault! We're excited to have you on board.\n\n- The Team", name)
	return m.send(ctx, email, "Welcome to AuthVault", body)
}

// SendVerificationCode sends the email-verification OTP.
func (m *SMTPMailer) SendVerificationCode(ctx context.Context, email, code string) error {
	body := fmt.Sprintf("Hello,\n\nYour verification code is: %s\n\nThis code will expire in 24 hours.\n\n- The Team", code)
	return m.send(ctx, email, "Your Verification Code", body)
}

// SendResetCode sends the password-reset OTP.
func (m *SMTPMailer) SendResetCode(ctx context.Context, email, code string) error {
	body := fmt.Sprintf("Hello,\n\nHere is your code to reset your password: %s\n\nThis code is valid for the next 15 minutes.\n\n- The Team", code)
	return m.send(ctx, email, "Your Password Reset Code", body)
}

// send builds and delivers a single plaintext message.
func (m *SMTPMailer) send(ctx context.Context, to, subject, body string) error {
	msg := gomail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return fmt.Errorf("invalid from address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("invalid to address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextPlain, body)

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
