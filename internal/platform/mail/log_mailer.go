package mail

import (
	"context"
	"log/slog"

	"authvault_backend/internal/feature/auth/usecase"
)

// LogMailer is a notification sink for environments without an SMTP server.
// It logs what would have been sent and never fails. OTP codes are logged so
// local flows can still be completed end to end.
type LogMailer struct{}

var _ usecase.Mailer = (*LogMailer)(nil)

// NewLogMailer creates a LogMailer.
func NewLogMailer() *LogMailer {
	return &LogMailer{}
}

// SendWelcome logs the welcome notification.
func (m *LogMailer) SendWelcome(_ context.Context, email, name string) error {
	slog.Info("mail (log only): welcome", "email", email, "name", name)
	return nil
}

// SendVerificationCode logs the verification code notification.
func (m *LogMailer) SendVerificationCode(_ context.Context, email, code string) error {
	slog.Info("mail (log only): verification code", "email", email, "code", code)
	return nil
}

// SendResetCode logs the reset code notification.
func (m *LogMailer) SendResetCode(_ context.Context, email, code string) error {
	slog.Info("mail (log only): reset code", "email", email, "code", code)
	return nil
}
