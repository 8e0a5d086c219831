// Package mail sends the password-reset email.
package mail

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/resend/resend-go/v3"
)

// Sender delivers a password-reset email carrying the reset link.
type Sender interface {
	SendPasswordReset(ctx context.Context, email, username, token string) error
}

const resetSubject = "Réinitialisation du mot de passe - mot de passe oublié"

func resetBody(username, resetURL, token string) string {
	return fmt.Sprintf(`Bonjour %s,

Nous avons reçu une demande réinitialisation de mot de passe pour ton compte WIMF. Si tu n'es pas à l'origine de cette demande, contente toi d'ignorer ce mail.

Si tu es bien à l'origine de cette demande, voici ton lien de réinitialisation de mot de passe : %s/%s !

Ce lien sera fonctionnel pendant les 15 prochaines minutes !`, username, resetURL, token)
}

// ResendSender sends through the Resend API.
type ResendSender struct {
	client   *resend.Client
	from     string
	resetURL string
}

func NewResendSender(apiKey, from, resetURL string) *ResendSender {
	return &ResendSender{
		client:   resend.NewClient(apiKey),
		from:     from,
		resetURL: resetURL,
	}
}

func (s *ResendSender) SendPasswordReset(ctx context.Context, email, username, token string) error {
	req := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{email},
		Subject: resetSubject,
		Text:    resetBody(username, s.resetURL, token),
	}
	if _, err := s.client.Emails.SendWithContext(ctx, req); err != nil {
		return fmt.Errorf("resend: failed to send email: %w", err)
	}
	return nil
}

// LogSender logs instead of sending, for development and tests.
type LogSender struct {
	Logger *slog.Logger
}

func (s *LogSender) SendPasswordReset(ctx context.Context, email, username, token string) error {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.InfoContext(ctx, "password reset email (mail disabled)",
		"to", email,
		"username", username,
		"token", token,
	)
	return nil
}
