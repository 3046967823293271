package notify

import (
	"context"
	"log/slog"
)

// Notifier delivers a password-reset token to an account's registered email.
// Delivery is fire-and-forget from the caller's point of view: failures are
// logged but must never abort the issuing flow.
type Notifier interface {
	Notify(ctx context.Context, email, resetToken string) error
}

// LogNotifier is the stand-in delivery mechanism: it writes the reset token
// to the service log instead of sending mail. Real delivery would implement
// Notifier against an email provider.
type LogNotifier struct {
	Logger *slog.Logger
}

func (n *LogNotifier) Notify(ctx context.Context, email, resetToken string) error {
	logger := n.Logger
	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("password reset notification",
		slog.String("email", email),
		slog.String("reset_token", resetToken),
	)
	return nil
}
