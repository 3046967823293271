package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/chirpdev/accounts/internal/accounts/domain"
	"github.com/chirpdev/accounts/internal/accounts/notify"
	"github.com/chirpdev/accounts/internal/accounts/store"
	"github.com/chirpdev/accounts/pkg/cryptox"
	"github.com/chirpdev/accounts/pkg/idx"
	"github.com/chirpdev/accounts/pkg/slogx"
)

// DefaultResetTokenTTL bounds how long an emailed reset token stays valid.
const DefaultResetTokenTTL = 30 * time.Minute

var (
	ErrEmailNotFound = errors.New("email_not_found")

	// ErrResetTokenNotFound and ErrResetTokenExpiredOrUsed are distinct so
	// operators can tell the cases apart in logs, but HTTP surfaces both as
	// the same "invalid or expired token" rejection. Don't leak which.
	ErrResetTokenNotFound      = errors.New("reset_token_not_found")
	ErrResetTokenExpiredOrUsed = errors.New("reset_token_expired_or_used")
)

// PasswordService owns the reset-token lifecycle: issue, deliver, consume
// exactly once, re-hash.
type PasswordService struct {
	Store    store.Store
	Notifier notify.Notifier
	ResetTTL time.Duration
}

// RequestReset issues a fresh reset token for the account registered under
// email and hands it to the notifier. Outstanding older tokens stay valid:
// issuing does not invalidate prior tokens. That mirrors the long-standing
// behaviour callers rely on; see DESIGN.md before changing it.
func (s *PasswordService) RequestReset(ctx context.Context, email string) error {
	log := slogx.FromContext(ctx)

	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Info("password reset requested for unknown email")
			return ErrEmailNotFound
		}
		log.Error("failed to fetch user by email", slog.Any("error", err))
		return err
	}

	token, err := cryptox.GenerateResetToken()
	if err != nil {
		log.Error("failed to generate reset token", slog.Any("error", err))
		return err
	}

	ttl := s.ResetTTL
	if ttl == 0 {
		ttl = DefaultResetTokenTTL
	}

	row := domain.ResetToken{
		ID:        idx.New().String(),
		UserID:    user.ID,
		TokenHash: cryptox.FingerprintToken(token),
		ExpiresAt: time.Now().UTC().Add(ttl),
		Used:      false,
	}

	if err := s.Store.ResetTokens().CreateResetToken(ctx, row); err != nil {
		log.Error("failed to store reset token",
			slog.String("user_id", user.ID),
			slog.Any("error", err),
		)
		return err
	}

	// Fire-and-forget delivery: a notifier failure is logged, never
	// surfaced, so the row stays consumable if the email went out anyway.
	if err := s.Notifier.Notify(ctx, user.Email, token); err != nil {
		log.Error("reset notification failed",
			slog.String("user_id", user.ID),
			slog.Any("error", err),
		)
	}

	log.Info("reset token issued",
		slog.String("user_id", user.ID),
		slog.Time("expires_at", row.ExpiresAt),
	)
	return nil
}

// Reset consumes a reset token and installs the new password. Consumption
// and credential update happen in one transaction: the conditional update
// marking used=true is the only consumption path, so two concurrent resets
// with the same token cannot both succeed.
func (s *PasswordService) Reset(ctx context.Context, token, newPassword string) (string, error) {
	log := slogx.FromContext(ctx)

	// Hash up front; it's the expensive part and needs no transaction.
	newHash, err := cryptox.HashPassword(newPassword)
	if err != nil {
		log.Error("failed to hash new password", slog.Any("error", err))
		return "", err
	}

	hash := cryptox.FingerprintToken(token)
	now := time.Now().UTC()

	var userID string
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		id, err := tx.ResetTokens().ConsumeResetToken(ctx, hash, now)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return s.classifyConsumeFailure(ctx, tx, hash)
			}
			return err
		}
		userID = id

		return tx.Users().UpdatePasswordHash(ctx, id, newHash)
	})
	if err != nil {
		if errors.Is(err, ErrResetTokenNotFound) || errors.Is(err, ErrResetTokenExpiredOrUsed) {
			log.Info("password reset rejected", slog.Any("reason", err))
		} else {
			log.Error("password reset failed", slog.Any("error", err))
		}
		return "", err
	}

	log.Info("password reset completed", slog.String("user_id", userID))
	return userID, nil
}

// classifyConsumeFailure distinguishes a token that never existed from one
// that is spent or expired. Callers surface both identically; the split
// exists for logs and tests only.
func (s *PasswordService) classifyConsumeFailure(
	ctx context.Context,
	tx store.Tx,
	hash string,
) error {
	_, err := tx.ResetTokens().GetResetTokenByHash(ctx, hash)
	if errors.Is(err, store.ErrNotFound) {
		return ErrResetTokenNotFound
	}
	if err != nil {
		return err
	}
	return ErrResetTokenExpiredOrUsed
}
