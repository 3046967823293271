package domain

import "time"

// ResetToken models a stored password-reset token. Only the SHA-256
// fingerprint of the opaque token is persisted; the raw value exists solely
// in the email sent to the account owner.
//
// Lifecycle: created -> optionally consumed once before ExpiresAt ->
// permanently inert (used or expired). Used is flipped exactly once and
// never cleared.
type ResetToken struct {
	ID        string
	UserID    string
	TokenHash string
	ExpiresAt time.Time
	Used      bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Consumable reports whether the token could still be consumed at the given
// instant. The authoritative check is the store's conditional update; this
// exists for classification and tests.
func (t ResetToken) Consumable(now time.Time) bool {
	return !t.Used && now.Before(t.ExpiresAt)
}
