package sqlite

import (
	"context"
	"time"

	"github.com/chirpdev/accounts/internal/accounts/domain"
)

type resetTokensRepo struct {
	q queryer
}

func (r *resetTokensRepo) CreateResetToken(ctx context.Context, t domain.ResetToken) error {
	now := time.Now().UTC()
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO reset_tokens (id, user_id, token_hash, expires_at, used, created_at, updated_at)
		 VALUES (?, ?, ?, ?, 0, ?, ?)`,
		t.ID, t.UserID, t.TokenHash, t.ExpiresAt.UTC(), now, now,
	)
	return mapConstraint(err)
}

func (r *resetTokensRepo) GetResetTokenByHash(
	ctx context.Context,
	hash string,
) (domain.ResetToken, error) {
	var t domain.ResetToken
	err := r.q.QueryRowContext(ctx,
		`SELECT id, user_id, token_hash, expires_at, used, created_at, updated_at
		 FROM reset_tokens WHERE token_hash = ?`, hash,
	).Scan(&t.ID, &t.UserID, &t.TokenHash, &t.ExpiresAt, &t.Used, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return domain.ResetToken{}, mapNotFound(err)
	}
	return t, nil
}

// ConsumeResetToken is the single atomic check-and-mark. Two concurrent
// consumers of the same token race on this UPDATE; sqlite serializes writers,
// so exactly one sees a qualifying row and the other gets ErrNotFound.
func (r *resetTokensRepo) ConsumeResetToken(
	ctx context.Context,
	hash string,
	now time.Time,
) (string, error) {
	var userID string
	err := r.q.QueryRowContext(ctx,
		`UPDATE reset_tokens
		 SET used = 1, updated_at = ?
		 WHERE token_hash = ? AND used = 0 AND expires_at > ?
		 RETURNING user_id`,
		now.UTC(), hash, now.UTC(),
	).Scan(&userID)
	if err != nil {
		return "", mapNotFound(err)
	}
	return userID, nil
}

func (r *resetTokensRepo) DeleteExpiredResetTokens(ctx context.Context, now time.Time) error {
	_, err := r.q.ExecContext(ctx,
		`DELETE FROM reset_tokens WHERE expires_at <= ? OR used = 1`, now.UTC())
	return err
}
