package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/chirpdev/accounts/internal/accounts/store"
	"github.com/chirpdev/accounts/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

// captureNotifier records every delivered token instead of sending mail.
type captureNotifier struct {
	mu     sync.Mutex
	emails []string
	tokens []string
}

func (n *captureNotifier) Notify(ctx context.Context, email, resetToken string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.emails = append(n.emails, email)
	n.tokens = append(n.tokens, resetToken)
	return nil
}

func (n *captureNotifier) last(t *testing.T) string {
	t.Helper()
	n.mu.Lock()
	defer n.mu.Unlock()
	require.NotEmpty(t, n.tokens)
	return n.tokens[len(n.tokens)-1]
}

func newPasswordFixture(t *testing.T) (*PasswordService, *AccountService, *captureNotifier) {
	t.Helper()

	account := newAccountService(t)
	notifier := &captureNotifier{}

	password := &PasswordService{
		Store:    account.Store,
		Notifier: notifier,
		ResetTTL: 30 * time.Minute,
	}
	return password, account, notifier
}

func TestRequestResetDeliversUsableToken(t *testing.T) {
	ctx := context.Background()
	password, account, notifier := newPasswordFixture(t)

	user, _, err := account.SignUp(ctx, "erin", "erin@example.com", "first password")
	require.NoError(t, err)

	require.NoError(t, password.RequestReset(ctx, "erin@example.com"))

	token := notifier.last(t)
	require.Len(t, token, cryptox.ResetTokenLength)
	require.Equal(t, []string{"erin@example.com"}, notifier.emails)

	// Only the fingerprint is at rest.
	row, err := account.Store.ResetTokens().GetResetTokenByHash(ctx, cryptox.FingerprintToken(token))
	require.NoError(t, err)
	require.Equal(t, user.ID, row.UserID)
	require.False(t, row.Used)
	require.NotEqual(t, token, row.TokenHash)
}

func TestRequestResetUnknownEmail(t *testing.T) {
	ctx := context.Background()
	password, _, _ := newPasswordFixture(t)

	err := password.RequestReset(ctx, "ghost@example.com")
	require.ErrorIs(t, err, ErrEmailNotFound)
}

func TestRequestResetHonorsConfiguredTTL(t *testing.T) {
	ctx := context.Background()
	password, account, notifier := newPasswordFixture(t)

	_, _, err := account.SignUp(ctx, "dave", "dave@example.com", "dave password")
	require.NoError(t, err)

	// Zero falls back to the default window.
	password.ResetTTL = 0
	require.NoError(t, password.RequestReset(ctx, "dave@example.com"))
	row, err := account.Store.ResetTokens().GetResetTokenByHash(ctx, cryptox.FingerprintToken(notifier.last(t)))
	require.NoError(t, err)
	require.True(t, row.ExpiresAt.After(time.Now().UTC()))

	// A negative window must produce rows that are already past due.
	password.ResetTTL = -time.Minute
	require.NoError(t, password.RequestReset(ctx, "dave@example.com"))
	row, err = account.Store.ResetTokens().GetResetTokenByHash(ctx, cryptox.FingerprintToken(notifier.last(t)))
	require.NoError(t, err)
	require.True(t, row.ExpiresAt.Before(time.Now().UTC()))
}

func TestRequestResetKeepsOlderTokensValid(t *testing.T) {
	ctx := context.Background()
	password, account, notifier := newPasswordFixture(t)

	user, _, err := account.SignUp(ctx, "frank", "frank@example.com", "old password")
	require.NoError(t, err)

	require.NoError(t, password.RequestReset(ctx, "frank@example.com"))
	first := notifier.last(t)
	require.NoError(t, password.RequestReset(ctx, "frank@example.com"))

	// The earlier token still consumes even though a newer one exists.
	userID, err := password.Reset(ctx, first, "brand new password")
	require.NoError(t, err)
	require.Equal(t, user.ID, userID)
}

func TestResetInstallsNewPassword(t *testing.T) {
	ctx := context.Background()
	password, account, notifier := newPasswordFixture(t)

	user, _, err := account.SignUp(ctx, "grace", "grace@example.com", "old password")
	require.NoError(t, err)

	require.NoError(t, password.RequestReset(ctx, "grace@example.com"))
	token := notifier.last(t)

	userID, err := password.Reset(ctx, token, "new password")
	require.NoError(t, err)
	require.Equal(t, user.ID, userID)

	_, err = account.SignIn(ctx, "grace", "old password")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = account.SignIn(ctx, "grace", "new password")
	require.NoError(t, err)
}

func TestResetEnforcesSingleUse(t *testing.T) {
	ctx := context.Background()
	password, account, notifier := newPasswordFixture(t)

	_, _, err := account.SignUp(ctx, "heidi", "heidi@example.com", "password one")
	require.NoError(t, err)

	require.NoError(t, password.RequestReset(ctx, "heidi@example.com"))
	token := notifier.last(t)

	_, err = password.Reset(ctx, token, "password two")
	require.NoError(t, err)

	_, err = password.Reset(ctx, token, "password three")
	require.ErrorIs(t, err, ErrResetTokenExpiredOrUsed)

	// The failed second attempt must not have touched the credential.
	_, err = account.SignIn(ctx, "heidi", "password two")
	require.NoError(t, err)
}

func TestResetRejectsExpiredToken(t *testing.T) {
	ctx := context.Background()
	password, account, notifier := newPasswordFixture(t)

	// Issue tokens already past their deadline.
	password.ResetTTL = -time.Minute

	_, _, err := account.SignUp(ctx, "ivan", "ivan@example.com", "password one")
	require.NoError(t, err)

	require.NoError(t, password.RequestReset(ctx, "ivan@example.com"))
	token := notifier.last(t)

	_, err = password.Reset(ctx, token, "password two")
	require.ErrorIs(t, err, ErrResetTokenExpiredOrUsed)

	_, err = account.SignIn(ctx, "ivan", "password one")
	require.NoError(t, err)
}

func TestResetRejectsUnknownToken(t *testing.T) {
	ctx := context.Background()
	password, _, _ := newPasswordFixture(t)

	_, err := password.Reset(ctx, "AAAAAAAAAAAAAAAAAAAAAAAAAAAAAA", "whatever password")
	require.ErrorIs(t, err, ErrResetTokenNotFound)
}

func TestResetLifecyclePerUser(t *testing.T) {
	ctx := context.Background()
	password, account, notifier := newPasswordFixture(t)

	alice, _, err := account.SignUp(ctx, "alice2", "alice2@example.com", "alice password")
	require.NoError(t, err)
	_, _, err = account.SignUp(ctx, "bob2", "bob2@example.com", "bob password")
	require.NoError(t, err)

	// Expired issue for alice.
	password.ResetTTL = -time.Minute
	require.NoError(t, password.RequestReset(ctx, "alice2@example.com"))
	expired := notifier.last(t)

	_, err = password.Reset(ctx, expired, "never installed")
	require.ErrorIs(t, err, ErrResetTokenExpiredOrUsed)

	// Fresh issue resolves back to alice, not bob.
	password.ResetTTL = 30 * time.Minute
	require.NoError(t, password.RequestReset(ctx, "alice2@example.com"))
	fresh := notifier.last(t)

	userID, err := password.Reset(ctx, fresh, "alice new password")
	require.NoError(t, err)
	require.Equal(t, alice.ID, userID)
}

func TestHousekeepingCleanup(t *testing.T) {
	ctx := context.Background()
	password, account, notifier := newPasswordFixture(t)

	_, _, err := account.SignUp(ctx, "judy", "judy@example.com", "judy password")
	require.NoError(t, err)

	password.ResetTTL = -time.Minute
	require.NoError(t, password.RequestReset(ctx, "judy@example.com"))
	stale := notifier.last(t)

	require.NoError(t, account.Store.ResetTokens().DeleteExpiredResetTokens(ctx, time.Now().UTC()))

	_, err = account.Store.ResetTokens().GetResetTokenByHash(ctx, cryptox.FingerprintToken(stale))
	require.ErrorIs(t, err, store.ErrNotFound)

	// Once the row is gone the rejection downgrades to not-found.
	_, err = password.Reset(ctx, stale, "too late")
	require.ErrorIs(t, err, ErrResetTokenNotFound)
}
