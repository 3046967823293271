package sqlite_test

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/chirpdev/accounts/internal/accounts/domain"
	"github.com/chirpdev/accounts/internal/accounts/store"
	"github.com/chirpdev/accounts/internal/accounts/store/drivers/sqlite"
	"github.com/chirpdev/accounts/pkg/cryptox"
	"github.com/chirpdev/accounts/pkg/idx"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) store.Store {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "accounts.db") + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	st, err := sqlite.NewStore(dsn)
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func seedUser(t *testing.T, st store.Store, username, email string) domain.User {
	t.Helper()

	u := domain.User{
		ID:             idx.New().String(),
		Username:       username,
		Email:          email,
		ProfilePicture: "https://placehold.co/512x512",
		PasswordHash:   "$argon2id$v=19$m=19456,t=2,p=1$c2FsdHNhbHRzYWx0c2FsdA$aGFzaGhhc2hoYXNoaGFzaGhhc2hoYXNoaGFzaGhhc2g",
	}
	require.NoError(t, st.Users().CreateUser(context.Background(), u))
	return u
}

func seedResetToken(t *testing.T, st store.Store, userID string, expiresAt time.Time) (string, domain.ResetToken) {
	t.Helper()

	raw, err := cryptox.GenerateResetToken()
	require.NoError(t, err)

	row := domain.ResetToken{
		ID:        idx.New().String(),
		UserID:    userID,
		TokenHash: cryptox.FingerprintToken(raw),
		ExpiresAt: expiresAt,
	}
	require.NoError(t, st.ResetTokens().CreateResetToken(context.Background(), row))
	return raw, row
}

func TestUsersRepo(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	empty, err := st.Users().IsEmpty(ctx)
	require.NoError(t, err)
	require.True(t, empty)

	u := seedUser(t, st, "ferris", "ferris@example.com")

	t.Run("get by id", func(t *testing.T) {
		got, err := st.Users().GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		require.Equal(t, u.Username, got.Username)
		require.Equal(t, u.Email, got.Email)
		require.False(t, got.CreatedAt.IsZero())
	})

	t.Run("get by username", func(t *testing.T) {
		got, err := st.Users().GetUserByUsername(ctx, "ferris")
		require.NoError(t, err)
		require.Equal(t, u.ID, got.ID)
	})

	t.Run("get by email", func(t *testing.T) {
		got, err := st.Users().GetUserByEmail(ctx, "ferris@example.com")
		require.NoError(t, err)
		require.Equal(t, u.ID, got.ID)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := st.Users().GetUserByID(ctx, "missing")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("duplicate username", func(t *testing.T) {
		dup := u
		dup.ID = idx.New().String()
		dup.Email = "other@example.com"
		err := st.Users().CreateUser(ctx, dup)
		require.ErrorIs(t, err, store.ErrAlreadyExists)
	})

	t.Run("duplicate email", func(t *testing.T) {
		dup := u
		dup.ID = idx.New().String()
		dup.Username = "other"
		err := st.Users().CreateUser(ctx, dup)
		require.ErrorIs(t, err, store.ErrAlreadyExists)
	})

	t.Run("update password hash", func(t *testing.T) {
		require.NoError(t, st.Users().UpdatePasswordHash(ctx, u.ID, "$argon2id$v=19$new"))
		got, err := st.Users().GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		require.Equal(t, "$argon2id$v=19$new", got.PasswordHash)
	})

	t.Run("update password hash for unknown user", func(t *testing.T) {
		err := st.Users().UpdatePasswordHash(ctx, "missing", "$argon2id$v=19$new")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("list users", func(t *testing.T) {
		seedUser(t, st, "gopher", "gopher@example.com")
		users, err := st.Users().ListUsers(ctx)
		require.NoError(t, err)
		require.Len(t, users, 2)
	})
}

func TestConsumeResetToken(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	u := seedUser(t, st, "ferris", "ferris@example.com")

	t.Run("consume succeeds once", func(t *testing.T) {
		raw, _ := seedResetToken(t, st, u.ID, time.Now().Add(30*time.Minute))
		hash := cryptox.FingerprintToken(raw)

		userID, err := st.ResetTokens().ConsumeResetToken(ctx, hash, time.Now())
		require.NoError(t, err)
		require.Equal(t, u.ID, userID)

		// Second consumption of the same token must fail.
		_, err = st.ResetTokens().ConsumeResetToken(ctx, hash, time.Now())
		require.ErrorIs(t, err, store.ErrNotFound)

		row, err := st.ResetTokens().GetResetTokenByHash(ctx, hash)
		require.NoError(t, err)
		require.True(t, row.Used)
	})

	t.Run("expired token never consumable", func(t *testing.T) {
		raw, _ := seedResetToken(t, st, u.ID, time.Now().Add(-time.Minute))
		hash := cryptox.FingerprintToken(raw)

		_, err := st.ResetTokens().ConsumeResetToken(ctx, hash, time.Now())
		require.ErrorIs(t, err, store.ErrNotFound)

		// The row still exists and is still unused; it just expired.
		row, err := st.ResetTokens().GetResetTokenByHash(ctx, hash)
		require.NoError(t, err)
		require.False(t, row.Used)
	})

	t.Run("unknown token", func(t *testing.T) {
		_, err := st.ResetTokens().ConsumeResetToken(ctx, cryptox.FingerprintToken("nope"), time.Now())
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}

// TestConsumeResetTokenConcurrent checks the double-consumption guard: with
// two goroutines racing on the same token, exactly one conditional update may
// succeed.
func TestConsumeResetTokenConcurrent(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	u := seedUser(t, st, "ferris", "ferris@example.com")

	raw, _ := seedResetToken(t, st, u.ID, time.Now().Add(30*time.Minute))
	hash := cryptox.FingerprintToken(raw)

	var wg sync.WaitGroup
	results := make(chan error, 2)
	start := make(chan struct{})

	for range 2 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := st.ResetTokens().ConsumeResetToken(ctx, hash, time.Now())
			results <- err
		}()
	}

	close(start)
	wg.Wait()
	close(results)

	var succeeded, failed int
	for err := range results {
		if err == nil {
			succeeded++
		} else {
			require.ErrorIs(t, err, store.ErrNotFound)
			failed++
		}
	}

	require.Equal(t, 1, succeeded, "exactly one concurrent consumption must win")
	require.Equal(t, 1, failed)
}

func TestDeleteExpiredResetTokens(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	u := seedUser(t, st, "ferris", "ferris@example.com")

	expiredRaw, _ := seedResetToken(t, st, u.ID, time.Now().Add(-time.Hour))
	liveRaw, _ := seedResetToken(t, st, u.ID, time.Now().Add(time.Hour))

	require.NoError(t, st.ResetTokens().DeleteExpiredResetTokens(ctx, time.Now()))

	_, err := st.ResetTokens().GetResetTokenByHash(ctx, cryptox.FingerprintToken(expiredRaw))
	require.ErrorIs(t, err, store.ErrNotFound)

	_, err = st.ResetTokens().GetResetTokenByHash(ctx, cryptox.FingerprintToken(liveRaw))
	require.NoError(t, err)
}

func TestWithTxRollsBackOnError(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	err := st.WithTx(ctx, func(tx store.Tx) error {
		u := domain.User{
			ID:           idx.New().String(),
			Username:     "rollback",
			Email:        "rollback@example.com",
			PasswordHash: "$argon2id$v=19$x",
		}
		if err := tx.Users().CreateUser(ctx, u); err != nil {
			return err
		}
		return context.Canceled // force rollback
	})
	require.Error(t, err)

	_, err = st.Users().GetUserByUsername(ctx, "rollback")
	require.ErrorIs(t, err, store.ErrNotFound)
}
