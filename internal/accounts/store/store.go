package store

import (
	"context"
	"errors"
	"time"

	"github.com/chirpdev/accounts/internal/accounts/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite for now)
// implement this. It exposes sub-repositories to keep concerns tidy and
// testable; no SQL dialect leaks past this package.
type Store interface {
	Users() Users
	ResetTokens() ResetTokens

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByUsername is used during sign-in.
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)

	// GetUserByEmail is used when issuing password-reset tokens.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// CreateUser inserts a new user (id is provided by app via ULID).
	// Returns ErrAlreadyExists when the username or email is taken.
	CreateUser(ctx context.Context, u domain.User) error

	// UpdatePasswordHash sets the password_hash (argon2) and bumps updated_at.
	UpdatePasswordHash(ctx context.Context, userID string, newHash string) error

	// ListUsers returns all users ordered by creation date (newest first).
	ListUsers(ctx context.Context) ([]domain.User, error)

	// IsEmpty returns true if there are no users.
	IsEmpty(ctx context.Context) (bool, error)
}

type ResetTokens interface {
	// CreateResetToken writes a new reset token row (token_hash is the
	// SHA-256 fingerprint of the opaque token, used=false).
	CreateResetToken(ctx context.Context, t domain.ResetToken) error

	// GetResetTokenByHash returns the token row regardless of state. Used to
	// classify consumption failures without widening the atomic update.
	GetResetTokenByHash(ctx context.Context, hash string) (domain.ResetToken, error)

	// ConsumeResetToken atomically marks the token used and returns the
	// owning user id, but only if the token is currently unused and not
	// expired at now. Returns ErrNotFound when no row qualified, which
	// covers absent, already-used and expired tokens alike. This single
	// conditional update is the concurrency guard against double
	// consumption; the store is the durability boundary, not in-process
	// locks.
	ConsumeResetToken(ctx context.Context, hash string, now time.Time) (string, error)

	// DeleteExpiredResetTokens is optional housekeeping.
	DeleteExpiredResetTokens(ctx context.Context, now time.Time) error
}
