package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/chirpdev/accounts/internal/accounts/avatar"
	"github.com/chirpdev/accounts/internal/accounts/domain"
	"github.com/chirpdev/accounts/internal/accounts/store"
	"github.com/chirpdev/accounts/pkg/cryptox"
	"github.com/chirpdev/accounts/pkg/idx"
	"github.com/chirpdev/accounts/pkg/jwtx"
	"github.com/chirpdev/accounts/pkg/slogx"
)

var (
	ErrInvalidCredentials   = errors.New("invalid_credentials")
	ErrUsernameAlreadyTaken = errors.New("username_already_taken")
)

// AccountService handles registration and credential-based sign-in. Both
// flows end with a freshly issued session token; the signing secret lives
// inside the Signer, injected once at boot.
type AccountService struct {
	Store      store.Store
	Signer     jwtx.Signer
	Avatar     avatar.Resolver
	Issuer     string
	SessionTTL time.Duration
}

// SignUp registers a new account and returns the created user plus a session
// token, so a fresh registration is immediately signed in.
func (s *AccountService) SignUp(
	ctx context.Context,
	username, email, password string,
) (domain.User, string, error) {
	log := slogx.FromContext(ctx)

	// 1. Verify username is available. The unique constraint is the real
	// guard; this check just gives a clean error without burning an ID.
	_, err := s.Store.Users().GetUserByUsername(ctx, username)
	if err == nil {
		log.Warn("signup attempted with already-taken username",
			slog.String("username", username),
		)
		return domain.User{}, "", ErrUsernameAlreadyTaken
	}
	if !errors.Is(err, store.ErrNotFound) {
		log.Error("failed to check username availability", slog.Any("error", err))
		return domain.User{}, "", err
	}

	// 2. Hash the password using Argon2id
	passwordHash, err := cryptox.HashPassword(password)
	if err != nil {
		log.Error("failed to hash password", slog.Any("error", err))
		return domain.User{}, "", err
	}

	// 3. Resolve a profile picture. Degrades to a placeholder, never fails.
	picture := avatar.PlaceholderURL
	if s.Avatar != nil {
		picture = s.Avatar.Resolve(ctx, username)
	}

	// 4. Create the user
	newUser := domain.User{
		ID:             idx.New().String(),
		Username:       username,
		Email:          email,
		ProfilePicture: picture,
		PasswordHash:   passwordHash,
	}

	if err := s.Store.Users().CreateUser(ctx, newUser); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, "", ErrUsernameAlreadyTaken
		}
		log.Error("failed to create user",
			slog.String("username", username),
			slog.Any("error", err),
		)
		return domain.User{}, "", err
	}

	// 5. Issue a session token for the new account
	token, err := s.signSession(newUser.ID)
	if err != nil {
		log.Error("failed to sign session token", slog.Any("error", err))
		return domain.User{}, "", err
	}

	log.Info("user registered",
		slog.String("user_id", newUser.ID),
		slog.String("username", newUser.Username),
	)

	created, err := s.Store.Users().GetUserByID(ctx, newUser.ID)
	if err != nil {
		return domain.User{}, "", err
	}

	return created, token, nil
}

// SignIn verifies credentials and issues a session token. Unknown usernames
// and wrong passwords are indistinguishable to the caller.
func (s *AccountService) SignIn(ctx context.Context, username, password string) (string, error) {
	log := slogx.FromContext(ctx)

	user, err := s.Store.Users().GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Info("sign-in attempted with unknown username",
				slog.String("username", username),
			)
			return "", ErrInvalidCredentials
		}
		log.Error("failed to fetch user", slog.Any("error", err))
		return "", err
	}

	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		if errors.Is(err, cryptox.ErrPasswordMismatch) {
			log.Info("sign-in attempted with wrong password",
				slog.String("username", username),
			)
			return "", ErrInvalidCredentials
		}
		// Malformed stored hash is an internal failure, not a rejection.
		log.Error("stored password hash is malformed",
			slog.String("user_id", user.ID),
			slog.Any("error", err),
		)
		return "", err
	}

	token, err := s.signSession(user.ID)
	if err != nil {
		log.Error("failed to sign session token", slog.Any("error", err))
		return "", err
	}

	log.Info("user signed in", slog.String("user_id", user.ID))
	return token, nil
}

func (s *AccountService) signSession(userID string) (string, error) {
	ttl := s.SessionTTL
	if ttl <= 0 {
		ttl = jwtx.DefaultSessionTokenTTL
	}
	claims := jwtx.NewSessionClaims(userID, ttl, s.Issuer, time.Now().UTC())
	return s.Signer.Sign(claims)
}
