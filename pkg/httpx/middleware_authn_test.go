package httpx_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/chirpdev/accounts/pkg/httpx"
	"github.com/chirpdev/accounts/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

var secret = []byte("0123456789abcdef0123456789abcdef")

func protectedEcho(t *testing.T) (http.Handler, *string) {
	t.Helper()

	var gotUserID string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID = httpx.UserIDFromCtx(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	verifier := jwtx.NewVerifierHS256(secret, "accounts")
	return httpx.Chain(inner, httpx.AuthnMiddleware(verifier)), &gotUserID
}

func signToken(t *testing.T, subject string, ttl time.Duration) string {
	t.Helper()
	signer, err := jwtx.NewSignerHS256(secret)
	require.NoError(t, err)
	token, err := signer.Sign(jwtx.NewSessionClaims(subject, ttl, "accounts", time.Now().UTC()))
	require.NoError(t, err)
	return token
}

func TestAuthnMiddlewareMissingHeader(t *testing.T) {
	handler, gotUserID := protectedEcho(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/users", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Header().Get("WWW-Authenticate"), "invalid_token")
	require.Empty(t, *gotUserID, "handler must not run for rejected requests")
}

func TestAuthnMiddlewareMalformedHeader(t *testing.T) {
	handler, gotUserID := protectedEcho(t)

	for _, header := range []string{"Basic dXNlcjpwYXNz", "bearer lowercase", "Bearer"} {
		req := httptest.NewRequest(http.MethodGet, "/v1/users", nil)
		req.Header.Set("Authorization", header)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code, "header %q", header)
	}
	require.Empty(t, *gotUserID)
}

func TestAuthnMiddlewareInvalidToken(t *testing.T) {
	handler, gotUserID := protectedEcho(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/users", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Empty(t, *gotUserID)
}

func TestAuthnMiddlewareExpiredToken(t *testing.T) {
	handler, gotUserID := protectedEcho(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/users", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "user-42", -time.Minute))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Empty(t, *gotUserID)
}

func TestAuthnMiddlewareValidToken(t *testing.T) {
	handler, gotUserID := protectedEcho(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/users", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "user-42", time.Hour))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "user-42", *gotUserID)
}
