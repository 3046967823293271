package cryptox

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"math/big"
)

// ResetTokenLength is the number of characters in a password-reset token.
// 30 characters over a 62-symbol alphabet gives ~178 bits of entropy, which
// makes collisions and guessing negligible for a 30-minute window.
const ResetTokenLength = 30

const alphanumeric = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateResetToken creates a cryptographically unpredictable opaque token
// suitable for delivery out-of-band (email). Tokens are fixed-length
// alphanumeric so they survive copy-paste and URL embedding untouched.
func GenerateResetToken() (string, error) {
	token := make([]byte, ResetTokenLength)
	for i := range token {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(alphanumeric))))
		if err != nil {
			return "", fmt.Errorf("failed to generate reset token: %w", err)
		}
		token[i] = alphanumeric[n.Int64()]
	}
	return string(token), nil
}

// FingerprintToken returns a deterministic SHA-256 fingerprint of a token.
// Only fingerprints are stored in the database; a leaked table never reveals
// a usable token, while lookups by presented value still work.
//
// The fingerprint is returned as a base64url-encoded string (43 chars).
func FingerprintToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}
