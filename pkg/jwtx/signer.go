package jwtx

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

// MinSecretLength is the minimum number of bytes accepted for an HS256
// signing secret. Anything shorter than the HMAC block makes brute forcing
// the secret cheaper than brute forcing tokens.
const MinSecretLength = 32

// Signer is our interface for anything that can sign session tokens.
type Signer interface {
	Alg() string
	Sign(Claims) (string, error)
}

// HS256Signer signs tokens with a server-held symmetric secret. The secret
// is injected at construction and immutable afterwards; it is never read
// from package state.
type HS256Signer struct {
	secret []byte
}

// NewSignerHS256 creates an HS256 signer from the raw secret bytes.
func NewSignerHS256(secret []byte) (*HS256Signer, error) {
	if len(secret) < MinSecretLength {
		return nil, errors.New("jwtx: HS256 secret must be at least 32 bytes")
	}

	// Copy so a caller mutating its slice can't change the signing key.
	key := make([]byte, len(secret))
	copy(key, secret)

	return &HS256Signer{secret: key}, nil
}

func (s *HS256Signer) Alg() string { return jwt.SigningMethodHS256.Alg() }

// Sign takes your claims and turns them into a signed JWT string.
func (s *HS256Signer) Sign(claims Claims) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(s.secret)
	if err != nil {
		return "", errors.Join(ErrSigning, err)
	}
	return signed, nil
}
