package utils

import (
	"time" // time utilities for generating expirations

	"github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
	"github.com/google/uuid"       // random token identifiers
)

// SignupToken represents a signed token handed to the signup form along
// with its validity window in seconds.  The client echoes the token back
// with the completed signup request.
type SignupToken struct {
	Token    string    // the serialized JWT string
	Exp      time.Time // the UTC expiration time
	Duration int       // validity in whole seconds
}

// NewSignupToken builds and signs a short-lived HS256 JWT gating the
// signup flow.  The claims carry a unique jti so each issued token is
// distinct, plus standard iat/exp timestamps.
func NewSignupToken(secret string, ttl time.Duration) (SignupToken, error) {
	now := time.Now().UTC()
	exp := now.Add(ttl)
	claims := jwt.MapClaims{
		"purpose": "signup",
		"jti":     uuid.NewString(),
		"iat":     now.Unix(),
		"exp":     exp.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return SignupToken{}, err
	}
	return SignupToken{Token: signed, Exp: exp, Duration: int(ttl / time.Second)}, nil
}

// ParseSignupToken validates a signup token's signature and expiry.
// It returns false for any token not issued by NewSignupToken with the
// same secret.
func ParseSignupToken(secret, raw string) bool {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	return err == nil && tok.Valid
}

// NewSessionToken returns a fresh opaque session token.  Sessions are
// plain GUID strings looked up in the sessions table, not JWTs.
func NewSessionToken() string {
	return uuid.NewString()
}
