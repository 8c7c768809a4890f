package utils // package utils provides helper functions for hashing and token creation

import (
	"crypto/rand"   // secure random salt generation
	"crypto/sha256" // hash function driving the key derivation
	"crypto/subtle" // constant-time comparison
	"encoding/base64"
	"strings"

	"golang.org/x/crypto/pbkdf2" // PBKDF2 key derivation
)

// Password hashing parameters. The stored format is
// "base64(salt).base64(key)", so both halves decode independently.
const (
	saltSize   = 16      // 128-bit salt
	keySize    = 32      // 256-bit derived key
	iterations = 100_000 // PBKDF2-SHA256 rounds
)

// HashPassword derives a PBKDF2-SHA256 hash from the plain password
// with a fresh random salt and returns it in stored form.
func HashPassword(plain string) (string, error) {
	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	key := pbkdf2.Key([]byte(plain), salt, iterations, keySize, sha256.New)
	return base64.StdEncoding.EncodeToString(salt) + "." + base64.StdEncoding.EncodeToString(key), nil
}

// VerifyPassword re-derives the key from the candidate password and the
// stored salt and compares in constant time. A malformed stored hash
// verifies as false rather than erroring.
func VerifyPassword(plain, stored string) bool {
	parts := strings.Split(stored, ".")
	if len(parts) != 2 {
		return false
	}
	salt, err := base64.StdEncoding.DecodeString(parts[0])
	if err != nil {
		return false
	}
	expected, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return false
	}
	key := pbkdf2.Key([]byte(plain), salt, iterations, len(expected), sha256.New)
	return subtle.ConstantTimeCompare(expected, key) == 1
}
