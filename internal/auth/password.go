package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

const (
	pbkdf2Iterations = 100000
	saltBytes        = 16
	hashBytes        = 32
)

// HashPassword derives a salted hash for storage. The salt is returned
// alongside the hash, both hex encoded.
func HashPassword(password string) (salt, hash string, err error) {
	raw := make([]byte, saltBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", "", fmt.Errorf("failed to generate salt: %w", err)
	}

	salt = hex.EncodeToString(raw)
	derived := pbkdf2.Key([]byte(password), []byte(salt), pbkdf2Iterations, hashBytes, sha256.New)
	return salt, hex.EncodeToString(derived), nil
}

// VerifyPassword checks a password attempt against a stored salt and hash.
func VerifyPassword(password, salt, storedHash string) bool {
	derived := pbkdf2.Key([]byte(password), []byte(salt), pbkdf2Iterations, hashBytes, sha256.New)
	expected, err := hex.DecodeString(storedHash)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare(derived, expected) == 1
}
