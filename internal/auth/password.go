package auth

import (
	"golang.org/x/crypto/bcrypt"
)

// HashCost matches the cost factor the platform has always used; stored
// hashes embed their cost, so changing it only affects new hashes.
const HashCost = 10

// HashPassword returns a salted bcrypt hash of the plaintext.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), HashCost)
	return string(bytes), err
}

// CheckPasswordHash reports whether password matches the stored hash.
// A mismatch is a false return, not an error.
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// IsHash reports whether s parses as a bcrypt hash.
func IsHash(s string) bool {
	_, err := bcrypt.Cost([]byte(s))
	return err == nil
}
