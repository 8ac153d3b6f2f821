package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/axonops/authadm/pkg/errors"
)

// Accounts created without a password (non-interactive createsuperuser)
// get a hash carrying this prefix. Such a hash can never verify because
// bcrypt output never starts with '!'.
const unusablePasswordPrefix = "!"

// HashPassword hashes a plaintext password with bcrypt at the given cost
func HashPassword(password string, cost int) (string, error) {
	if password == "" {
		return "", errors.New("cannot hash an empty password")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", errors.Wrap(err, "failed to hash password")
	}
	return string(hash), nil
}

// CheckPassword reports whether the plaintext password matches the stored
// hash. An unusable hash matches nothing.
func CheckPassword(password, hash string) bool {
	if !UsablePassword(hash) {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// MakeUnusablePassword returns a password hash that can never verify.
// The random suffix ensures two unusable hashes never compare equal.
func MakeUnusablePassword() string {
	suffix := make([]byte, 20)
	if _, err := rand.Read(suffix); err != nil {
		// crypto/rand only fails when the OS entropy source is broken
		panic(err)
	}
	return unusablePasswordPrefix + hex.EncodeToString(suffix)
}

// UsablePassword reports whether the stored hash can ever match a password
func UsablePassword(hash string) bool {
	return hash != "" && !strings.HasPrefix(hash, unusablePasswordPrefix)
}

// ValidatePassword applies the configured password policy
func ValidatePassword(password string, minLength int) error {
	if password == "" {
		return errors.NewValidationError("", "Password cannot be empty.")
	}
	if minLength > 0 && len(password) < minLength {
		return errors.NewValidationError("", fmt.Sprintf("This password is too short. It must contain at least %d characters.", minLength))
	}
	return nil
}
