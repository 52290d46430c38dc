// Package auth implements the optional app passcode lock. The hash is
// stored in the settings table; content itself is not encrypted.
package auth

import (
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const (
	minPasscodeLength = 4
	maxPasscodeLength = 72 // bcrypt input limit
)

// ValidatePasscode checks minimal passcode requirements.
func ValidatePasscode(passcode string) error {
	if len(passcode) < minPasscodeLength {
		return fmt.Errorf("passcode must be at least %d characters", minPasscodeLength)
	}
	if len(passcode) > maxPasscodeLength {
		return fmt.Errorf("passcode too long (max %d)", maxPasscodeLength)
	}
	return nil
}

// HashPasscode hashes one plaintext passcode for persistent storage.
func HashPasscode(passcode string) (string, error) {
	if err := ValidatePasscode(passcode); err != nil {
		return "", err
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(passcode), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// VerifyPasscode verifies a plaintext passcode against a bcrypt hash.
func VerifyPasscode(passcodeHash, candidate string) bool {
	if strings.TrimSpace(passcodeHash) == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(passcodeHash), []byte(candidate)) == nil
}
