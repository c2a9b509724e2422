package auth

import (
	"crypto/rand"
	"errors"
	"fmt"
	"regexp"

	"golang.org/x/crypto/bcrypt"
)

const (
	// DefaultBcryptCost is the cost used for PIN hashing. PINs have far less
	// entropy than passwords, so the cost stays at the high end of what is
	// reasonable for interactive login.
	DefaultBcryptCost = 12
)

// ErrInvalidPINFormat is returned when a PIN is not 4 to 6 digits.
var ErrInvalidPINFormat = errors.New("invalid PIN format: must be 4-6 digits")

var pinFormat = regexp.MustCompile(`^\d{4,6}$`)

// ValidatePINFormat checks that a PIN is 4 to 6 decimal digits.
func ValidatePINFormat(pin string) bool {
	return pinFormat.MatchString(pin)
}

// PINHasher provides PIN hashing and verification.
type PINHasher struct {
	cost int
}

// NewPINHasher creates a PINHasher with the default cost.
func NewPINHasher() *PINHasher {
	return &PINHasher{cost: DefaultBcryptCost}
}

// Hash generates a bcrypt hash of the given PIN.
func (h *PINHasher) Hash(pin string) (string, error) {
	if !ValidatePINFormat(pin) {
		return "", ErrInvalidPINFormat
	}
	bytes, err := bcrypt.GenerateFromPassword([]byte(pin), h.cost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// Verify checks whether the provided PIN matches the hash.
func (h *PINHasher) Verify(pin, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pin)) == nil
}

// GeneratePIN returns a random PIN of the requested length (4 to 6 digits),
// suitable for admin-provisioned accounts.
func GeneratePIN(length int) (string, error) {
	if length < 4 || length > 6 {
		return "", fmt.Errorf("PIN length must be between 4 and 6, got %d", length)
	}
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	pin := make([]byte, length)
	for i, b := range buf {
		pin[i] = '0' + b%10
	}
	return string(pin), nil
}
