package password

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"fuel-delivery-service/internal/apperr"
)

// DefaultCost is the bcrypt work factor used when none is configured.
const DefaultCost = bcrypt.DefaultCost

// maxPasswordBytes is the bcrypt input limit; longer input would be truncated silently.
const maxPasswordBytes = 72

// Hasher hashes and verifies passwords with bcrypt.
// The encoded hash embeds the cost and salt, so Verify works across cost changes.
type Hasher struct {
	cost int
}

// NewHasher returns a Hasher with the given cost. A zero cost selects DefaultCost.
func NewHasher(cost int) (*Hasher, error) {
	if cost == 0 {
		cost = DefaultCost
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, apperr.Config("BCRYPT_COST", fmt.Sprintf("must be in [%d, %d], got %d", bcrypt.MinCost, bcrypt.MaxCost, cost))
	}
	return &Hasher{cost: cost}, nil
}

// Cost returns the configured work factor.
func (h *Hasher) Cost() int { return h.cost }

// Hash returns a salted bcrypt hash of plaintext.
func (h *Hasher) Hash(plaintext string) (string, error) {
	if err := checkInput(plaintext); err != nil {
		return "", err
	}
	out, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt: %w", err)
	}
	return string(out), nil
}

// Verify reports whether plaintext matches hashed. Mismatches and malformed hashes
// yield false; only empty arguments are errors. Input over the bcrypt limit never matches.
func (h *Hasher) Verify(plaintext, hashed string) (bool, error) {
	if plaintext == "" || hashed == "" {
		return false, apperr.ErrInvalidInput
	}
	if len(plaintext) > maxPasswordBytes {
		return false, nil
	}
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plaintext)) == nil, nil
}

func checkInput(plaintext string) error {
	if plaintext == "" {
		return fmt.Errorf("password is empty: %w", apperr.ErrInvalidInput)
	}
	if len(plaintext) > maxPasswordBytes {
		return fmt.Errorf("password longer than %d bytes: %w", maxPasswordBytes, apperr.ErrInvalidInput)
	}
	return nil
}
