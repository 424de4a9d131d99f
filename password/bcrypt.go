package password

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// bcrypt truncates beyond 72 bytes; longer inputs are rejected rather
// than silently truncated.
const maxPassBytes = 72

const defaultCost = 10

// Config carries hasher tunables. A zero Cost selects the default.
type Config struct {
	Cost int
}

// Hasher hashes and verifies passwords with bcrypt. A Hasher is immutable
// and safe for concurrent use.
type Hasher struct {
	cost int
}

// New validates cfg and returns a Hasher.
func New(cfg Config) (*Hasher, error) {
	cost := cfg.Cost
	if cost == 0 {
		cost = defaultCost
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost out of range: %d", cost)
	}

	return &Hasher{cost: cost}, nil
}

// Hash returns the bcrypt hash of password.
//
// Password processing uses raw string bytes exactly as provided (no
// Unicode normalization).
func (h *Hasher) Hash(password string) (string, error) {
	if password == "" {
		return "", errors.New("password must not be empty")
	}
	if len(password) > maxPassBytes {
		return "", errors.New("password exceeds 72 bytes")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Verify reports whether password matches encodedHash. A mismatch is
// (false, nil); errors are reserved for malformed hashes.
func (h *Hasher) Verify(encodedHash, password string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(encodedHash), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, err
	}
}
