package service

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/space2study/ms-go-api/config"
)

var ErrHash = errors.New("failed to hash password")

// Hasher wraps bcrypt with the cost factor taken from configuration.
type Hasher struct {
	cost int
}

func NewHasher(cfg config.HashConfig) *Hasher {
	cost := cfg.SaltRounds
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost}
}

func (h *Hasher) Hash(plaintext string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrHash, err.Error())
	}
	return string(hashed), nil
}

// Compare reports whether plaintext matches the stored hash. An empty
// plaintext never matches and is not an error.
func (h *Hasher) Compare(plaintext, hash string) bool {
	if plaintext == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
