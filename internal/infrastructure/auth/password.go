package auth

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/janhq/arena-server/internal/domain/user"
)

// BcryptHasher implements user.PasswordHasher.
type BcryptHasher struct {
	Cost int
}

var _ user.PasswordHasher = BcryptHasher{}

func (h BcryptHasher) Hash(password string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (h BcryptHasher) Compare(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
