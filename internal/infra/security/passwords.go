package security

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// bcrypt only reads the first 72 bytes.
const maxPasswordBytes = 72

var (
	ErrPasswordTooLong = errors.New("security: password longer than 72 bytes")
	ErrMismatch        = errors.New("security: password does not match")
)

// Passwords hashes account passwords with bcrypt.
type Passwords struct {
	Cost int
}

func (p Passwords) Hash(password string) (string, error) {
	if len(password) > maxPasswordBytes {
		return "", ErrPasswordTooLong
	}
	out, err := bcrypt.GenerateFromPassword([]byte(password), p.cost())
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func (p Passwords) Compare(hash, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrMismatch
	}
	return err
}

// NeedsRehash reports whether hash was produced with a different cost.
func (p Passwords) NeedsRehash(hash string) bool {
	cost, err := bcrypt.Cost([]byte(hash))
	return err != nil || cost != p.cost()
}

func (p Passwords) cost() int {
	if p.Cost >= bcrypt.MinCost && p.Cost <= bcrypt.MaxCost {
		return p.Cost
	}
	return bcrypt.DefaultCost
}
