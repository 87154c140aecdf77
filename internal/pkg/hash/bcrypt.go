package hash

import (
	"golang.org/x/crypto/bcrypt"
)

// Bcrypt hashes admin passwords with the bcrypt work factor.
//
// An optional pepper is appended to the plaintext before hashing. The
// pepper lives in configuration only, never in the database alongside the
// hashes it protects.
type Bcrypt struct {
	cost   int
	pepper string
}

// NewBcrypt returns a bcrypt hasher with the given cost and pepper. Cost
// follows bcrypt's usual range; bcrypt.DefaultCost is a sane start.
func NewBcrypt(cost int, pepper string) *Bcrypt {
	return &Bcrypt{cost: cost, pepper: pepper}
}

// Hash derives a bcrypt hash from plaintext.
func (h *Bcrypt) Hash(plaintext string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(plaintext+h.pepper), h.cost)
}

// Verify reports whether plaintext produces the stored hash.
func (h *Bcrypt) Verify(hashed, plaintext string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plaintext+h.pepper)) == nil
}
