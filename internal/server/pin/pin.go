// Package pin implements one-time admin pin generation and at-rest hashing.
// A pin is issued exactly once when content is created; only its bcrypt hash
// is persisted, so there is no recovery path.
package pin

import (
	"crypto/rand"
	"math/big"

	"golang.org/x/crypto/bcrypt"
)

// Length is the size of generated admin pins.
const Length = 12

// Cost is the bcrypt work factor used for pin hashes.
const Cost = 12

const alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Generate returns a cryptographically random alphanumeric string of n
// characters.
func Generate(n int) (string, error) {
	b := make([]byte, n)
	max := big.NewInt(int64(len(alphabet)))
	for i := range b {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b[i] = alphabet[idx.Int64()]
	}
	return string(b), nil
}

// Hasher is a one-way adaptive hash for pins at rest.
type Hasher interface {
	// Hash returns the one-way hash of plain.
	Hash(plain string) (string, error)

	// Verify reports whether plain matches hash. It never reconstructs the
	// plaintext and must be the only comparison path for stored pins.
	Verify(plain, hash string) bool
}

// BcryptHasher hashes pins with bcrypt. Construct once at process start and
// inject wherever pins are issued or verified.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher returns a hasher with the given work factor. Costs below
// the package default are bumped up to it.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < Cost {
		cost = Cost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (h *BcryptHasher) Verify(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
