package hasher

import (
	"fmt"

	"github.com/sbilibin2017/restchat/internal/errs"
	"golang.org/x/crypto/bcrypt"
)

// MaxPasswordBytes is the longest password bcrypt accepts.
const MaxPasswordBytes = 72

// BcryptHasher hashes and verifies passwords with bcrypt.
type BcryptHasher struct {
	cost  int
	dummy []byte // digest compared against when there is no stored digest
}

// New creates a hasher with the given bcrypt cost.
// A cost outside bcrypt's accepted range falls back to bcrypt.DefaultCost.
func New(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	dummy, _ := bcrypt.GenerateFromPassword([]byte("no such user"), cost)
	return &BcryptHasher{cost: cost, dummy: dummy}
}

// Hash returns a salted bcrypt digest of the plaintext password. A password
// longer than MaxPasswordBytes is rejected with *errs.ValidationError.
func (h *BcryptHasher) Hash(password string) (string, error) {
	if len(password) > MaxPasswordBytes {
		return "", errs.Validation(fmt.Sprintf("password must be at most %d bytes", MaxPasswordBytes))
	}
	digest, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// Verify reports whether password matches digest. An empty digest never
// matches but still costs a full comparison, so a missing user takes as long
// to reject as a wrong password.
func (h *BcryptHasher) Verify(password, digest string) bool {
	if digest == "" {
		_ = bcrypt.CompareHashAndPassword(h.dummy, []byte(password))
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}
