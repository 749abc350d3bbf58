package security

import (
	"errors"
	"fmt"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"loan-predict/internal/domain"
)

const (
	minPasswordLength = 8
	maxPasswordBytes  = 72 // bcrypt ignores anything past this
)

// Hasher derives and checks password digests.
type Hasher interface {
	Hash(plaintext string) (string, error)
	// Verify reports whether plaintext matches digest. A malformed digest
	// never matches.
	Verify(plaintext, digest string) bool
}

// BcryptHasher implements Hasher with bcrypt. The digest carries the
// algorithm, cost and salt, so changing the cost does not invalidate
// stored digests.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher creates a BcryptHasher. A cost outside bcrypt's accepted
// range falls back to bcrypt.DefaultCost.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

var _ Hasher = (*BcryptHasher)(nil)

func (h *BcryptHasher) Hash(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", domain.ErrValidation("password must be at most %d bytes long", maxPasswordBytes)
	}
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(digest), nil
}

func (h *BcryptHasher) Verify(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}

// ValidatePassword enforces the password policy. Rules are checked in order
// and the first violation is returned.
func ValidatePassword(p string) error {
	if utf8.RuneCountInString(p) < minPasswordLength {
		return domain.ErrValidation("password must be at least %d characters long", minPasswordLength)
	}
	var hasDigit, hasUpper bool
	for _, r := range p {
		switch {
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsUpper(r):
			hasUpper = true
		}
	}
	if !hasDigit {
		return domain.ErrValidation("password must contain at least one digit")
	}
	if !hasUpper {
		return domain.ErrValidation("password must contain at least one uppercase letter")
	}
	if len(p) > maxPasswordBytes {
		return domain.ErrValidation("password must be at most %d bytes long", maxPasswordBytes)
	}
	return nil
}

// UnusableHash returns the digest of a random secret that is never stored or
// shown, for accounts created without a password.
func UnusableHash(h Hasher) (string, error) {
	return h.Hash(uuid.NewString())
}
