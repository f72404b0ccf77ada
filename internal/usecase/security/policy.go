package security

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"github.com/school-management-toolkit/registrar/config"
)

// hashCost is chosen so a single hash takes on the order of 100ms on
// commodity hardware, slowing online and offline brute force alike.
const hashCost = 12

// symbolSet is the punctuation accepted as the "symbol" character class.
const symbolSet = "!@#$%^&*()-_=+[]{};:'\",.<>/?\\|`~"

// Policy validates password strength against the configured rules and
// produces and verifies one-way salted hashes. Stateless; the minimum length
// is read from config on every call.
type Policy struct {
	cfg *config.Config
}

// NewPolicy -.
func NewPolicy(cfg *config.Config) *Policy {
	return &Policy{cfg: cfg}
}

// ValidateStrength returns a WeakPasswordError naming every failed rule, or
// nil when the password satisfies all of them.
func (p *Policy) ValidateStrength(password string) error {
	minLength := p.cfg.Security.MinPasswordLength

	var reasons []string

	if utf8.RuneCountInString(password) < minLength {
		reasons = append(reasons, fmt.Sprintf("must be at least %d characters long", minLength))
	}

	var hasUpper, hasLower, hasDigit, hasSymbol bool

	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case strings.ContainsRune(symbolSet, r):
			hasSymbol = true
		}
	}

	if !hasUpper {
		reasons = append(reasons, "must contain an uppercase letter")
	}

	if !hasLower {
		reasons = append(reasons, "must contain a lowercase letter")
	}

	if !hasDigit {
		reasons = append(reasons, "must contain a digit")
	}

	if !hasSymbol {
		reasons = append(reasons, "must contain a symbol")
	}

	if len(reasons) > 0 {
		return NewWeakPasswordError(reasons)
	}

	return nil
}

// Hash produces a salted bcrypt digest. The salt is random per call, so equal
// inputs yield different digests; only Verify relates them.
func (p *Policy) Hash(password string) (string, error) {
	if strings.TrimSpace(password) == "" {
		return "", NewEmptyPasswordError()
	}

	digest, err := bcrypt.GenerateFromPassword([]byte(password), hashCost)
	if err != nil {
		return "", err
	}

	return string(digest), nil
}

// Verify reports whether password matches digest. Malformed digests verify
// as false, never as an error.
func (p *Policy) Verify(password, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}
