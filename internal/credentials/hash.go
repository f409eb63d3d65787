package credentials

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Scheme selects how new passwords are hashed.
type Scheme string

const (
	// SchemeSHA256 is unsalted SHA-256 rendered as lowercase hex. It is the
	// format existing users.txt files use and is weak against offline attack.
	SchemeSHA256 Scheme = "sha256"
	// SchemeBcrypt is a salted adaptive hash.
	SchemeBcrypt Scheme = "bcrypt"
)

// ParseScheme validates a scheme name.
func ParseScheme(s string) (Scheme, error) {
	switch Scheme(s) {
	case SchemeSHA256, SchemeBcrypt:
		return Scheme(s), nil
	default:
		return "", fmt.Errorf("unknown hash scheme %q", s)
	}
}

// HashPassword returns the SHA-256 digest of the UTF-8 password as lowercase hex.
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

func hashWith(scheme Scheme, password string) (string, error) {
	switch scheme {
	case SchemeBcrypt:
		h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return "", fmt.Errorf("hashing password: %w", err)
		}
		return string(h), nil
	case SchemeSHA256, "":
		return HashPassword(password), nil
	default:
		return "", fmt.Errorf("unknown hash scheme %q", scheme)
	}
}

// verify checks password against a stored hash of either scheme.
func verify(stored, password string) bool {
	if strings.HasPrefix(stored, "$2") {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(HashPassword(password))) == 1
}
