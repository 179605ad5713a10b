package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"fmt"

	"github.com/brightpixel/studiosite/pkg"
)

// Verifier checks submitted credentials against the single configured admin.
// It is immutable after construction and safe for concurrent use.
type Verifier struct {
	username     string
	password     string
	passwordHash string
}

func NewVerifier(username, password, passwordHash string) *Verifier {
	return &Verifier{
		username:     username,
		password:     password,
		passwordHash: passwordHash,
	}
}

func (v *Verifier) Configured() bool {
	return v.username != "" && (v.password != "" || v.passwordHash != "")
}

// Verify returns true only for an exact match of both username and password.
// When a bcrypt hash is configured, it takes precedence over the plaintext password.
func (v *Verifier) Verify(username, password string) (bool, error) {
	if !v.Configured() {
		return false, fmt.Errorf("verify credentials: %w", ErrConfiguration)
	}

	if username == "" || password == "" {
		return false, nil
	}

	usernameOK := constantTimeEqual(username, v.username)

	var passwordOK bool
	if v.passwordHash != "" {
		passwordOK = pkg.CheckPasswordHash(password, v.passwordHash)
	} else {
		passwordOK = constantTimeEqual(password, v.password)
	}

	return usernameOK && passwordOK, nil
}

// comparing digests keeps the comparison time independent of input lengths
func constantTimeEqual(a, b string) bool {
	ha := sha256.Sum256([]byte(a))
	hb := sha256.Sum256([]byte(b))
	return subtle.ConstantTimeCompare(ha[:], hb[:]) == 1
}
