// Package token generates and verifies single-use challenge tokens for the
// password reset flow.
package token

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const codeBytes = 20

// Issued is one freshly generated challenge. Code is handed to the user
// out-of-band (email) and never persisted; only Hash is stored. LinkId is
// exposed in URLs, so it must come from a secure random source to stay
// non-enumerable.
type Issued struct {
	Code   string
	Hash   string
	LinkId string
}

func Issue() (Issued, error) {
	buf := make([]byte, codeBytes)
	if _, err := rand.Read(buf); err != nil {
		return Issued{}, err
	}
	code := hex.EncodeToString(buf)

	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return Issued{}, err
	}

	return Issued{
		Code:   code,
		Hash:   string(hash),
		LinkId: uuid.NewString(),
	}, nil
}

// Verify checks a submitted plaintext code against a stored hash. The
// comparison is delegated to bcrypt, never done with string equality.
func Verify(code, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(code)) == nil
}
