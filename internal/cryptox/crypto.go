// Package cryptox derives password verifiers. Only the salt and the
// verifier are ever stored; the password itself is wiped after use.
package cryptox

import (
	"crypto/sha256"
	"crypto/subtle"

	"github.com/dmitrijs2005/yatube/internal/common"
	"golang.org/x/crypto/argon2"
)

// SaltSize is the length of a freshly generated password salt.
const SaltSize = 16

// DeriveKey stretches a password with Argon2id.
func DeriveKey(password []byte, salt []byte) []byte {
	return argon2.IDKey(password, salt, 1, 64*1024, 4, 32)
}

func MakeVerifier(key []byte) []byte {
	hash := sha256.Sum256(key)
	return hash[:]
}

// NewVerifier salts the password and returns the salt together with the
// verifier to store. The password slice is zeroed.
func NewVerifier(password []byte) (salt, verifier []byte) {
	defer WipeByteArray(password)

	salt = common.GenerateRandByteArray(SaltSize)
	key := DeriveKey(password, salt)
	defer WipeByteArray(key)

	return salt, MakeVerifier(key)
}

// CheckPassword reports whether password matches the stored verifier.
// The comparison is constant-time. The password slice is zeroed.
func CheckPassword(password, salt, verifier []byte) bool {
	defer WipeByteArray(password)

	key := DeriveKey(password, salt)
	defer WipeByteArray(key)

	return subtle.ConstantTimeCompare(MakeVerifier(key), verifier) == 1
}

// WipeByteArray overwrites b with zeros. A nil slice is left alone.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
