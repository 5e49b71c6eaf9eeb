// Package cryptox hashes and verifies account passwords with Argon2id.
package cryptox

import (
	"crypto/subtle"
	"errors"

	"github.com/dmitrijs2005/libris/internal/common"
	"golang.org/x/crypto/argon2"
)

// Argon2id parameters. Changing them invalidates stored hashes.
const (
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
	keyLen       = 32
	SaltLen      = 16
)

// ErrEmptyPassword is returned when hashing an empty password.
var ErrEmptyPassword = errors.New("empty password")

// DeriveKey stretches password with salt.
func DeriveKey(password []byte, salt []byte) []byte {
	return argon2.IDKey(password, salt, argonTime, argonMemory, argonThreads, keyLen)
}

// HashPassword returns a fresh random salt and the derived hash.
func HashPassword(password string) (hash []byte, salt []byte, err error) {
	if password == "" {
		return nil, nil, ErrEmptyPassword
	}
	salt = common.GenerateRandByteArray(SaltLen)
	pw := []byte(password)
	defer common.WipeByteArray(pw)
	return DeriveKey(pw, salt), salt, nil
}

// VerifyPassword reports whether password derives to hash under salt.
// The comparison runs in constant time.
func VerifyPassword(password string, salt, hash []byte) bool {
	pw := []byte(password)
	defer common.WipeByteArray(pw)
	return subtle.ConstantTimeCompare(DeriveKey(pw, salt), hash) == 1
}
