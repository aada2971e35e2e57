// Package cryptox derives and checks password hashes for local accounts.
package cryptox

import (
	"crypto/subtle"

	"github.com/dmitrijs2005/dataroom/internal/common"
	"golang.org/x/crypto/argon2"
)

const (
	SaltSize = 16
	KeySize  = 32
)

// argon2id parameters: 1 pass, 64 MiB, 4 lanes.
const (
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
)

// NewSalt returns a fresh random salt.
func NewSalt() []byte {
	return common.GenerateRandByteArray(SaltSize)
}

// HashPassword derives the argon2id hash of password with salt.
func HashPassword(password, salt []byte) []byte {
	return argon2.IDKey(password, salt, argonTime, argonMemory, argonThreads, KeySize)
}

// VerifyPassword recomputes the hash and compares it in constant time.
func VerifyPassword(password, salt, hash []byte) bool {
	return subtle.ConstantTimeCompare(HashPassword(password, salt), hash) == 1
}
