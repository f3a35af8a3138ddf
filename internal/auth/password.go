package auth

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"

	"golang.org/x/crypto/argon2"

	"github.com/spec-kit/animation-service/internal/domain"
)

// Argon2id parameters. Changing any of them invalidates every stored hash.
const (
	SaltLength    = 16
	argonTime     = 1
	argonMemoryKB = 64 * 1024
	argonThreads  = 4
	argonKeyLen   = 32
)

// ErrCredentialNotFound is returned by a CredentialStore for unknown usernames.
var ErrCredentialNotFound = domain.ErrNotFound

// CredentialStore looks up the stored login material of a user. Implementations
// own their transactions; callers only see the result.
type CredentialStore interface {
	LookupCredential(ctx context.Context, username string) (domain.Credential, error)
}

// GenerateSalt returns n bytes from a cryptographically secure source.
func GenerateSalt(n int) ([]byte, error) {
	if n < SaltLength {
		n = SaltLength
	}
	salt := make([]byte, n)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}
	return salt, nil
}

// HashPassword derives the one-way hash of password under salt.
func HashPassword(password string, salt []byte) ([]byte, error) {
	if len(salt) == 0 {
		return nil, errors.New("empty salt")
	}
	return argon2.IDKey([]byte(password), salt, argonTime, argonMemoryKB, argonThreads, argonKeyLen), nil
}

// NewCredential salts and hashes a plaintext password for username.
func NewCredential(username, password string) (domain.Credential, error) {
	salt, err := GenerateSalt(SaltLength)
	if err != nil {
		return domain.Credential{}, err
	}
	hash, err := HashPassword(password, salt)
	if err != nil {
		return domain.Credential{}, err
	}
	return domain.Credential{Username: username, PasswordHash: hash, Salt: salt}, nil
}

// VerifyPassword recomputes the hash and compares it to the stored one.
func VerifyPassword(password string, cred domain.Credential) bool {
	if len(cred.Salt) == 0 || len(cred.PasswordHash) == 0 {
		return false
	}
	hash, err := HashPassword(password, cred.Salt)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare(hash, cred.PasswordHash) == 1
}
