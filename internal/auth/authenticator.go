package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"time"

	"github.com/spec-kit/animation-service/internal/domain"
)

var (
	// ErrInvalidCredentials covers unknown users and wrong passwords alike.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrStoreUnavailable means the credential store failed or timed out.
	ErrStoreUnavailable = errors.New("credential store unavailable")
)

// Authenticator verifies a username/password pair.
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (domain.Identity, error)
}

// FixedAuthenticator accepts exactly one configured admin pair.
type FixedAuthenticator struct {
	username []byte
	password []byte
}

// NewFixedAuthenticator builds the single-admin authenticator.
func NewFixedAuthenticator(username, password string) *FixedAuthenticator {
	return &FixedAuthenticator{username: []byte(username), password: []byte(password)}
}

// Authenticate compares both fields without short-circuiting on the username.
func (a *FixedAuthenticator) Authenticate(_ context.Context, username, password string) (domain.Identity, error) {
	userOK := subtle.ConstantTimeCompare([]byte(username), a.username)
	passOK := subtle.ConstantTimeCompare([]byte(password), a.password)
	if userOK&passOK != 1 {
		return domain.Identity{}, ErrInvalidCredentials
	}
	return domain.NewIdentity(username, map[string]string{
		domain.AttrUsername: username,
		domain.AttrRole:     domain.RoleAdmin,
	}), nil
}

// StoreAuthenticator delegates to a CredentialStore.
type StoreAuthenticator struct {
	store   CredentialStore
	timeout time.Duration
}

// NewStoreAuthenticator bounds every lookup by timeout.
func NewStoreAuthenticator(store CredentialStore, timeout time.Duration) *StoreAuthenticator {
	return &StoreAuthenticator{store: store, timeout: timeout}
}

// Authenticate looks the user up and verifies the password.
func (a *StoreAuthenticator) Authenticate(ctx context.Context, username, password string) (domain.Identity, error) {
	if username == "" {
		return domain.Identity{}, ErrInvalidCredentials
	}

	lookupCtx := ctx
	if a.timeout > 0 {
		var cancel context.CancelFunc
		lookupCtx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	cred, err := a.store.LookupCredential(lookupCtx, username)
	if err != nil {
		if errors.Is(err, ErrCredentialNotFound) {
			// Run the KDF anyway so a miss costs the same as a mismatch.
			_ = VerifyPassword(password, dummyCredential)
			return domain.Identity{}, ErrInvalidCredentials
		}
		return domain.Identity{}, errors.Join(ErrStoreUnavailable, err)
	}

	if !VerifyPassword(password, cred) {
		return domain.Identity{}, ErrInvalidCredentials
	}
	return domain.NewIdentity(cred.Username, map[string]string{
		domain.AttrUsername: cred.Username,
	}), nil
}

var dummyCredential = domain.Credential{
	PasswordHash: make([]byte, argonKeyLen),
	Salt:         make([]byte, SaltLength),
}
