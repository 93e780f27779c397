// Package service holds the request-independent core of the API:
// authentication, profile projection and registration.  Services never
// keep per-user state; every identity is passed in and returned explicitly.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/isuci/isuci-backend/internal/model"
	"github.com/isuci/isuci-backend/internal/repository"
)

// UserStore is the credential store.
type UserStore interface {
	GetByDocument(ctx context.Context, documentID string) (model.User, error)
	Create(ctx context.Context, u model.User) error
}

// Hasher is a one-way password hash.
type Hasher interface {
	Hash(plain string) (string, error)
	Verify(hash, plain string) bool
}

// Authenticator checks a document id and password against the store.
type Authenticator struct {
	users  UserStore
	hasher Hasher
	// dummy is compared against when the user does not exist, so both
	// failure paths spend one hash verification.
	dummy string
}

// NewAuthenticator fails when hasher cannot produce a digest, typically an
// out-of-range bcrypt cost.  Without the dummy digest an unknown user would
// be rejected measurably faster than a wrong password.
func NewAuthenticator(users UserStore, hasher Hasher) (*Authenticator, error) {
	dummy, err := hasher.Hash("isuci-unknown-user")
	if err != nil {
		return nil, fmt.Errorf("prepare dummy digest: %w", err)
	}
	return &Authenticator{users: users, hasher: hasher, dummy: dummy}, nil
}

// Authenticate returns the stored user when secret matches its digest.
// An unknown identifier and a wrong secret both yield ErrInvalidCredentials.
func (a *Authenticator) Authenticate(ctx context.Context, identifier, secret string) (model.User, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || secret == "" {
		return model.User{}, fmt.Errorf("%w: usuario/password", ErrMissingField)
	}

	u, err := a.users.GetByDocument(ctx, identifier)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			a.hasher.Verify(a.dummy, secret)
			return model.User{}, ErrInvalidCredentials
		}
		if errors.Is(err, repository.ErrTimeout) {
			return model.User{}, err
		}
		return model.User{}, fmt.Errorf("%w: load user: %w", ErrInternal, err)
	}
	if !a.hasher.Verify(u.PasswordHash, secret) {
		return model.User{}, ErrInvalidCredentials
	}
	return u, nil
}
