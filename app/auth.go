package app

import (
	"errors"

	"phone-sales/models"
	"phone-sales/storage"
)

// Hard-coded privileged credential pair. The admin role never touches the
// users table; this literal is the whole check. Known limitation, kept.
const (
	adminUsername = "admin"
	adminPassword = "admin"
)

var (
	ErrBadCredentials    = errors.New("wrong username or password")
	ErrAdminRegistration = errors.New("registration is not available for the admin role")
)

// Auth is the access-control gate in front of the workspace. The role is an
// explicit choice made at login time, not inferred from the credential: the
// same pair can be checked under either role path with different results.
type Auth struct {
	store *storage.Store
}

// NewAuth creates the gate over the given store handle.
func NewAuth(store *storage.Store) *Auth {
	return &Auth{store: store}
}

// Login validates the credential pair under the selected role and returns
// the session capability. IsAdmin only gates which console actions are
// offered; the store performs no role enforcement of its own.
func (a *Auth) Login(username, password string, asAdmin bool) (models.Session, error) {
	if asAdmin {
		if username == adminUsername && password == adminPassword {
			return models.Session{Username: username, IsAdmin: true}, nil
		}
		return models.Session{}, ErrBadCredentials
	}

	ok, err := a.store.Authenticate(username, password)
	if err != nil {
		return models.Session{}, err
	}
	if !ok {
		return models.Session{}, ErrBadCredentials
	}
	return models.Session{Username: username, IsAdmin: false}, nil
}

// Register creates a general-user account. Registering under the admin role
// is rejected before the store is touched; duplicate usernames are rejected
// by the store with no row mutation.
func (a *Auth) Register(username, password string, asAdmin bool) error {
	if asAdmin {
		return ErrAdminRegistration
	}
	return a.store.Register(username, password)
}
