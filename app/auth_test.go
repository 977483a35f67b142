package app

import (
	"testing"

	"github.com/stretchr/testify/require"

	"phone-sales/storage"
)

func setupAuth(t *testing.T) (*Auth, *storage.Store) {
	t.Helper()
	s, err := storage.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return NewAuth(s), s
}

func TestAdminLoginUsesHardcodedPair(t *testing.T) {
	a, _ := setupAuth(t)

	sess, err := a.Login("admin", "admin", true)
	require.NoError(t, err)
	require.True(t, sess.IsAdmin)

	_, err = a.Login("admin", "wrong", true)
	require.ErrorIs(t, err, ErrBadCredentials)
}

// Role selection is explicit: the seeded admin row authenticates under the
// general-user path too, but the session it yields carries no admin
// capability.
func TestSameCredentialDifferentRolePaths(t *testing.T) {
	a, _ := setupAuth(t)

	sess, err := a.Login("admin", "admin", false)
	require.NoError(t, err)
	require.False(t, sess.IsAdmin)
}

func TestGeneralUserLogin(t *testing.T) {
	a, s := setupAuth(t)
	require.NoError(t, s.Register("carol", "pw"))

	sess, err := a.Login("carol", "pw", false)
	require.NoError(t, err)
	require.Equal(t, "carol", sess.Username)
	require.False(t, sess.IsAdmin)

	_, err = a.Login("carol", "nope", false)
	require.ErrorIs(t, err, ErrBadCredentials)
}

func TestRegisterRejectedForAdminRole(t *testing.T) {
	a, s := setupAuth(t)

	before, err := s.UserCount()
	require.NoError(t, err)

	err = a.Register("dave", "pw", true)
	require.ErrorIs(t, err, ErrAdminRegistration)

	after, err := s.UserCount()
	require.NoError(t, err)
	require.Equal(t, before, after)
}

func TestRegisterDuplicate(t *testing.T) {
	a, _ := setupAuth(t)
	require.NoError(t, a.Register("erin", "pw", false))
	require.ErrorIs(t, a.Register("erin", "pw2", false), storage.ErrUserExists)
}
