package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestVerifySuccessStampsLastLogin(t *testing.T) {
	db := newTestDB(t)
	s := NewCredentialStore(db, bcrypt.MinCost)

	created, err := s.CreateOrUpdate(ctx(), "admin", "correct horse battery")
	require.NoError(t, err)
	assert.Nil(t, created.LastLogin)

	user, err := s.Verify(ctx(), "admin", "correct horse battery")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)
	assert.Equal(t, "admin", user.Username)
	require.NotNil(t, user.LastLogin)
}

func TestVerifyFailuresAreIndistinguishable(t *testing.T) {
	db := newTestDB(t)
	s := NewCredentialStore(db, bcrypt.MinCost)

	_, err := s.CreateOrUpdate(ctx(), "admin", "correct horse battery")
	require.NoError(t, err)

	// Wrong password for an existing user and a non-existent user must fail
	// with the exact same error value.
	_, wrongPass := s.Verify(ctx(), "admin", "wrong password")
	_, noUser := s.Verify(ctx(), "nobody", "wrong password")

	assert.ErrorIs(t, wrongPass, ErrInvalidCredentials)
	assert.ErrorIs(t, noUser, ErrInvalidCredentials)
	assert.Equal(t, wrongPass.Error(), noUser.Error())
}

func TestCreateOrUpdateUpserts(t *testing.T) {
	db := newTestDB(t)
	s := NewCredentialStore(db, bcrypt.MinCost)

	first, err := s.CreateOrUpdate(ctx(), "admin", "original password")
	require.NoError(t, err)

	second, err := s.CreateOrUpdate(ctx(), "admin", "rotated password")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	_, err = s.Verify(ctx(), "admin", "original password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = s.Verify(ctx(), "admin", "rotated password")
	assert.NoError(t, err)
}

func TestPasswordsAreHashedSlow(t *testing.T) {
	db := newTestDB(t)
	s := NewCredentialStore(db, 0)

	user, err := s.CreateOrUpdate(ctx(), "admin", "correct horse battery")
	require.NoError(t, err)

	assert.NotContains(t, user.PasswordHash, "correct horse battery")
	cost, err := bcrypt.Cost([]byte(user.PasswordHash))
	require.NoError(t, err)
	assert.Equal(t, 12, cost)
}
