package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndAuthenticate(t *testing.T) {
	db := newTestDB(t)
	mailer := &fakeMailer{}
	svc := NewAccountService(db, mailer)

	user, err := svc.Register("jane", "jane@example.com", "s3cret-pass")
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "jane", user.Username)
	assert.Equal(t, "jane@example.com", user.Email)
	assert.NotEqual(t, "s3cret-pass", user.PasswordHash)
	assert.False(t, user.CreatedAt.IsZero())

	// Welcome mail is dispatched asynchronously.
	require.Eventually(t, func() bool {
		return len(mailer.recipients()) == 1
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, "jane@example.com", mailer.recipients()[0])

	got, err := svc.Authenticate("jane@example.com", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = svc.Authenticate("jane@example.com", "wrong-pass")
	assert.ErrorIs(t, err, ErrWrongPassword)

	_, err = svc.Authenticate("nobody@example.com", "s3cret-pass")
	assert.ErrorIs(t, err, ErrUnknownEmail)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	svc := NewAccountService(db, nil)

	_, err := svc.Register("jane", "jane@example.com", "s3cret-pass")
	require.NoError(t, err)

	// A different username and password do not matter; the email decides.
	_, err = svc.Register("janet", "jane@example.com", "other-pass")
	assert.ErrorIs(t, err, ErrDuplicateEmail)

	_, err = svc.Register("jane2", "jane@example.com", "s3cret-pass")
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestRegisterMissingFields(t *testing.T) {
	db := newTestDB(t)
	svc := NewAccountService(db, nil)

	for _, tc := range []struct{ username, email, password string }{
		{"", "a@example.com", "pass-123"},
		{"jane", "", "pass-123"},
		{"jane", "a@example.com", ""},
	} {
		_, err := svc.Register(tc.username, tc.email, tc.password)
		assert.ErrorIs(t, err, ErrMissingField)
	}
}

func TestRegisterSurvivesMailFailure(t *testing.T) {
	db := newTestDB(t)
	mailer := &fakeMailer{failAll: true}
	svc := NewAccountService(db, mailer)

	user, err := svc.Register("jane", "jane@example.com", "s3cret-pass")
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)

	// Dispatch was attempted even though delivery failed.
	require.Eventually(t, func() bool {
		return len(mailer.recipients()) == 1
	}, 2*time.Second, 10*time.Millisecond)

	// The account exists and the user can log in.
	_, err = svc.Authenticate("jane@example.com", "s3cret-pass")
	assert.NoError(t, err)
}

func TestGetUser(t *testing.T) {
	db := newTestDB(t)
	svc := NewAccountService(db, nil)

	user, err := svc.Register("jane", "jane@example.com", "s3cret-pass")
	require.NoError(t, err)

	got, err := svc.GetUser(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "jane", got.Username)

	_, err = svc.GetUser("no-such-id")
	assert.ErrorIs(t, err, ErrNotFound)
}
