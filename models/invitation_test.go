package models

import (
	"testing"
	"time"

	"artfolio/db"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvitationLifecycle(t *testing.T) {
	setupTestDB(t)
	user, err := UserCreate("Invited Artist", "new@example.com", "")
	require.NoError(t, err)

	// No password yet means no login
	_, err = UserLogin("new@example.com", "", "")
	assert.ErrorIs(t, err, ErrBadCredentials)

	invitation := NewInvitation(user.ID)
	require.NoError(t, db.Instance.Create(&invitation).Error)
	require.NotEmpty(t, invitation.Token)

	loaded, err := InvitationByToken(invitation.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, loaded.UserID)
	assert.Equal(t, user.Email, loaded.User.Email)

	require.NoError(t, loaded.Accept("brand-new-password"))

	// The password works now and the token is burned
	logged, err := UserLogin("new@example.com", "brand-new-password", "")
	require.NoError(t, err)
	assert.Equal(t, user.ID, logged.ID)
	_, err = InvitationByToken(invitation.Token)
	assert.Error(t, err)
}

func TestInvitationExpiry(t *testing.T) {
	setupTestDB(t)
	user, err := UserCreate("Invited Artist", "new@example.com", "")
	require.NoError(t, err)

	invitation := NewInvitation(user.ID)
	require.NoError(t, db.Instance.Create(&invitation).Error)
	// Backdate past the 72h window
	stale := time.Now().Add(-80 * time.Hour).Unix()
	require.NoError(t, db.Instance.Model(&invitation).Update("created_at", stale).Error)

	_, err = InvitationByToken(invitation.Token)
	assert.Error(t, err)
}

func TestUserLogin(t *testing.T) {
	setupTestDB(t)
	_, err := UserCreate("Tester", "artist@example.com", "hunter22hunter22")
	require.NoError(t, err)

	_, err = UserLogin("artist@example.com", "wrong", "")
	assert.ErrorIs(t, err, ErrBadCredentials)
	_, err = UserLogin("nobody@example.com", "hunter22hunter22", "")
	assert.ErrorIs(t, err, ErrBadCredentials)

	user, err := UserLogin("artist@example.com", "hunter22hunter22", "")
	require.NoError(t, err)
	assert.Equal(t, "Tester", user.Name)
}
