package services

import (
	"testing"

	"github.com/VerdictPath/VerdictPath-sub007/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureUserIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)

	u1, err := svc.EnsureUser("ext-1", "jordan")
	require.NoError(t, err)
	assert.Equal(t, "ext-1", u1.ExternalUserID)
	assert.Equal(t, int64(0), u1.CoinBalance)

	u2, err := svc.EnsureUser("ext-1", "renamed")
	require.NoError(t, err)
	assert.Equal(t, u1.ID, u2.ID)
	assert.Equal(t, "jordan", u2.Username) // existing row wins

	var count int64
	db.Model(&models.CaseUser{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestGetByExternalID(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)
	seedUser(t, db, "ext-1")

	u, err := svc.GetByExternalID("ext-1")
	require.NoError(t, err)
	assert.Equal(t, "ext-1", u.ExternalUserID)

	_, err = svc.GetByExternalID("ghost")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
