package services

import (
	"testing"

	"github.com/VerdictPath/VerdictPath-sub007/models"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB spins up an in-memory database with the full schema. A single
// connection keeps concurrent transactions serialized the way the production
// store does.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.CaseUser{},
		&models.SubstageCompletion{},
		&models.CoinTransaction{},
		&models.DailyClaim{},
		&models.CaseDocument{},
	))

	return db
}

func seedUser(t *testing.T, db *gorm.DB, externalUserID string) *models.CaseUser {
	t.Helper()

	user := models.CaseUser{
		ID:             uuid.NewString(),
		ExternalUserID: externalUserID,
		Username:       "client-" + externalUserID,
		Email:          externalUserID + "@example.com",
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func balanceOf(t *testing.T, db *gorm.DB, externalUserID string) int64 {
	t.Helper()

	var user models.CaseUser
	require.NoError(t, db.Where("external_user_id = ?", externalUserID).First(&user).Error)
	return user.CoinBalance
}
