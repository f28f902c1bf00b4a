package services

import (
	"testing"

	"github.com/VerdictPath/VerdictPath-sub007/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestAddCoinsUpdatesBalanceAndLedger(t *testing.T) {
	db := newTestDB(t)
	coins := NewCoinService(db)
	seedUser(t, db, "user-1")

	var newBalance int64
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		newBalance, err = coins.AddCoins(tx, "user-1", 40, models.CoinReasonAdminAdjustment, "support credit")
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, int64(40), newBalance)
	assert.Equal(t, int64(40), balanceOf(t, db, "user-1"))

	var entry models.CoinTransaction
	require.NoError(t, db.Where("external_user_id = ?", "user-1").First(&entry).Error)
	assert.Equal(t, int64(40), entry.Amount)
	assert.Equal(t, models.CoinReasonAdminAdjustment, entry.Reason)
	assert.Equal(t, "support credit", entry.ReferenceID)
	assert.Equal(t, int64(40), entry.BalanceAfter)
}

func TestAddCoinsRejectsNegativeAmount(t *testing.T) {
	db := newTestDB(t)
	coins := NewCoinService(db)
	seedUser(t, db, "user-1")

	err := db.Transaction(func(tx *gorm.DB) error {
		_, err := coins.AddCoins(tx, "user-1", -5, models.CoinReasonAdminAdjustment, "oops")
		return err
	})
	assert.ErrorIs(t, err, ErrNegativeAmount)
	assert.Equal(t, int64(0), balanceOf(t, db, "user-1"))
}

func TestAddCoinsUnknownUser(t *testing.T) {
	db := newTestDB(t)
	coins := NewCoinService(db)

	err := db.Transaction(func(tx *gorm.DB) error {
		_, err := coins.AddCoins(tx, "ghost", 10, models.CoinReasonAdminAdjustment, "x")
		return err
	})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestAddCoinsRollsBackWithCallerTransaction(t *testing.T) {
	db := newTestDB(t)
	coins := NewCoinService(db)
	seedUser(t, db, "user-1")

	sentinel := assert.AnError
	err := db.Transaction(func(tx *gorm.DB) error {
		if _, err := coins.AddCoins(tx, "user-1", 100, models.CoinReasonAdminAdjustment, "will roll back"); err != nil {
			return err
		}
		return sentinel
	})
	require.ErrorIs(t, err, sentinel)

	// Neither the balance nor the ledger row survived the rollback.
	assert.Equal(t, int64(0), balanceOf(t, db, "user-1"))
	var count int64
	db.Model(&models.CoinTransaction{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestGetBalance(t *testing.T) {
	db := newTestDB(t)
	coins := NewCoinService(db)
	seedUser(t, db, "user-1")

	balance, err := coins.GetBalance("user-1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), balance)

	_, err = coins.GetBalance("ghost")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestGetHistoryFiltersByReason(t *testing.T) {
	db := newTestDB(t)
	coins := NewCoinService(db)
	seedUser(t, db, "user-1")

	err := db.Transaction(func(tx *gorm.DB) error {
		if _, err := coins.AddCoins(tx, "user-1", 10, models.CoinReasonSubstage, "pre-1"); err != nil {
			return err
		}
		if _, err := coins.AddCoins(tx, "user-1", 25, models.CoinReasonDailyBonus, "claim-1"); err != nil {
			return err
		}
		_, err := coins.AddCoins(tx, "user-1", 5, models.CoinReasonSubstage, "pre-4")
		return err
	})
	require.NoError(t, err)

	all, err := coins.GetHistory("user-1", 50, nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	reason := models.CoinReasonSubstage
	substageOnly, err := coins.GetHistory("user-1", 50, &reason)
	require.NoError(t, err)
	assert.Len(t, substageOnly, 2)
	for _, tx := range substageOnly {
		assert.Equal(t, models.CoinReasonSubstage, tx.Reason)
	}
}
