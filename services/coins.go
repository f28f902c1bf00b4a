package services

import (
	"errors"
	"fmt"
	"log"

	"github.com/VerdictPath/VerdictPath-sub007/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrUserNotFound is returned when an operation references an external user
// id with no local mirror row.
var ErrUserNotFound = errors.New("user not found")

// ErrNegativeAmount rejects award amounts below zero. Amounts come from the
// reward table or server policy, never from request bodies, so hitting this
// means a server-side bug.
var ErrNegativeAmount = errors.New("coin amount must be non-negative")

// CoinService is the only permitted write path to a user's stored coin
// balance. Callers pass their own *gorm.DB transaction so the award event and
// the balance update commit or roll back together.
type CoinService struct {
	DB *gorm.DB
}

func NewCoinService(db *gorm.DB) *CoinService {
	return &CoinService{DB: db}
}

// AddCoins increments the user's balance inside tx and appends a ledger row.
// Returns the new balance.
func (s *CoinService) AddCoins(tx *gorm.DB, externalUserID string, amount int64, reason models.CoinReason, referenceID string) (int64, error) {
	if amount < 0 {
		return 0, ErrNegativeAmount
	}

	res := tx.Model(&models.CaseUser{}).
		Where("external_user_id = ?", externalUserID).
		Update("coin_balance", gorm.Expr("coin_balance + ?", amount))
	if res.Error != nil {
		return 0, fmt.Errorf("failed to update coin balance: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return 0, ErrUserNotFound
	}

	var user models.CaseUser
	if err := tx.Where("external_user_id = ?", externalUserID).First(&user).Error; err != nil {
		return 0, fmt.Errorf("failed to reload coin balance: %w", err)
	}

	entry := models.CoinTransaction{
		ID:             uuid.NewString(),
		ExternalUserID: externalUserID,
		Amount:         amount,
		Reason:         reason,
		ReferenceID:    referenceID,
		BalanceAfter:   user.CoinBalance,
	}
	if err := tx.Create(&entry).Error; err != nil {
		return 0, fmt.Errorf("failed to record coin transaction: %w", err)
	}

	log.Printf("🪙 Coins awarded: %s +%d → balance=%d (reason: %s, ref: %s)",
		externalUserID, amount, user.CoinBalance, reason, referenceID)

	return user.CoinBalance, nil
}

// GetBalance reads the denormalized balance.
func (s *CoinService) GetBalance(externalUserID string) (int64, error) {
	var user models.CaseUser
	if err := s.DB.Where("external_user_id = ?", externalUserID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrUserNotFound
		}
		return 0, fmt.Errorf("failed to fetch user: %w", err)
	}
	return user.CoinBalance, nil
}

// GetHistory returns the user's coin ledger, newest first.
func (s *CoinService) GetHistory(externalUserID string, limit int, reason *models.CoinReason) ([]models.CoinTransaction, error) {
	if limit < 1 || limit > 200 {
		limit = 50
	}
	query := s.DB.Where("external_user_id = ?", externalUserID)
	if reason != nil {
		query = query.Where("reason = ?", *reason)
	}
	var txs []models.CoinTransaction
	if err := query.Order("created_at DESC").Limit(limit).Find(&txs).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch coin history: %w", err)
	}
	return txs, nil
}
