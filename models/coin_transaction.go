package models

import "time"

// CoinReason classifies why coins moved
type CoinReason string

const (
	CoinReasonSubstage        CoinReason = "substage_completion"
	CoinReasonDailyBonus      CoinReason = "daily_bonus"
	CoinReasonAdminAdjustment CoinReason = "admin_adjustment"
)

// CoinTransaction is the append-only ledger behind the denormalized balance.
// Every balance mutation writes exactly one row here, in the same transaction.
type CoinTransaction struct {
	ID             string     `gorm:"primaryKey;type:uuid" json:"id"`
	ExternalUserID string     `gorm:"index;not null" json:"external_user_id"`
	Amount         int64      `gorm:"not null" json:"amount"`
	Reason         CoinReason `gorm:"type:varchar(32);not null;index" json:"reason"`
	ReferenceID    string     `json:"reference_id,omitempty"` // substage id, claim id, admin note
	BalanceAfter   int64      `json:"balance_after"`
	CreatedAt      time.Time  `json:"created_at" gorm:"autoCreateTime;index"`
}

func (CoinTransaction) TableName() string {
	return "coin_transactions"
}
