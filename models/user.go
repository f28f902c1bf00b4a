package models

import (
	"time"

	"gorm.io/gorm"
)

// CaseUser is a local snapshot of client data needed for progress tracking.
// Owned and managed solely by the Progress service.
// Profile fields are populated via sync worker from the main app's user table;
// the coin/streak fields are owned locally and never overwritten by the sync.
type CaseUser struct {
	ID                string  `gorm:"primaryKey;type:uuid" json:"id"`
	ExternalUserID    string  `gorm:"uniqueIndex;not null" json:"external_user_id"` // The main app's UUID
	Username          string  `gorm:"index;not null" json:"username"`
	Email             string  `json:"email,omitempty"`
	AvatarURL         *string `json:"avatar_url,omitempty"`
	FirstName         *string `json:"first_name,omitempty"`
	LastName          *string `json:"last_name,omitempty"`
	LawFirmID         *string `gorm:"index" json:"law_firm_id,omitempty"`
	MedicalProviderID *string `gorm:"index" json:"medical_provider_id,omitempty"`

	// Coin economy — server-authoritative, mutated only through CoinService
	CoinBalance int64 `json:"coin_balance" gorm:"default:0"`

	// Daily login claim state
	LastDailyClaimAt *time.Time `json:"last_daily_claim_at,omitempty"`
	LoginStreak      int        `json:"login_streak" gorm:"default:0"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Soft delete (account deletion cascades are handled upstream)
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Timestamps adds GORM auto-times
type Timestamps struct {
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}
