package models

import "time"

// DailyClaim stores one row per successful login-bonus claim (audit trail).
// The gate itself lives on CaseUser (LastDailyClaimAt / LoginStreak); these rows
// exist so support can answer "why is my streak N" disputes.
type DailyClaim struct {
	ID             string    `gorm:"primaryKey;type:uuid" json:"id"`
	ExternalUserID string    `gorm:"index;not null" json:"external_user_id"`
	ClaimDay       string    `gorm:"type:varchar(10);not null" json:"claim_day"` // YYYY-MM-DD in the service timezone
	StreakAchieved int       `json:"streak_achieved"`
	CoinsAwarded   int64     `json:"coins_awarded"`
	ClaimedAt      time.Time `json:"claimed_at" gorm:"autoCreateTime"`
}
