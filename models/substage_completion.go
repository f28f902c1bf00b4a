package models

import "time"

// SubstageCompletion = user finished one litigation substage (e.g., "Medical Records").
// Coins are captured at completion time from the reward table — never recomputed later.
// The composite unique index is what makes re-completion a no-op instead of a double award.
type SubstageCompletion struct {
	ID             string `gorm:"primaryKey;type:uuid" json:"id"`
	ExternalUserID string `gorm:"not null;uniqueIndex:ux_user_substage,priority:1" json:"external_user_id"`
	SubstageID     string `gorm:"not null;uniqueIndex:ux_user_substage,priority:2" json:"substage_id"` // e.g., "pre-9"

	// Denormalized for display — stage derived from the taxonomy, not the client
	StageID      string `gorm:"index" json:"stage_id"` // e.g., "pre"
	StageName    string `json:"stage_name"`
	SubstageName string `json:"substage_name"`
	SubstageType string `gorm:"type:varchar(32)" json:"substage_type"` // e.g., "data_entry"

	CoinsAwarded int64     `json:"coins_awarded" gorm:"not null"`
	CompletedAt  time.Time `json:"completed_at" gorm:"autoCreateTime"`
}
