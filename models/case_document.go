package models

// CaseDocument = an evidence/paperwork upload tied to a litigation stage
// (accident photos, medical records, demand letters). Binary lives in R2;
// this row only keeps the pointer and display metadata.
type CaseDocument struct {
	ID             string  `gorm:"primaryKey;type:uuid" json:"id"`
	ExternalUserID string  `gorm:"index;not null" json:"external_user_id"`
	StageID        string  `gorm:"index" json:"stage_id"`              // e.g., "disc"
	SubstageID     *string `gorm:"index" json:"substage_id,omitempty"` // optional link to the checklist item
	Title          string  `gorm:"not null" json:"title"`
	FileURL        string  `gorm:"type:text;not null" json:"file_url"`
	ObjectKey      string  `gorm:"type:text;not null" json:"-"`
	ContentType    string  `gorm:"type:varchar(128)" json:"content_type"`
	SizeBytes      int64   `json:"size_bytes"`

	Timestamps
}
