package services

import (
	"errors"
	"fmt"

	"github.com/VerdictPath/VerdictPath-sub007/models"

	"gorm.io/gorm"
)

// StageProgress is the per-stage slice of the case checklist.
type StageProgress struct {
	StageID            string  `json:"stage_id"`
	StageName          string  `json:"stage_name"`
	CompletedSubstages int     `json:"completed_substages"`
	TotalSubstages     int     `json:"total_substages"`
	PercentComplete    float64 `json:"percent_complete"`
}

// Progress is the dashboard view of a user's case: checklist position plus
// lifetime coins earned from litigation substages.
type Progress struct {
	CompletedSubstageIDs []string        `json:"completed_substage_ids"`
	PercentComplete      float64         `json:"percent_complete"`
	CoinsFromLitigation  int64           `json:"coins_from_litigation"`
	Stages               []StageProgress `json:"stages"`
	CoinBalance          int64           `json:"coin_balance"`
	LoginStreak          int             `json:"login_streak"`
}

// ProgressService derives percent-complete and coin totals from the
// completion ledger. Read-only.
type ProgressService struct {
	DB      *gorm.DB
	Rewards *RewardTable
}

func NewProgressService(db *gorm.DB, rewards *RewardTable) *ProgressService {
	return &ProgressService{DB: db, Rewards: rewards}
}

// GetProgress reads the ledger and the user row in one transaction so the
// percent and the coin totals always describe the same snapshot — the
// dashboard shows them side by side and they must never disagree.
func (s *ProgressService) GetProgress(externalUserID string) (*Progress, error) {
	var progress *Progress
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var user models.CaseUser
		if err := tx.Where("external_user_id = ?", externalUserID).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return fmt.Errorf("failed to fetch user: %w", err)
		}

		var completions []models.SubstageCompletion
		if err := tx.Where("external_user_id = ?", externalUserID).
			Order("completed_at ASC").
			Find(&completions).Error; err != nil {
			return fmt.Errorf("failed to fetch completions: %w", err)
		}

		ids := make([]string, 0, len(completions))
		perStage := make(map[string]int)
		var coins int64
		for _, c := range completions {
			ids = append(ids, c.SubstageID)
			coins += c.CoinsAwarded
			if c.StageID != "" {
				perStage[c.StageID]++
			}
		}

		// Fixed denominator: the canonical taxonomy, never the row count.
		total := s.Rewards.NumSubstages()
		percent := 0.0
		if total > 0 {
			percent = float64(len(ids)) / float64(total) * 100
		}

		stages := make([]StageProgress, 0, s.Rewards.NumStages())
		for _, st := range s.Rewards.Stages() {
			stageTotal := len(s.Rewards.SubstagesForStage(st.ID))
			done := perStage[st.ID]
			sp := StageProgress{
				StageID:            st.ID,
				StageName:          st.Name,
				CompletedSubstages: done,
				TotalSubstages:     stageTotal,
			}
			if stageTotal > 0 {
				sp.PercentComplete = float64(done) / float64(stageTotal) * 100
			}
			stages = append(stages, sp)
		}

		progress = &Progress{
			CompletedSubstageIDs: ids,
			PercentComplete:      percent,
			CoinsFromLitigation:  coins,
			Stages:               stages,
			CoinBalance:          user.CoinBalance,
			LoginStreak:          user.LoginStreak,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return progress, nil
}
