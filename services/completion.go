package services

import (
	"errors"
	"fmt"
	"log"

	"github.com/VerdictPath/VerdictPath-sub007/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CompletionResult is what the app gets back from marking a substage done.
// A duplicate completion is a successful, zero-coin outcome — not an error.
type CompletionResult struct {
	AlreadyCompleted bool   `json:"already_completed"`
	SubstageID       string `json:"substage_id"`
	CoinsAwarded     int64  `json:"coins_awarded"`
	NewBalance       int64  `json:"new_balance"`
}

// CompletionService idempotently records substage completions and pays the
// server-computed coin value exactly once per (user, substage).
type CompletionService struct {
	DB      *gorm.DB
	Rewards *RewardTable
	Coins   *CoinService
}

func NewCompletionService(db *gorm.DB, rewards *RewardTable, coins *CoinService) *CompletionService {
	return &CompletionService{DB: db, Rewards: rewards, Coins: coins}
}

// CompleteSubstage marks substageID done for the user and awards coins from
// the reward table. Two concurrent calls for the same pair resolve to exactly
// one award: the insert runs under the (user, substage) unique index with
// ON CONFLICT DO NOTHING, so the losing writer sees zero rows affected and
// degrades to the already-completed branch instead of erroring.
func (s *CompletionService) CompleteSubstage(externalUserID, substageID string) (*CompletionResult, error) {
	coins := s.Rewards.SubstageCoins(substageID) // unknown ids pay 0, warning logged

	completion := models.SubstageCompletion{
		ID:             uuid.NewString(),
		ExternalUserID: externalUserID,
		SubstageID:     substageID,
		CoinsAwarded:   coins,
	}
	if sub := s.Rewards.SubstageByID(substageID); sub != nil {
		completion.StageID = sub.StageID
		completion.StageName = sub.StageName
		completion.SubstageName = sub.Name
		completion.SubstageType = sub.Type
	}

	var result CompletionResult
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var user models.CaseUser
		if err := tx.Where("external_user_id = ?", externalUserID).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return fmt.Errorf("failed to fetch user: %w", err)
		}

		res := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "external_user_id"}, {Name: "substage_id"}},
			DoNothing: true,
		}).Create(&completion)
		if res.Error != nil {
			return fmt.Errorf("failed to insert substage completion: %w", res.Error)
		}

		if res.RowsAffected == 0 {
			// Row already exists — idempotent no-op, no balance mutation.
			result = CompletionResult{
				AlreadyCompleted: true,
				SubstageID:       substageID,
				CoinsAwarded:     0,
				NewBalance:       user.CoinBalance,
			}
			return nil
		}

		newBalance, err := s.Coins.AddCoins(tx, externalUserID, coins, models.CoinReasonSubstage, substageID)
		if err != nil {
			return err
		}

		result = CompletionResult{
			SubstageID:   substageID,
			CoinsAwarded: coins,
			NewBalance:   newBalance,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !result.AlreadyCompleted {
		log.Printf("⚖️ Substage completed: %s → %s (%s) +%d coins",
			externalUserID, substageID, completion.SubstageName, result.CoinsAwarded)
	}

	return &result, nil
}

// CompletionsForUser lists the user's completion rows, oldest first.
func (s *CompletionService) CompletionsForUser(externalUserID string) ([]models.SubstageCompletion, error) {
	var rows []models.SubstageCompletion
	if err := s.DB.Where("external_user_id = ?", externalUserID).
		Order("completed_at ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch completions: %w", err)
	}
	return rows, nil
}
