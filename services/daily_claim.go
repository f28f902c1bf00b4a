package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/VerdictPath/VerdictPath-sub007/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StreakBonus maps a login streak to a coin payout. Policy, not mechanism —
// injectable so product can retune it without touching the guard.
type StreakBonus func(streak int) int64

// DefaultStreakBonus: 25 coins for day one, +5 per consecutive day, capped at 60.
func DefaultStreakBonus(streak int) int64 {
	if streak < 1 {
		streak = 1
	}
	bonus := int64(25 + 5*(streak-1))
	if bonus > 60 {
		bonus = 60
	}
	return bonus
}

// ClaimResult reports the outcome of a daily-claim attempt. A claim rejected
// because one already landed today is a successful, zero-coin outcome.
type ClaimResult struct {
	Claimed      bool  `json:"claimed"`
	Streak       int   `json:"streak"`
	CoinsAwarded int64 `json:"coins_awarded"`
	NewBalance   int64 `json:"new_balance"`
}

// DailyClaimService gates the once-per-day login bonus and advances the
// streak. "Day" means a calendar day in the service's configured timezone —
// claiming at 23:50 and again at 00:10 counts as two days, by design. The
// timezone is fixed server-side; client clocks never participate.
type DailyClaimService struct {
	DB    *gorm.DB
	Coins *CoinService
	Loc   *time.Location
	Bonus StreakBonus

	// Now is the clock; tests swap it to pin claim days.
	Now func() time.Time
}

func NewDailyClaimService(db *gorm.DB, coins *CoinService, loc *time.Location, bonus StreakBonus) *DailyClaimService {
	if loc == nil {
		loc = time.UTC
	}
	if bonus == nil {
		bonus = DefaultStreakBonus
	}
	return &DailyClaimService{DB: db, Coins: coins, Loc: loc, Bonus: bonus, Now: time.Now}
}

// ClaimDaily attempts the login bonus for the user. The write carries its own
// eligibility predicate (last claim NULL or before today's midnight), so of
// two near-simultaneous requests only one UPDATE matches the row — the loser
// sees zero rows affected and returns a rejected claim, never a double award.
// Everything runs in one transaction with the ledger append and the balance
// mutation.
func (s *DailyClaimService) ClaimDaily(externalUserID string) (*ClaimResult, error) {
	now := s.Now().In(s.Loc)
	todayStart := civilDay(now)

	var result *ClaimResult
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var user models.CaseUser
		if err := tx.Where("external_user_id = ?", externalUserID).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return fmt.Errorf("failed to fetch user: %w", err)
		}

		streak := 1
		if user.LastDailyClaimAt != nil {
			lastDay := civilDay(user.LastDailyClaimAt.In(s.Loc))
			switch {
			case lastDay.Equal(todayStart):
				// Already claimed today — terminal until midnight.
				result = &ClaimResult{
					Claimed:    false,
					Streak:     user.LoginStreak,
					NewBalance: user.CoinBalance,
				}
				return nil
			case lastDay.AddDate(0, 0, 1).Equal(todayStart):
				// Claimed yesterday — streak continues.
				streak = user.LoginStreak + 1
			default:
				// Gap of 2+ days — streak resets.
				streak = 1
			}
		}

		// The predicate re-checks eligibility at write time, so a concurrent
		// claim that committed between our read and this write makes the
		// update match nothing.
		res := tx.Model(&models.CaseUser{}).
			Where("external_user_id = ?", externalUserID).
			Where("last_daily_claim_at IS NULL OR last_daily_claim_at < ?", todayStart).
			Updates(map[string]interface{}{
				"last_daily_claim_at": now,
				"login_streak":        streak,
			})
		if res.Error != nil {
			return fmt.Errorf("failed to update claim state: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			result = &ClaimResult{
				Claimed:    false,
				Streak:     user.LoginStreak,
				NewBalance: user.CoinBalance,
			}
			return nil
		}

		coins := s.Bonus(streak)

		claim := models.DailyClaim{
			ID:             uuid.NewString(),
			ExternalUserID: externalUserID,
			ClaimDay:       todayStart.Format("2006-01-02"),
			StreakAchieved: streak,
			CoinsAwarded:   coins,
		}
		if err := tx.Create(&claim).Error; err != nil {
			return fmt.Errorf("failed to record daily claim: %w", err)
		}

		newBalance, err := s.Coins.AddCoins(tx, externalUserID, coins, models.CoinReasonDailyBonus, claim.ID)
		if err != nil {
			return err
		}

		result = &ClaimResult{
			Claimed:      true,
			Streak:       streak,
			CoinsAwarded: coins,
			NewBalance:   newBalance,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.Claimed {
		log.Printf("📅 Daily claim: %s day=%s streak=%d +%d coins",
			externalUserID, todayStart.Format("2006-01-02"), result.Streak, result.CoinsAwarded)
	}

	return result, nil
}

// civilDay truncates t to midnight of its calendar day, keeping the location.
func civilDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
