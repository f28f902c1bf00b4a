package services

import (
	"testing"
	"time"

	"github.com/VerdictPath/VerdictPath-sub007/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newClaimService(t *testing.T) *DailyClaimService {
	t.Helper()
	db := newTestDB(t)
	return NewDailyClaimService(db, NewCoinService(db), time.UTC, DefaultStreakBonus)
}

func pinClock(svc *DailyClaimService, at time.Time) {
	svc.Now = func() time.Time { return at }
}

func setClaimState(t *testing.T, db *gorm.DB, externalUserID string, lastClaim time.Time, streak int) {
	t.Helper()
	require.NoError(t, db.Model(&models.CaseUser{}).
		Where("external_user_id = ?", externalUserID).
		Updates(map[string]interface{}{
			"last_daily_claim_at": lastClaim,
			"login_streak":        streak,
		}).Error)
}

func TestClaimDailyFirstEver(t *testing.T) {
	svc := newClaimService(t)
	seedUser(t, svc.DB, "user-1")
	pinClock(svc, time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC))

	res, err := svc.ClaimDaily("user-1")
	require.NoError(t, err)

	assert.True(t, res.Claimed)
	assert.Equal(t, 1, res.Streak)
	assert.Equal(t, DefaultStreakBonus(1), res.CoinsAwarded)
	assert.Equal(t, res.CoinsAwarded, balanceOf(t, svc.DB, "user-1"))

	var claim models.DailyClaim
	require.NoError(t, svc.DB.Where("external_user_id = ?", "user-1").First(&claim).Error)
	assert.Equal(t, "2026-03-10", claim.ClaimDay)
	assert.Equal(t, 1, claim.StreakAchieved)
}

func TestClaimDailySingleFirePerDay(t *testing.T) {
	svc := newClaimService(t)
	seedUser(t, svc.DB, "user-1")
	pinClock(svc, time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC))

	first, err := svc.ClaimDaily("user-1")
	require.NoError(t, err)
	assert.True(t, first.Claimed)

	// Later the same calendar day
	pinClock(svc, time.Date(2026, 3, 10, 23, 59, 0, 0, time.UTC))
	second, err := svc.ClaimDaily("user-1")
	require.NoError(t, err)

	assert.False(t, second.Claimed)
	assert.Equal(t, 1, second.Streak)
	assert.Equal(t, int64(0), second.CoinsAwarded)
	assert.Equal(t, first.CoinsAwarded, balanceOf(t, svc.DB, "user-1"))
}

func TestClaimDailyStreakContinuesNextDay(t *testing.T) {
	svc := newClaimService(t)
	seedUser(t, svc.DB, "user-1")
	setClaimState(t, svc.DB, "user-1", time.Date(2026, 3, 9, 18, 30, 0, 0, time.UTC), 3)

	pinClock(svc, time.Date(2026, 3, 10, 7, 0, 0, 0, time.UTC))
	res, err := svc.ClaimDaily("user-1")
	require.NoError(t, err)

	assert.True(t, res.Claimed)
	assert.Equal(t, 4, res.Streak)
	assert.Equal(t, DefaultStreakBonus(4), res.CoinsAwarded)
}

func TestClaimDailyShortlyAfterMidnight(t *testing.T) {
	svc := newClaimService(t)
	seedUser(t, svc.DB, "user-1")
	// Claimed at 23:58; calendar-day comparison permits claiming again a few
	// minutes later, across midnight — elapsed time is irrelevant.
	setClaimState(t, svc.DB, "user-1", time.Date(2026, 3, 9, 23, 58, 0, 0, time.UTC), 1)

	pinClock(svc, time.Date(2026, 3, 10, 0, 5, 0, 0, time.UTC))
	res, err := svc.ClaimDaily("user-1")
	require.NoError(t, err)

	assert.True(t, res.Claimed)
	assert.Equal(t, 2, res.Streak)
}

func TestClaimDailyStreakResetsAfterGap(t *testing.T) {
	svc := newClaimService(t)
	seedUser(t, svc.DB, "user-1")
	// Last claim on day D, next attempt on D+3
	setClaimState(t, svc.DB, "user-1", time.Date(2026, 3, 7, 12, 0, 0, 0, time.UTC), 6)

	pinClock(svc, time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC))
	res, err := svc.ClaimDaily("user-1")
	require.NoError(t, err)

	assert.True(t, res.Claimed)
	assert.Equal(t, 1, res.Streak)
	assert.Equal(t, DefaultStreakBonus(1), res.CoinsAwarded)
}

func TestClaimDailyUnknownUser(t *testing.T) {
	svc := newClaimService(t)

	_, err := svc.ClaimDaily("ghost")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestClaimDailyWritesLedgerRow(t *testing.T) {
	svc := newClaimService(t)
	seedUser(t, svc.DB, "user-1")
	pinClock(svc, time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC))

	res, err := svc.ClaimDaily("user-1")
	require.NoError(t, err)

	var ledger models.CoinTransaction
	require.NoError(t, svc.DB.Where("external_user_id = ?", "user-1").First(&ledger).Error)
	assert.Equal(t, models.CoinReasonDailyBonus, ledger.Reason)
	assert.Equal(t, res.CoinsAwarded, ledger.Amount)
	assert.NotEmpty(t, ledger.ReferenceID)
}

func TestDefaultStreakBonus(t *testing.T) {
	assert.Equal(t, int64(25), DefaultStreakBonus(1))
	assert.Equal(t, int64(30), DefaultStreakBonus(2))
	assert.Equal(t, int64(60), DefaultStreakBonus(8))
	assert.Equal(t, int64(60), DefaultStreakBonus(100)) // capped
	assert.Equal(t, int64(25), DefaultStreakBonus(0))   // clamped to 1
}
