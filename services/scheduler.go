// services/scheduler.go
package services

import (
	"log"
	"time"

	"github.com/VerdictPath/VerdictPath-sub007/models"

	"github.com/go-co-op/gocron/v2"
)

// StartMaintenanceScheduler runs the two background jobs the reward core
// needs: a ledger-vs-balance reconciliation sweep and a periodic report of
// unknown-reward-id lookups (taxonomy drift signal).
func StartMaintenanceScheduler(coins *CoinService, rewards *RewardTable) {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	// Hourly: re-sum each user's ledger and flag drift against the
	// denormalized balance. Drift is logged, never auto-corrected — a
	// mismatch means a writer bypassed CoinService and needs a human.
	_, _ = sched.NewJob(
		gocron.DurationJob(1*time.Hour),
		gocron.NewTask(func() {
			type drift struct {
				ExternalUserID string
				CoinBalance    int64
				LedgerSum      int64
			}
			var rows []drift
			err := coins.DB.Raw(`
				SELECT u.external_user_id, u.coin_balance, COALESCE(SUM(t.amount), 0) AS ledger_sum
				FROM case_users u
				LEFT JOIN coin_transactions t ON t.external_user_id = u.external_user_id
				WHERE u.deleted_at IS NULL
				GROUP BY u.external_user_id, u.coin_balance
				HAVING u.coin_balance <> COALESCE(SUM(t.amount), 0)
			`).Scan(&rows).Error
			if err != nil {
				log.Printf("[Reconcile] DB error: %v", err)
				return
			}
			if len(rows) == 0 {
				log.Println("[Reconcile] ✅ all balances match the ledger")
				return
			}
			for _, r := range rows {
				log.Printf("[Reconcile] ❌ balance drift for %s: balance=%d ledger=%d",
					r.ExternalUserID, r.CoinBalance, r.LedgerSum)
			}
		}),
	)

	// Every 10 minutes: report unknown-id lookup counters.
	_, _ = sched.NewJob(
		gocron.DurationJob(10*time.Minute),
		gocron.NewTask(func() {
			stages, substages := rewards.UnknownLookups()
			if stages == 0 && substages == 0 {
				return
			}
			log.Printf("[Rewards] ⚠️ unknown-id lookups since start: stages=%d substages=%d", stages, substages)
		}),
	)

	// Nightly-ish: prune daily-claim audit rows older than a year.
	_, _ = sched.NewJob(
		gocron.DurationJob(24*time.Hour),
		gocron.NewTask(func() {
			cutoff := time.Now().AddDate(-1, 0, 0)
			res := coins.DB.Where("claimed_at < ?", cutoff).Delete(&models.DailyClaim{})
			if res.Error != nil {
				log.Printf("[Scheduler] Failed to prune daily claims: %v", res.Error)
				return
			}
			if res.RowsAffected > 0 {
				log.Printf("[Scheduler] Pruned %d old daily-claim rows", res.RowsAffected)
			}
		}),
	)
}
