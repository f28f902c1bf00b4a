// handlers/progress_routes.go
package handlers

import (
	"errors"

	"github.com/VerdictPath/VerdictPath-sub007/middleware"
	"github.com/VerdictPath/VerdictPath-sub007/models"
	"github.com/VerdictPath/VerdictPath-sub007/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// SetupProgressRoutes wires the reward core's HTTP surface. The gateway
// token is enforced globally in main; user routes additionally require the
// X-User-ID context.
func SetupProgressRoutes(
	app *fiber.App,
	completions *services.CompletionService,
	progress *services.ProgressService,
	dailyClaims *services.DailyClaimService,
	coins *services.CoinService,
	users *services.UserService,
	rewards *services.RewardTable,
	authClient *services.AuthServiceClient,
) {
	// 🔓 Gateway-only route — the canonical taxonomy for rendering the
	// checklist. Coin values shown here are display hints; awards are always
	// recomputed server-side.
	app.Get("/rewards/table", func(c *fiber.Ctx) error {
		stages := rewards.Stages()
		out := make([]fiber.Map, 0, len(stages))
		for _, st := range stages {
			subs := rewards.SubstagesForStage(st.ID)
			subList := make([]fiber.Map, 0, len(subs))
			for _, s := range subs {
				subList = append(subList, fiber.Map{
					"id":    s.ID,
					"name":  s.Name,
					"type":  s.Type,
					"coins": s.Coins,
				})
			}
			out = append(out, fiber.Map{
				"id":        st.ID,
				"name":      st.Name,
				"order":     st.Order,
				"coins":     st.Coins,
				"substages": subList,
			})
		}
		return c.JSON(fiber.Map{"stages": out, "total_substages": rewards.NumSubstages()})
	})

	// 🔐 Secured routes — require user context from the gateway
	secured := app.Group("/", middleware.UserContextMiddleware())

	secured.Post("/user/substages/:substageID/complete", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		substageID := c.Params("substageID")
		if substageID == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "substage id is required"})
		}

		result, err := completions.CompleteSubstage(userID, substageID)
		if err != nil {
			return respondServiceError(c, err, "failed to complete substage")
		}
		return c.JSON(result)
	})

	secured.Get("/user/progress", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		p, err := progress.GetProgress(userID)
		if err != nil {
			return respondServiceError(c, err, "failed to get progress")
		}
		return c.JSON(p)
	})

	secured.Post("/user/daily-claim", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		result, err := dailyClaims.ClaimDaily(userID)
		if err != nil {
			return respondServiceError(c, err, "failed to process daily claim")
		}
		return c.JSON(result)
	})

	secured.Get("/user/coins", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		balance, err := coins.GetBalance(userID)
		if err != nil {
			return respondServiceError(c, err, "failed to get balance")
		}
		return c.JSON(fiber.Map{"coin_balance": balance})
	})

	secured.Get("/user/coins/history", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		limit := c.QueryInt("limit", 50)

		var reason *models.CoinReason
		if r := c.Query("reason"); r != "" {
			cr := models.CoinReason(r)
			reason = &cr
		}

		history, err := coins.GetHistory(userID, limit, reason)
		if err != nil {
			return respondServiceError(c, err, "failed to get coin history")
		}
		return c.JSON(fiber.Map{"transactions": history})
	})

	// SSE stream authenticates from query params (EventSource can't set headers)
	app.Get("/user/coins/stream", middleware.SSEAuthMiddleware(authClient), coins.StreamCoinActivitySSE)

	// Admin endpoints
	adminGroup := app.Group("/s/admin", middleware.UserContextMiddleware(), middleware.RequireRole("admin"))

	adminGroup.Post("/coins/grant", func(c *fiber.Ctx) error {
		type Req struct {
			UserID string `json:"user_id" validate:"required,uuid"`
			Amount int64  `json:"amount" validate:"required,min=1"`
			Reason string `json:"reason" validate:"max=255"`
		}
		var req Req
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON",
				"cause": err.Error(),
			})
		}
		if req.Amount < 1 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "amount must be positive"})
		}

		var newBalance int64
		err := coins.DB.Transaction(func(tx *gorm.DB) error {
			var err error
			newBalance, err = coins.AddCoins(tx, req.UserID, req.Amount, models.CoinReasonAdminAdjustment, req.Reason)
			return err
		})
		if err != nil {
			return respondServiceError(c, err, "coin grant failed")
		}

		return c.JSON(fiber.Map{
			"message":     "Coins granted successfully",
			"user_id":     req.UserID,
			"amount":      req.Amount,
			"new_balance": newBalance,
		})
	})

	adminGroup.Get("/users/search", users.SearchUsers)
}

// respondServiceError maps service errors onto HTTP statuses: missing users
// are 404, everything else is a transient storage failure.
func respondServiceError(c *fiber.Ctx, err error, msg string) error {
	if errors.Is(err, services.ErrUserNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "user not found"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": msg,
		"cause": err.Error(),
	})
}
