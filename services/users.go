package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/VerdictPath/VerdictPath-sub007/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserService struct {
	DB *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{DB: db}
}

// EnsureUser makes sure a CaseUser row exists for the external id (idempotent).
// The sync worker normally creates these; this covers brand-new signups that
// hit a reward endpoint before the next sync tick.
func (s *UserService) EnsureUser(externalUserID, username string) (*models.CaseUser, error) {
	var user models.CaseUser
	err := s.DB.Where("external_user_id = ?", externalUserID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		user = models.CaseUser{
			ID:             uuid.NewString(),
			ExternalUserID: externalUserID,
			Username:       username,
			CoinBalance:    0,
			LoginStreak:    0,
		}
		if err := s.DB.Create(&user).Error; err != nil {
			return nil, fmt.Errorf("failed to create case user: %w", err)
		}
		return &user, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch case user: %w", err)
	}
	return &user, nil
}

// GetByExternalID fetches the local mirror row.
func (s *UserService) GetByExternalID(externalUserID string) (*models.CaseUser, error) {
	var user models.CaseUser
	if err := s.DB.Where("external_user_id = ?", externalUserID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to fetch case user: %w", err)
	}
	return &user, nil
}

// SearchUsers searches the local case_users table (firm portal autocomplete).
func (s *UserService) SearchUsers(c *fiber.Ctx) error {
	query := c.Query("q", "")
	limit := c.QueryInt("limit", 50)
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	db := s.DB.Model(&models.CaseUser{}).Limit(limit)
	if query != "" {
		searchTerm := "%" + strings.ToLower(strings.TrimSpace(query)) + "%"
		db = db.Where("LOWER(username) LIKE ? OR LOWER(email) LIKE ?", searchTerm, searchTerm)
	}

	var users []models.CaseUser
	if err := db.Find(&users).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "search failed"})
	}

	// Minimal summary — never expose balances through search.
	type UserSummary struct {
		ID             string `json:"id"`
		ExternalUserID string `json:"external_user_id"`
		Username       string `json:"username"`
		Email          string `json:"email"`
	}
	res := make([]UserSummary, len(users))
	for i, u := range users {
		res[i] = UserSummary{ID: u.ID, ExternalUserID: u.ExternalUserID, Username: u.Username, Email: u.Email}
	}
	return c.JSON(res)
}
