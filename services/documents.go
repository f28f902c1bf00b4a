package services

import (
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/VerdictPath/VerdictPath-sub007/models"
	"github.com/VerdictPath/VerdictPath-sub007/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"
)

type DocumentService struct {
	DB      *gorm.DB
	Rewards *RewardTable
}

func NewDocumentService(db *gorm.DB, rewards *RewardTable) *DocumentService {
	return &DocumentService{DB: db, Rewards: rewards}
}

var titleCaser = cases.Title(language.AmericanEnglish)

// displayTitle derives "Police Report March" from "police_report-march.pdf".
func displayTitle(filename string) string {
	base := strings.TrimSuffix(filename, filepath.Ext(filename))
	base = strings.NewReplacer("_", " ", "-", " ", ".", " ").Replace(base)
	base = strings.Join(strings.Fields(base), " ")
	if base == "" {
		return "Untitled Document"
	}
	return titleCaser.String(base)
}

// UploadDocument stores a case document (accident photos, medical records…)
// in R2 and records the pointer, tagged with the litigation stage it belongs to.
func (s *DocumentService) UploadDocument(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "file is required"})
	}

	stageID := c.FormValue("stage_id")
	if stageID != "" && s.Rewards.StageByID(stageID) == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unknown stage id"})
	}

	var substageID *string
	if v := c.FormValue("substage_id"); v != "" {
		if s.Rewards.SubstageByID(v) == nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unknown substage id"})
		}
		substageID = &v
	}

	docID := uuid.NewString()
	key := fmt.Sprintf("documents/%s/%s-%s", userID, docID[:8], slug.Make(fileHeader.Filename))

	fileURL, err := utils.UploadFileToR2(fileHeader, key)
	if err != nil {
		log.Printf("R2 upload failed for user %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to store document"})
	}

	title := c.FormValue("title")
	if title == "" {
		title = displayTitle(fileHeader.Filename)
	}

	doc := models.CaseDocument{
		ID:             docID,
		ExternalUserID: userID,
		StageID:        stageID,
		SubstageID:     substageID,
		Title:          title,
		FileURL:        fileURL,
		ObjectKey:      key,
		ContentType:    fileHeader.Header.Get("Content-Type"),
		SizeBytes:      fileHeader.Size,
	}

	if err := s.DB.Create(&doc).Error; err != nil {
		log.Printf("DB Error creating case document: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save document"})
	}

	return c.Status(fiber.StatusCreated).JSON(doc)
}

// GetUserDocuments lists the authenticated user's documents, optionally
// filtered by stage.
func (s *DocumentService) GetUserDocuments(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	query := s.DB.Where("external_user_id = ?", userID)
	if stageID := c.Query("stage_id"); stageID != "" {
		query = query.Where("stage_id = ?", stageID)
	}

	var docs []models.CaseDocument
	if err := query.Order("created_at DESC").Find(&docs).Error; err != nil {
		log.Printf("DB Error fetching case documents: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch documents"})
	}

	return c.JSON(docs)
}

// DeleteDocument soft-deletes a document owned by the user.
func (s *DocumentService) DeleteDocument(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	docID := c.Params("id")

	if _, err := uuid.Parse(docID); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid document ID"})
	}

	res := s.DB.Where("id = ? AND external_user_id = ?", docID, userID).Delete(&models.CaseDocument{})
	if res.Error != nil {
		log.Printf("DB Error deleting case document: %v", res.Error)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete document"})
	}
	if res.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Document not found or not owned by user"})
	}

	return c.JSON(fiber.Map{"message": "Document deleted successfully"})
}
