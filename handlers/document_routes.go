// handlers/document_routes.go
package handlers

import (
	"github.com/VerdictPath/VerdictPath-sub007/middleware"
	"github.com/VerdictPath/VerdictPath-sub007/services"

	"github.com/gofiber/fiber/v2"
)

func SetupDocumentRoutes(app *fiber.App, documentService *services.DocumentService) {
	// 🔐 All document routes require user context
	secured := app.Group("/", middleware.UserContextMiddleware())

	secured.Post("/user/documents", documentService.UploadDocument)
	secured.Get("/user/documents", documentService.GetUserDocuments)
	secured.Delete("/user/documents/:id", documentService.DeleteDocument)
}
