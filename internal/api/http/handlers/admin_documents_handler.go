package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/consultancy-service/internal/api/dto"
	"github.com/spec-kit/consultancy-service/internal/service"
	apperrors "github.com/spec-kit/consultancy-service/pkg/util/errorutil"
	"github.com/spec-kit/consultancy-service/pkg/util/validation"
)

// AdminDocumentsHandler serves the verification review queue.
type AdminDocumentsHandler struct {
	profiles     *service.ProfileService
	verification *service.VerificationService
}

// NewAdminDocumentsHandler constructs handler.
func NewAdminDocumentsHandler(profileService *service.ProfileService, verificationService *service.VerificationService) *AdminDocumentsHandler {
	return &AdminDocumentsHandler{profiles: profileService, verification: verificationService}
}

// ListPending GET /admin/documents/pending.
func (h *AdminDocumentsHandler) ListPending(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 20)
	docs, err := h.profiles.ListPendingDocuments(c.Context(), principal.User, pageSize, (page-1)*pageSize)
	if err != nil {
		return err
	}
	items := make([]dto.DocumentResponse, 0, len(docs))
	for i := range docs {
		items = append(items, documentResponse(&docs[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Review POST /admin/documents/:id/review.
func (h *AdminDocumentsHandler) Review(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.ReviewDocumentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if errs := validation.ValidateStruct(req); errs != nil {
		return apperrors.NewValidationError("validation failed", toDetails(errs))
	}

	doc, err := h.verification.ReviewDocument(c.Context(), principal.User, c.Params("id"), service.ReviewDecision(req.Decision), req.Notes)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": documentResponse(doc)})
}
