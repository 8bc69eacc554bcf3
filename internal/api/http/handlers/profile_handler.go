package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/consultancy-service/internal/api/dto"
	"github.com/spec-kit/consultancy-service/internal/domain"
	"github.com/spec-kit/consultancy-service/internal/service"
	apperrors "github.com/spec-kit/consultancy-service/pkg/util/errorutil"
	"github.com/spec-kit/consultancy-service/pkg/util/validation"
)

// ProfileHandler manages the caller's profile and document uploads.
type ProfileHandler struct {
	profiles *service.ProfileService
}

// NewProfileHandler constructs handler.
func NewProfileHandler(profileService *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profileService}
}

// GetProfile GET /profile.
func (h *ProfileHandler) GetProfile(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	profile, docs, err := h.profiles.GetProfile(c.Context(), principal.User)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": profileResponse(profile, docs)})
}

// UpdateProfile PUT /profile.
func (h *ProfileHandler) UpdateProfile(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if errs := validation.ValidateStruct(req); errs != nil {
		return apperrors.NewValidationError("validation failed", toDetails(errs))
	}
	profile, err := h.profiles.UpdateProfile(c.Context(), principal.User, req.PhoneNumber, req.City, req.EducationLevel, req.Bio)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": profileResponse(profile, nil)})
}

// UploadDocument POST /profile/documents. Multipart form with a "file" part
// plus document_type and title fields.
func (h *ProfileHandler) UploadDocument(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return apperrors.NewValidationError("file part required", nil)
	}
	docType := domain.DocumentType(c.FormValue("document_type"))
	if docType == "" {
		return apperrors.NewValidationError("document_type required", nil)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return apperrors.NewValidationError("unreadable file", nil)
	}
	defer file.Close()

	doc, err := h.profiles.UploadDocument(c.Context(), principal.User, service.DocumentUploadInput{
		DocumentType: docType,
		Title:        c.FormValue("title"),
		FileName:     fileHeader.Filename,
		MimeType:     fileHeader.Header.Get("Content-Type"),
		SizeBytes:    fileHeader.Size,
		Content:      file,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": documentResponse(doc)})
}

// DownloadDocument GET /profile/documents/:id/content.
func (h *ProfileHandler) DownloadDocument(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	doc, reader, err := h.profiles.OpenDocument(c.Context(), principal.User, c.Params("id"))
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, doc.MimeType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+doc.FileName+`"`)
	return c.SendStream(reader)
}
