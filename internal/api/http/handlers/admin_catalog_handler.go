package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/consultancy-service/internal/api/dto"
	"github.com/spec-kit/consultancy-service/internal/domain"
	"github.com/spec-kit/consultancy-service/internal/service"
	apperrors "github.com/spec-kit/consultancy-service/pkg/util/errorutil"
	"github.com/spec-kit/consultancy-service/pkg/util/validation"
)

// AdminCatalogHandler manages catalog writes for admins.
type AdminCatalogHandler struct {
	catalog *service.CatalogService
}

// NewAdminCatalogHandler constructs handler.
func NewAdminCatalogHandler(catalogService *service.CatalogService) *AdminCatalogHandler {
	return &AdminCatalogHandler{catalog: catalogService}
}

// CreateCategory POST /admin/catalog/categories.
func (h *AdminCatalogHandler) CreateCategory(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.CreateCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if errs := validation.ValidateStruct(req); errs != nil {
		return apperrors.NewValidationError("validation failed", toDetails(errs))
	}

	category, err := h.catalog.CreateCategory(c.Context(), principal.User, service.CategoryInput{
		Name:        req.Name,
		Description: req.Description,
		SortOrder:   req.SortOrder,
		IsActive:    req.IsActive,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": categoryResponse(category)})
}

// CreateService POST /admin/catalog/services.
func (h *AdminCatalogHandler) CreateService(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	req, err := parseServiceRequest(c)
	if err != nil {
		return err
	}
	svc, err := h.catalog.CreateService(c.Context(), principal.User, serviceInput(req))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": serviceResponse(svc)})
}

// UpdateService PUT /admin/catalog/services/:id.
func (h *AdminCatalogHandler) UpdateService(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	req, err := parseServiceRequest(c)
	if err != nil {
		return err
	}
	svc, err := h.catalog.UpdateService(c.Context(), principal.User, c.Params("id"), serviceInput(req))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": serviceResponse(svc)})
}

// AddWindow POST /admin/catalog/services/:id/windows.
func (h *AdminCatalogHandler) AddWindow(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.CreateWindowRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if errs := validation.ValidateStruct(req); errs != nil {
		return apperrors.NewValidationError("validation failed", toDetails(errs))
	}

	window, err := h.catalog.AddWindow(c.Context(), principal.User, c.Params("id"), service.WindowInput{
		StartsAt: req.StartsAt,
		EndsAt:   req.EndsAt,
		Capacity: req.Capacity,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": windowResponse(window)})
}

// RemoveWindow DELETE /admin/catalog/windows/:id.
func (h *AdminCatalogHandler) RemoveWindow(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	if err := h.catalog.RemoveWindow(c.Context(), principal.User, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"deleted": true}})
}

func parseServiceRequest(c *fiber.Ctx) (dto.ServiceRequest, error) {
	var req dto.ServiceRequest
	if err := c.BodyParser(&req); err != nil {
		return req, apperrors.NewValidationError("invalid payload", nil)
	}
	if errs := validation.ValidateStruct(req); errs != nil {
		return req, apperrors.NewValidationError("validation failed", toDetails(errs))
	}
	return req, nil
}

func serviceInput(req dto.ServiceRequest) service.ServiceInput {
	return service.ServiceInput{
		CategoryID:           req.CategoryID,
		Name:                 req.Name,
		Description:          req.Description,
		ShortDescription:     req.ShortDescription,
		PricingType:          domain.PricingType(req.PricingType),
		Price:                req.Price,
		AdminPrice:           req.AdminPrice,
		Visibility:           domain.Visibility(req.Visibility),
		RequiresVerification: req.RequiresVerification,
		IsActive:             req.IsActive,
		IsFeatured:           req.IsFeatured,
		SortOrder:            req.SortOrder,
	}
}
