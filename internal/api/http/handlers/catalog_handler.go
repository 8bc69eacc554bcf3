package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/consultancy-service/internal/api/dto"
	"github.com/spec-kit/consultancy-service/internal/auth"
	"github.com/spec-kit/consultancy-service/internal/domain"
	"github.com/spec-kit/consultancy-service/internal/service"
)

// CatalogHandler serves the public catalog surface.
type CatalogHandler struct {
	catalog *service.CatalogService
}

// NewCatalogHandler constructs handler.
func NewCatalogHandler(catalogService *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalogService}
}

// ListCategories GET /catalog/categories.
func (h *CatalogHandler) ListCategories(c *fiber.Ctx) error {
	categories, err := h.catalog.ListCategories(c.Context())
	if err != nil {
		return err
	}
	items := make([]dto.CategoryResponse, 0, len(categories))
	for i := range categories {
		items = append(items, categoryResponse(&categories[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// ListServices GET /catalog/services.
func (h *CatalogHandler) ListServices(c *fiber.Ctx) error {
	services, err := h.catalog.ListPublicServices(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": serviceResponses(services)})
}

// ListFeaturedServices GET /catalog/services/featured.
func (h *CatalogHandler) ListFeaturedServices(c *fiber.Ctx) error {
	services, err := h.catalog.ListFeaturedServices(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": serviceResponses(services)})
}

// GetService GET /catalog/services/:id. Works with or without a principal;
// private services resolve only for staff callers.
func (h *CatalogHandler) GetService(c *fiber.Ctx) error {
	var actor *domain.User
	if principal, ok := auth.PrincipalFromContext(c); ok && principal.User != nil {
		actor = principal.User
	}
	svc, err := h.catalog.GetService(c.Context(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": serviceResponse(svc)})
}

// ListWindows GET /catalog/services/:id/windows.
func (h *CatalogHandler) ListWindows(c *fiber.Ctx) error {
	windows, err := h.catalog.ListWindows(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	items := make([]dto.WindowResponse, 0, len(windows))
	for i := range windows {
		items = append(items, windowResponse(&windows[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

func serviceResponses(services []domain.Service) []dto.ServiceResponse {
	items := make([]dto.ServiceResponse, 0, len(services))
	for i := range services {
		items = append(items, serviceResponse(&services[i]))
	}
	return items
}
