package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/consultancy-service/internal/auth"
	"github.com/spec-kit/consultancy-service/internal/domain"
	"github.com/spec-kit/consultancy-service/internal/repository"
	apperrors "github.com/spec-kit/consultancy-service/pkg/util/errorutil"
)

const (
	cacheKeyPublicServices   = "catalog:services:public"
	cacheKeyFeaturedServices = "catalog:services:featured"
)

// CatalogCache caches public catalog listings. Misses and backend failures
// both fall through to the database.
type CatalogCache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
	Invalidate(ctx context.Context, keys ...string)
}

// CatalogService manages categories, services and availability windows.
type CatalogService struct {
	catalog  repository.CatalogRepository
	windows  repository.WindowRepository
	cache    CatalogCache
	cacheTTL time.Duration
}

// NewCatalogService constructs the service. cache may be nil.
func NewCatalogService(catalog repository.CatalogRepository, windows repository.WindowRepository, cache CatalogCache, cacheTTL time.Duration) *CatalogService {
	return &CatalogService{catalog: catalog, windows: windows, cache: cache, cacheTTL: cacheTTL}
}

// CategoryInput describes admin category writes.
type CategoryInput struct {
	Name        string
	Description string
	SortOrder   int
	IsActive    bool
}

// ServiceInput describes admin service writes.
type ServiceInput struct {
	CategoryID           string
	Name                 string
	Description          string
	ShortDescription     string
	PricingType          domain.PricingType
	Price                *float64
	AdminPrice           *float64
	Visibility           domain.Visibility
	RequiresVerification bool
	IsActive             bool
	IsFeatured           bool
	SortOrder            int
}

// WindowInput describes an availability window write.
type WindowInput struct {
	StartsAt time.Time
	EndsAt   time.Time
	Capacity int
}

// CreateCategory adds a category (admin only).
func (s *CatalogService) CreateCategory(ctx context.Context, actor *domain.User, input CategoryInput) (*domain.ServiceCategory, error) {
	if !auth.Can(actor, auth.ActionManageCatalog) {
		return nil, apperrors.NewForbidden("catalog management requires an admin role")
	}
	category := &domain.ServiceCategory{
		Name:        input.Name,
		Description: input.Description,
		SortOrder:   input.SortOrder,
		IsActive:    input.IsActive,
	}
	if err := s.catalog.CreateCategory(ctx, category); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.invalidateListings(ctx)
	return category, nil
}

// CreateService adds a bookable service (admin only).
func (s *CatalogService) CreateService(ctx context.Context, actor *domain.User, input ServiceInput) (*domain.Service, error) {
	if !auth.Can(actor, auth.ActionManageCatalog) {
		return nil, apperrors.NewForbidden("catalog management requires an admin role")
	}
	if _, err := s.catalog.GetCategoryByID(ctx, input.CategoryID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("category", map[string]any{"category_id": input.CategoryID})
		}
		return nil, apperrors.MapError(err)
	}

	svc := &domain.Service{
		CategoryID:           input.CategoryID,
		Name:                 input.Name,
		Description:          input.Description,
		ShortDescription:     input.ShortDescription,
		PricingType:          input.PricingType,
		Price:                input.Price,
		AdminPrice:           input.AdminPrice,
		Visibility:           input.Visibility,
		RequiresVerification: input.RequiresVerification,
		IsActive:             input.IsActive,
		IsFeatured:           input.IsFeatured,
		SortOrder:            input.SortOrder,
	}
	if svc.Visibility == "" {
		svc.Visibility = domain.VisibilityPublic
	}
	if svc.PricingType == "" {
		svc.PricingType = domain.PricingFixed
	}
	if err := s.catalog.CreateService(ctx, svc); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.invalidateListings(ctx)
	return svc, nil
}

// UpdateService edits a service (admin only).
func (s *CatalogService) UpdateService(ctx context.Context, actor *domain.User, serviceID string, input ServiceInput) (*domain.Service, error) {
	if !auth.Can(actor, auth.ActionManageCatalog) {
		return nil, apperrors.NewForbidden("catalog management requires an admin role")
	}
	svc, err := s.catalog.GetServiceByID(ctx, serviceID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("service", map[string]any{"service_id": serviceID})
		}
		return nil, apperrors.MapError(err)
	}

	svc.CategoryID = input.CategoryID
	svc.Name = input.Name
	svc.Description = input.Description
	svc.ShortDescription = input.ShortDescription
	svc.PricingType = input.PricingType
	svc.Price = input.Price
	svc.AdminPrice = input.AdminPrice
	svc.Visibility = input.Visibility
	svc.RequiresVerification = input.RequiresVerification
	svc.IsActive = input.IsActive
	svc.IsFeatured = input.IsFeatured
	svc.SortOrder = input.SortOrder

	if err := s.catalog.UpdateService(ctx, svc); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.invalidateListings(ctx)
	return svc, nil
}

// AddWindow creates an availability window. Windows for a service must not
// overlap and must hold at least one slot.
func (s *CatalogService) AddWindow(ctx context.Context, actor *domain.User, serviceID string, input WindowInput) (*domain.AvailabilityWindow, error) {
	if !auth.Can(actor, auth.ActionManageCatalog) {
		return nil, apperrors.NewForbidden("catalog management requires an admin role")
	}
	if !input.EndsAt.After(input.StartsAt) {
		return nil, apperrors.NewValidationError("window must end after it starts", nil)
	}
	if input.Capacity < 1 {
		return nil, apperrors.NewValidationError("window capacity must be at least 1", nil)
	}
	if _, err := s.catalog.GetServiceByID(ctx, serviceID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("service", map[string]any{"service_id": serviceID})
		}
		return nil, apperrors.MapError(err)
	}

	window := &domain.AvailabilityWindow{
		ServiceID: serviceID,
		StartsAt:  input.StartsAt,
		EndsAt:    input.EndsAt,
		Capacity:  input.Capacity,
	}

	existing, err := s.windows.ListByService(ctx, serviceID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	for i := range existing {
		if window.Overlaps(&existing[i]) {
			return nil, apperrors.NewConflict("window overlaps an existing window", map[string]any{
				"window_id": existing[i].ID,
			})
		}
	}

	if err := s.windows.Create(ctx, window); err != nil {
		return nil, apperrors.MapError(err)
	}
	return window, nil
}

// RemoveWindow deletes an empty window (admin only).
func (s *CatalogService) RemoveWindow(ctx context.Context, actor *domain.User, windowID string) error {
	if !auth.Can(actor, auth.ActionManageCatalog) {
		return apperrors.NewForbidden("catalog management requires an admin role")
	}
	if err := s.windows.Delete(ctx, windowID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewConflict("window missing or has bookings", map[string]any{"window_id": windowID})
		}
		return apperrors.MapError(err)
	}
	return nil
}

// ListWindows returns windows for a service.
func (s *CatalogService) ListWindows(ctx context.Context, serviceID string) ([]domain.AvailabilityWindow, error) {
	windows, err := s.windows.ListByService(ctx, serviceID)
	return windows, apperrors.MapError(err)
}

// ListCategories returns active categories for listings.
func (s *CatalogService) ListCategories(ctx context.Context) ([]domain.ServiceCategory, error) {
	categories, err := s.catalog.ListCategories(ctx, true)
	return categories, apperrors.MapError(err)
}

// ListPublicServices returns active public services, cached.
func (s *CatalogService) ListPublicServices(ctx context.Context) ([]domain.Service, error) {
	return s.cachedServices(ctx, cacheKeyPublicServices, false)
}

// ListFeaturedServices returns the featured subset, cached.
func (s *CatalogService) ListFeaturedServices(ctx context.Context) ([]domain.Service, error) {
	return s.cachedServices(ctx, cacheKeyFeaturedServices, true)
}

// GetService returns one service, enforcing role visibility.
func (s *CatalogService) GetService(ctx context.Context, actor *domain.User, serviceID string) (*domain.Service, error) {
	svc, err := s.catalog.GetServiceByID(ctx, serviceID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("service", map[string]any{"service_id": serviceID})
		}
		return nil, apperrors.MapError(err)
	}
	role := domain.RoleStudent
	if actor != nil {
		role = actor.Role
	}
	if !svc.VisibleTo(role) {
		return nil, apperrors.NewNotFound("service", map[string]any{"service_id": serviceID})
	}
	return svc, nil
}

func (s *CatalogService) cachedServices(ctx context.Context, key string, featuredOnly bool) ([]domain.Service, error) {
	if s.cache != nil {
		if raw, ok := s.cache.Get(ctx, key); ok {
			var services []domain.Service
			if err := json.Unmarshal(raw, &services); err == nil {
				return services, nil
			}
		}
	}

	visibility := domain.VisibilityPublic
	services, err := s.catalog.ListServices(ctx, repository.ServiceFilter{
		ActiveOnly:   true,
		FeaturedOnly: featuredOnly,
		Visibility:   &visibility,
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	if s.cache != nil {
		if raw, err := json.Marshal(services); err == nil {
			s.cache.Set(ctx, key, raw, s.cacheTTL)
		}
	}
	return services, nil
}

func (s *CatalogService) invalidateListings(ctx context.Context) {
	if s.cache == nil {
		return
	}
	s.cache.Invalidate(ctx, cacheKeyPublicServices, cacheKeyFeaturedServices)
}
