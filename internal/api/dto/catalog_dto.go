package dto

import (
	"time"

	"github.com/spec-kit/consultancy-service/internal/domain"
)

// CreateCategoryRequest payload.
type CreateCategoryRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=120"`
	Description string `json:"description" validate:"max=2000"`
	SortOrder   int    `json:"sort_order"`
	IsActive    bool   `json:"is_active"`
}

// ServiceRequest payload for create and update.
type ServiceRequest struct {
	CategoryID           string   `json:"category_id" validate:"required,uuid"`
	Name                 string   `json:"name" validate:"required,min=2,max=160"`
	Description          string   `json:"description" validate:"max=8000"`
	ShortDescription     string   `json:"short_description" validate:"max=300"`
	PricingType          string   `json:"pricing_type" validate:"required,oneof=FIXED ADMIN_SET FREE"`
	Price                *float64 `json:"price" validate:"omitempty,gte=0"`
	AdminPrice           *float64 `json:"admin_price" validate:"omitempty,gte=0"`
	Visibility           string   `json:"visibility" validate:"omitempty,oneof=PUBLIC PRIVATE"`
	RequiresVerification bool     `json:"requires_verification"`
	IsActive             bool     `json:"is_active"`
	IsFeatured           bool     `json:"is_featured"`
	SortOrder            int      `json:"sort_order"`
}

// CreateWindowRequest payload.
type CreateWindowRequest struct {
	StartsAt time.Time `json:"starts_at" validate:"required"`
	EndsAt   time.Time `json:"ends_at" validate:"required"`
	Capacity int       `json:"capacity" validate:"required,gte=1"`
}

// CategoryResponse listing entry.
type CategoryResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	SortOrder   int    `json:"sort_order"`
	IsActive    bool   `json:"is_active"`
}

// ServiceResponse listing entry.
type ServiceResponse struct {
	ID                   string             `json:"id"`
	CategoryID           string             `json:"category_id"`
	Name                 string             `json:"name"`
	Description          string             `json:"description,omitempty"`
	ShortDescription     string             `json:"short_description"`
	PricingType          domain.PricingType `json:"pricing_type"`
	EffectivePrice       float64            `json:"effective_price"`
	Visibility           domain.Visibility  `json:"visibility"`
	RequiresVerification bool               `json:"requires_verification"`
	IsActive             bool               `json:"is_active"`
	IsFeatured           bool               `json:"is_featured"`
}

// WindowResponse availability entry.
type WindowResponse struct {
	ID          string    `json:"id"`
	ServiceID   string    `json:"service_id"`
	StartsAt    time.Time `json:"starts_at"`
	EndsAt      time.Time `json:"ends_at"`
	Capacity    int       `json:"capacity"`
	BookedCount int       `json:"booked_count"`
}
