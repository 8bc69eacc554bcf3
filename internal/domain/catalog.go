package domain

import "time"

// ServiceCategory groups services for listings.
type ServiceCategory struct {
	ID          string
	Name        string
	Description string
	SortOrder   int
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// PricingType determines how a service's effective price resolves.
type PricingType string

const (
	PricingFixed    PricingType = "FIXED"
	PricingAdminSet PricingType = "ADMIN_SET"
	PricingFree     PricingType = "FREE"
)

// Visibility restricts who can see and book a service.
type Visibility string

const (
	VisibilityPublic  Visibility = "PUBLIC"
	VisibilityPrivate Visibility = "PRIVATE"
)

// Service is a bookable offering. Bookings reference services but never own
// them.
type Service struct {
	ID                   string
	CategoryID           string
	Name                 string
	Description          string
	ShortDescription     string
	PricingType          PricingType
	Price                *float64
	AdminPrice           *float64
	Visibility           Visibility
	RequiresVerification bool
	IsActive             bool
	IsFeatured           bool
	SortOrder            int
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// EffectivePrice resolves the price a booking would be quoted.
func (s *Service) EffectivePrice() float64 {
	switch s.PricingType {
	case PricingFree:
		return 0
	case PricingAdminSet:
		if s.AdminPrice != nil {
			return *s.AdminPrice
		}
		return 0
	default:
		if s.Price != nil {
			return *s.Price
		}
		return 0
	}
}

// VisibleTo reports whether an actor with the given role may see the
// service. Private services are staff-only.
func (s *Service) VisibleTo(role Role) bool {
	if s.Visibility == VisibilityPublic {
		return true
	}
	return role.IsStaff()
}
