package dto

import (
	"time"

	"github.com/spec-kit/consultancy-service/internal/domain"
)

// CreateBookingRequest payload.
type CreateBookingRequest struct {
	ServiceID     string    `json:"service_id" validate:"required,uuid"`
	RequestedTime time.Time `json:"requested_time" validate:"required"`
	Message       string    `json:"message" validate:"max=2000"`
}

// TransitionBookingRequest payload for staff status moves.
type TransitionBookingRequest struct {
	Status  string `json:"status" validate:"required,oneof=CONFIRMED REJECTED CANCELLED IN_PROGRESS COMPLETED"`
	Comment string `json:"comment" validate:"max=2000"`
}

// AssignBookingRequest payload.
type AssignBookingRequest struct {
	StaffID string `json:"staff_id" validate:"required,uuid"`
}

// CreateBookingUpdateRequest payload for thread entries.
type CreateBookingUpdateRequest struct {
	Body       string `json:"body" validate:"required,max=4000"`
	IsInternal bool   `json:"is_internal"`
}

// BookingSummary response.
type BookingSummary struct {
	ID              string               `json:"id"`
	ReferenceKey    string               `json:"reference_key"`
	UserID          string               `json:"user_id"`
	ServiceID       string               `json:"service_id"`
	WindowID        string               `json:"window_id"`
	RequestedTime   time.Time            `json:"requested_time"`
	Status          domain.BookingStatus `json:"status"`
	AssignedStaffID *string              `json:"assigned_staff_id,omitempty"`
	QuotedPrice     *float64             `json:"quoted_price,omitempty"`
	CreatedAt       time.Time            `json:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at"`
}

// BookingDetailResponse provides full booking info with the visible thread.
type BookingDetailResponse struct {
	BookingSummary
	Message     string                  `json:"message"`
	ConfirmedAt *time.Time              `json:"confirmed_at,omitempty"`
	CompletedAt *time.Time              `json:"completed_at,omitempty"`
	Updates     []BookingUpdateResponse `json:"updates"`
}

// BookingUpdateResponse represents one thread entry.
type BookingUpdateResponse struct {
	ID         string      `json:"id"`
	AuthorID   string      `json:"author_id"`
	AuthorRole domain.Role `json:"author_role"`
	Body       string      `json:"body"`
	IsInternal bool        `json:"is_internal"`
	CreatedAt  time.Time   `json:"created_at"`
}

// BookingHistoryResponse audit entry.
type BookingHistoryResponse struct {
	ID          string                   `json:"id"`
	ChangeType  domain.BookingChangeType `json:"change_type"`
	ChangedByID *string                  `json:"changed_by_id,omitempty"`
	OldValue    map[string]any           `json:"old_value"`
	NewValue    map[string]any           `json:"new_value"`
	CreatedAt   time.Time                `json:"created_at"`
}
