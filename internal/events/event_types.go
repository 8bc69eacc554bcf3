package events

import (
	"time"

	"github.com/spec-kit/consultancy-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventBookingCreated       EventType = "booking_created"
	EventBookingStatusChanged EventType = "booking_status_changed"
	EventBookingAssigned      EventType = "booking_assigned"
	EventBookingUpdateAdded   EventType = "booking_update_added"
	EventDocumentReviewed     EventType = "document_reviewed"
	EventProfileStatusChanged EventType = "profile_status_changed"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	UserID string      `json:"user_id"`
	Role   domain.Role `json:"role"`
}

// Event represents a domain event emitted by services. Delivery is
// best-effort: publication never rolls back the operation that emitted it.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	SubjectID string      `json:"subject_id"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// BookingCreatedPayload payload.
type BookingCreatedPayload struct {
	ServiceID     string    `json:"service_id"`
	WindowID      string    `json:"window_id"`
	RequestedTime time.Time `json:"requested_time"`
	QuotedPrice   *float64  `json:"quoted_price,omitempty"`
}

// BookingStatusChangedPayload payload.
type BookingStatusChangedPayload struct {
	OldStatus domain.BookingStatus `json:"old_status"`
	NewStatus domain.BookingStatus `json:"new_status"`
	Comment   string               `json:"comment,omitempty"`
}

// BookingAssignedPayload payload.
type BookingAssignedPayload struct {
	AssignedStaffID *string `json:"assigned_staff_id,omitempty"`
}

// BookingUpdateAddedPayload payload.
type BookingUpdateAddedPayload struct {
	UpdateID    string `json:"update_id"`
	IsInternal  bool   `json:"is_internal"`
	BodyPreview string `json:"body_preview"`
}

// DocumentReviewedPayload payload.
type DocumentReviewedPayload struct {
	DocumentID   string                `json:"document_id"`
	DocumentType domain.DocumentType   `json:"document_type"`
	Decision     domain.DocumentStatus `json:"decision"`
}

// ProfileStatusChangedPayload payload.
type ProfileStatusChangedPayload struct {
	ProfileID string                    `json:"profile_id"`
	OldStatus domain.VerificationStatus `json:"old_status"`
	NewStatus domain.VerificationStatus `json:"new_status"`
}
