package domain

import "time"

// BookingChangeType captures what changed in a history entry.
type BookingChangeType string

const (
	ChangeTypeStatus   BookingChangeType = "STATUS_CHANGE"
	ChangeTypeAssignee BookingChangeType = "ASSIGNEE_CHANGE"
	ChangeTypePrice    BookingChangeType = "PRICE_CHANGE"
)

// BookingHistory is an immutable audit trail entry.
type BookingHistory struct {
	ID          string
	BookingID   string
	ChangedByID *string
	ChangeType  BookingChangeType
	OldValue    map[string]any
	NewValue    map[string]any
	CreatedAt   time.Time
}
