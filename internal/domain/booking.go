package domain

import "time"

// BookingStatus enumerates lifecycle states for bookings.
type BookingStatus string

const (
	BookingStatusPending    BookingStatus = "PENDING"
	BookingStatusConfirmed  BookingStatus = "CONFIRMED"
	BookingStatusInProgress BookingStatus = "IN_PROGRESS"
	BookingStatusCompleted  BookingStatus = "COMPLETED"
	BookingStatusCancelled  BookingStatus = "CANCELLED"
	BookingStatusRejected   BookingStatus = "REJECTED"
)

// allowedTransitions is the booking state graph. Statuses absent from the
// map, or mapped to an empty set, are terminal.
var allowedTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusPending:    {BookingStatusConfirmed, BookingStatusRejected, BookingStatusCancelled},
	BookingStatusConfirmed:  {BookingStatusInProgress, BookingStatusCancelled},
	BookingStatusInProgress: {BookingStatusCompleted, BookingStatusCancelled},
	BookingStatusCompleted:  {},
	BookingStatusCancelled:  {},
	BookingStatusRejected:   {},
}

// IsTerminal reports whether no transitions leave the status.
func (s BookingStatus) IsTerminal() bool {
	return len(allowedTransitions[s]) == 0
}

// CanTransitionTo reports whether the edge s -> next is in the state graph.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, candidate := range allowedTransitions[s] {
		if candidate == next {
			return true
		}
	}
	return false
}

// Booking is a request by a user to consume a service within an
// availability window.
type Booking struct {
	ID              string
	ReferenceKey    string
	UserID          string
	ServiceID       string
	WindowID        string
	RequestedTime   time.Time
	Message         string
	Status          BookingStatus
	AssignedStaffID *string
	QuotedPrice     *float64
	AdminNotes      string
	ConfirmedAt     *time.Time
	CompletedAt     *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// BookingUpdate is a thread entry on a booking. Internal updates are hidden
// from the booking owner.
type BookingUpdate struct {
	ID         string
	BookingID  string
	AuthorID   string
	AuthorRole Role
	Body       string
	IsInternal bool
	CreatedAt  time.Time
}
