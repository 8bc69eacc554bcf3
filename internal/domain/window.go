package domain

import "time"

// AvailabilityWindow is an admin-configured bookable interval for a service.
// Windows for one service never overlap. BookedCount is maintained with a
// compare-and-set update so it never exceeds Capacity.
type AvailabilityWindow struct {
	ID          string
	ServiceID   string
	StartsAt    time.Time
	EndsAt      time.Time
	Capacity    int
	BookedCount int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Contains reports whether t falls inside the window. The interval is
// half-open: [StartsAt, EndsAt).
func (w *AvailabilityWindow) Contains(t time.Time) bool {
	return !t.Before(w.StartsAt) && t.Before(w.EndsAt)
}

// HasCapacity reports whether another booking fits. Fails closed on a nil
// window.
func (w *AvailabilityWindow) HasCapacity() bool {
	if w == nil {
		return false
	}
	return w.BookedCount < w.Capacity
}

// Overlaps reports whether two windows intersect.
func (w *AvailabilityWindow) Overlaps(other *AvailabilityWindow) bool {
	return w.StartsAt.Before(other.EndsAt) && other.StartsAt.Before(w.EndsAt)
}
