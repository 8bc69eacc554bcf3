package domain

import "testing"

func TestBookingStatusTransitions(t *testing.T) {
	cases := []struct {
		name string
		from BookingStatus
		to   BookingStatus
		want bool
	}{
		{"pending to confirmed", BookingStatusPending, BookingStatusConfirmed, true},
		{"pending to rejected", BookingStatusPending, BookingStatusRejected, true},
		{"pending to cancelled", BookingStatusPending, BookingStatusCancelled, true},
		{"pending to in_progress", BookingStatusPending, BookingStatusInProgress, false},
		{"pending to completed", BookingStatusPending, BookingStatusCompleted, false},
		{"confirmed to in_progress", BookingStatusConfirmed, BookingStatusInProgress, true},
		{"confirmed to cancelled", BookingStatusConfirmed, BookingStatusCancelled, true},
		{"confirmed to completed", BookingStatusConfirmed, BookingStatusCompleted, false},
		{"confirmed to rejected", BookingStatusConfirmed, BookingStatusRejected, false},
		{"in_progress to completed", BookingStatusInProgress, BookingStatusCompleted, true},
		{"in_progress to cancelled", BookingStatusInProgress, BookingStatusCancelled, true},
		{"in_progress to confirmed", BookingStatusInProgress, BookingStatusConfirmed, false},
		{"completed to anything", BookingStatusCompleted, BookingStatusCancelled, false},
		{"cancelled to anything", BookingStatusCancelled, BookingStatusPending, false},
		{"rejected to anything", BookingStatusRejected, BookingStatusConfirmed, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.from.CanTransitionTo(tc.to); got != tc.want {
				t.Errorf("CanTransitionTo(%s -> %s) = %v, want %v", tc.from, tc.to, got, tc.want)
			}
		})
	}
}

func TestBookingStatusIsTerminal(t *testing.T) {
	terminal := []BookingStatus{BookingStatusCompleted, BookingStatusCancelled, BookingStatusRejected}
	for _, status := range terminal {
		if !status.IsTerminal() {
			t.Errorf("expected %s to be terminal", status)
		}
	}

	open := []BookingStatus{BookingStatusPending, BookingStatusConfirmed, BookingStatusInProgress}
	for _, status := range open {
		if status.IsTerminal() {
			t.Errorf("expected %s to be non-terminal", status)
		}
	}
}
