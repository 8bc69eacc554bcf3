package domain

import (
	"testing"
	"time"
)

func TestWindowContains(t *testing.T) {
	start := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)
	window := &AvailabilityWindow{StartsAt: start, EndsAt: end}

	cases := []struct {
		name string
		at   time.Time
		want bool
	}{
		{"before start", start.Add(-time.Minute), false},
		{"at start", start, true},
		{"inside", start.Add(time.Hour), true},
		{"at end", end, false},
		{"after end", end.Add(time.Minute), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := window.Contains(tc.at); got != tc.want {
				t.Errorf("Contains(%v) = %v, want %v", tc.at, got, tc.want)
			}
		})
	}
}

func TestWindowHasCapacity(t *testing.T) {
	var missing *AvailabilityWindow
	if missing.HasCapacity() {
		t.Error("nil window must report no capacity")
	}

	full := &AvailabilityWindow{Capacity: 2, BookedCount: 2}
	if full.HasCapacity() {
		t.Error("full window must report no capacity")
	}

	open := &AvailabilityWindow{Capacity: 2, BookedCount: 1}
	if !open.HasCapacity() {
		t.Error("window with a free slot must report capacity")
	}
}

func TestWindowOverlaps(t *testing.T) {
	base := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	a := &AvailabilityWindow{StartsAt: base, EndsAt: base.Add(2 * time.Hour)}

	cases := []struct {
		name  string
		other *AvailabilityWindow
		want  bool
	}{
		{"identical", &AvailabilityWindow{StartsAt: a.StartsAt, EndsAt: a.EndsAt}, true},
		{"partial", &AvailabilityWindow{StartsAt: base.Add(time.Hour), EndsAt: base.Add(3 * time.Hour)}, true},
		{"contained", &AvailabilityWindow{StartsAt: base.Add(30 * time.Minute), EndsAt: base.Add(time.Hour)}, true},
		{"adjacent after", &AvailabilityWindow{StartsAt: a.EndsAt, EndsAt: a.EndsAt.Add(time.Hour)}, false},
		{"adjacent before", &AvailabilityWindow{StartsAt: base.Add(-time.Hour), EndsAt: base}, false},
		{"disjoint", &AvailabilityWindow{StartsAt: base.Add(5 * time.Hour), EndsAt: base.Add(6 * time.Hour)}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := a.Overlaps(tc.other); got != tc.want {
				t.Errorf("Overlaps = %v, want %v", got, tc.want)
			}
		})
	}
}
