package domain

import "time"

// Interval is a half-open time range [Start, End)
type Interval struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether two intervals share any instant.
// Touching intervals (one ends exactly when the other starts) do not overlap.
func (i Interval) Overlaps(other Interval) bool {
	return i.Start.Before(other.End) && other.Start.Before(i.End)
}

// Contains reports whether other lies fully inside i
func (i Interval) Contains(other Interval) bool {
	return !other.Start.Before(i.Start) && !other.End.After(i.End)
}

// Slot is a candidate booking window for a service
type Slot struct {
	Start time.Time
	End   time.Time // Start + duration
	// OccupiedEnd is End + buffer
	OccupiedEnd time.Time
}

// NewSlot builds the slot windows for a service starting at start
func NewSlot(start time.Time, durationMinutes, bufferMinutes int) Slot {
	end := start.Add(time.Duration(durationMinutes) * time.Minute)
	return Slot{
		Start:       start,
		End:         end,
		OccupiedEnd: end.Add(time.Duration(bufferMinutes) * time.Minute),
	}
}

// Service returns [Start, End), the window checked against staff shifts
func (s Slot) Service() Interval {
	return Interval{Start: s.Start, End: s.End}
}

// Occupied returns [Start, OccupiedEnd), the window checked against rooms and staff bookings
func (s Slot) Occupied() Interval {
	return Interval{Start: s.Start, End: s.OccupiedEnd}
}
