package domain

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-SpaBookingService/pkg/types"
)

// Service is a treatment offered by the spa. Read-only for the booking engine.
type Service struct {
	ID               int64
	Name             string
	DurationMinutes  int
	BufferMinutes    *int   // NULL means the configured default
	RequiredRoomType string // empty means any room type
	Active           bool
}

// Buffer returns the cleanup time after the service
func (s *Service) Buffer(defaultMinutes int) int {
	if s.BufferMinutes == nil {
		return defaultMinutes
	}
	return *s.BufferMinutes
}

// Branch is a spa location with its daily operating hours
type Branch struct {
	ID        int64
	Name      string
	OpenTime  types.TimeString
	CloseTime types.TimeString
	Active    bool
}

// Hours returns the operating hours on the given date.
// Open and close are wall-clock times in loc, so DST days keep the posted hours.
func (b *Branch) Hours(date time.Time, loc *time.Location) (Interval, error) {
	open, err := b.OpenTime.On(date, loc)
	if err != nil {
		return Interval{}, fmt.Errorf("branch %d open time: %w", b.ID, err)
	}
	closing, err := b.CloseTime.On(date, loc)
	if err != nil {
		return Interval{}, fmt.Errorf("branch %d close time: %w", b.ID, err)
	}
	if !b.OpenTime.IsBefore(b.CloseTime) {
		return Interval{}, fmt.Errorf("branch %d closes at %s before opening at %s", b.ID, b.CloseTime, b.OpenTime)
	}
	return Interval{Start: open, End: closing}, nil
}

// Room is a resource pool that can host up to Capacity overlapping bookings
type Room struct {
	ID       int64
	Name     string
	BranchID int64
	Type     string
	Capacity int
	Active   bool
}

// Accepts reports whether the room can host a service requiring roomType
func (r *Room) Accepts(roomType string) bool {
	return roomType == "" || r.Type == roomType
}

// Shift is a staff member's working hours for one day of week.
// DayOfWeek follows time.Weekday: 0 = Sunday.
type Shift struct {
	DayOfWeek int
	StartTime types.TimeString
	EndTime   types.TimeString
	IsOff     bool
}

// Staff is a therapist assigned to a branch
type Staff struct {
	ID       int64
	Name     string
	BranchID int64
	Active   bool
	Shifts   []Shift // at most one per DayOfWeek
}

// ShiftFor returns the shift for the given weekday
func (s *Staff) ShiftFor(day time.Weekday) (Shift, bool) {
	for _, sh := range s.Shifts {
		if sh.DayOfWeek == int(day) {
			return sh, true
		}
	}
	return Shift{}, false
}

// Covers reports whether the staff member works during the whole window.
// The window must lie within a single day in its own location.
func (s *Staff) Covers(window Interval) bool {
	if !s.Active {
		return false
	}
	shift, ok := s.ShiftFor(window.Start.Weekday())
	if !ok || shift.IsOff || !shift.StartTime.IsBefore(shift.EndTime) {
		return false
	}
	loc := window.Start.Location()
	start, err := shift.StartTime.On(window.Start, loc)
	if err != nil {
		return false
	}
	end, err := shift.EndTime.On(window.Start, loc)
	if err != nil {
		return false
	}
	return Interval{Start: start, End: end}.Contains(window)
}
