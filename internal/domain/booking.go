package domain

import (
	"time"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending    BookingStatus = "pending"
	StatusConfirmed  BookingStatus = "confirmed"
	StatusProcessing BookingStatus = "processing"
	StatusCompleted  BookingStatus = "completed"
	StatusCancelled  BookingStatus = "cancelled"
)

// transitions allowed moves of the status state machine
var transitions = map[BookingStatus][]BookingStatus{
	StatusPending:    {StatusConfirmed, StatusCancelled},
	StatusConfirmed:  {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusCompleted, StatusCancelled},
}

// IsValid reports whether s is a known status
func (s BookingStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusProcessing, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// IsTerminal returns true for completed and cancelled
func (s BookingStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// IsValidInitial reports whether a booking may be created in status s
func (s BookingStatus) IsValidInitial() bool {
	return s == StatusPending || s == StatusConfirmed || s == StatusProcessing
}

// CanTransitionTo reports whether the state machine allows s -> next
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// BookingSource where the booking came from
type BookingSource string

const (
	SourceOnline  BookingSource = "online"
	SourceOffline BookingSource = "offline"
)

func (s BookingSource) IsValid() bool {
	return s == SourceOnline || s == SourceOffline
}

// Booking is a committed reservation of one room and one staff member
type Booking struct {
	ID           int64
	CustomerName string
	Phone        string
	BranchID     int64
	ServiceID    int64
	StaffID      int64
	RoomID       int64
	StartTime    time.Time
	EndTime      time.Time // StartTime + service duration at creation
	Status       BookingStatus
	Source       BookingSource

	// Snapshot of the service at creation time
	ServiceName   string
	BufferMinutes int

	Notes              *string
	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the booking still holds its room and staff
func (b *Booking) IsActive() bool {
	return b.Status != StatusCancelled
}

// OccupiedUntil is the end of the occupied window, including the buffer
func (b *Booking) OccupiedUntil() time.Time {
	return b.EndTime.Add(time.Duration(b.BufferMinutes) * time.Minute)
}

// Occupied returns the window during which the room and staff are unavailable
func (b *Booking) Occupied() Interval {
	return Interval{Start: b.StartTime, End: b.OccupiedUntil()}
}

// BookingsFilter filter for listing bookings. Nil fields are not applied.
type BookingsFilter struct {
	Phone    *string
	BranchID *int64
	From     *time.Time // start_time >= From
	To       *time.Time // start_time < To
	Status   *BookingStatus
	Limit    int
}
