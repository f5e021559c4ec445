package availability

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SpaBookingService/internal/domain"
)

// RoomRepository активные комнаты филиала
type RoomRepository interface {
	GetActiveRoomsByBranch(ctx context.Context, branchID int64) ([]*domain.Room, error)
}

// StaffRepository активный персонал филиала со сменами
type StaffRepository interface {
	GetActiveStaffByBranch(ctx context.Context, branchID int64) ([]*domain.Staff, error)
}

// BookingRepository неотменённые брони, чьё окно занятости пересекает [from, to)
type BookingRepository interface {
	GetActiveByBranchAndRange(ctx context.Context, branchID int64, from, to time.Time) ([]*domain.Booking, error)
}

// Loader читает снимок ресурсов филиала на дату.
// Все запросы идут через ctx, поэтому внутри транзакции снимок читается в ней же.
type Loader struct {
	rooms    RoomRepository
	staff    StaffRepository
	bookings BookingRepository
	rules    Rules
}

func NewLoader(rooms RoomRepository, staff StaffRepository, bookings BookingRepository, rules Rules) *Loader {
	return &Loader{rooms: rooms, staff: staff, bookings: bookings, rules: rules}
}

// Rules правила, с которыми создан загрузчик
func (l *Loader) Rules() Rules {
	return l.rules
}

// Load читает комнаты, персонал и брони филиала за сутки date
func (l *Loader) Load(ctx context.Context, service *domain.Service, branchID int64, date time.Time) (*Snapshot, error) {
	rooms, err := l.rooms.GetActiveRoomsByBranch(ctx, branchID)
	if err != nil {
		return nil, fmt.Errorf("load rooms: %w", err)
	}

	staff, err := l.staff.GetActiveStaffByBranch(ctx, branchID)
	if err != nil {
		return nil, fmt.Errorf("load staff: %w", err)
	}

	from := startOfDay(date.In(l.rules.location()))
	to := from.AddDate(0, 0, 1)

	bookings, err := l.bookings.GetActiveByBranchAndRange(ctx, branchID, from, to)
	if err != nil {
		return nil, fmt.Errorf("load bookings: %w", err)
	}

	return NewSnapshot(service, rooms, staff, bookings, l.rules.DefaultBufferMinutes), nil
}
