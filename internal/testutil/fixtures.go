package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/m04kA/SMC-SpaBookingService/internal/domain"
	"github.com/m04kA/SMC-SpaBookingService/internal/events"
	"github.com/m04kA/SMC-SpaBookingService/pkg/types"
)

// TxManager выполняет функцию без транзакции
type TxManager struct{}

func (TxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (TxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// Clock фиксированные часы
type Clock struct {
	T time.Time
}

func (c Clock) Now() time.Time { return c.T }

// Events собирает отправленные события
type Events struct {
	mu     sync.Mutex
	events []events.Event
}

func (e *Events) Dispatch(event events.Event) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, event)
}

func (e *Events) All() []events.Event {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]events.Event(nil), e.events...)
}

// FullWeek смены на все дни недели
func FullWeek(start, end types.TimeString) []domain.Shift {
	shifts := make([]domain.Shift, 0, 7)
	for d := 0; d < 7; d++ {
		shifts = append(shifts, domain.Shift{DayOfWeek: d, StartTime: start, EndTime: end})
	}
	return shifts
}

// SpaStore филиал 09:00-18:00 с одной массажной комнатой на одно место,
// одним мастером на смене 09:00-18:00 и услугой 60 минут + 30 минут буфера.
// Услуга: ID=1 "Thai Massage"; филиал ID=1; комната ID=1; мастер ID=1.
func SpaStore() *Store {
	buffer := 30
	return NewStore().
		AddBranch(&domain.Branch{ID: 1, Name: "Central", OpenTime: "09:00", CloseTime: "18:00", Active: true}).
		AddService(&domain.Service{ID: 1, Name: "Thai Massage", DurationMinutes: 60, BufferMinutes: &buffer, RequiredRoomType: "massage", Active: true}).
		AddRoom(&domain.Room{ID: 1, Name: "Lotus", BranchID: 1, Type: "massage", Capacity: 1, Active: true}).
		AddStaff(&domain.Staff{ID: 1, Name: "Linh", BranchID: 1, Active: true, Shifts: FullWeek("09:00", "18:00")})
}
