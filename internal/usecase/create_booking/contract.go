package create_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SpaBookingService/internal/domain"
	"github.com/m04kA/SMC-SpaBookingService/internal/events"
	"github.com/m04kA/SMC-SpaBookingService/internal/service/availability"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
}

// ServiceRepository интерфейс чтения услуг
type ServiceRepository interface {
	GetServiceByID(ctx context.Context, id int64) (*domain.Service, error)
	GetServiceByName(ctx context.Context, name string) (*domain.Service, error)
}

// BranchRepository интерфейс чтения филиалов
type BranchRepository interface {
	GetBranchByID(ctx context.Context, id int64) (*domain.Branch, error)
}

// SnapshotLoader читает состояние комнат, персонала и броней филиала на дату
type SnapshotLoader interface {
	Load(ctx context.Context, service *domain.Service, branchID int64, date time.Time) (*availability.Snapshot, error)
	Rules() availability.Rules
}

// Gate сериализует проверку и запись брони
type Gate interface {
	Acquire(ctx context.Context) (release func(), err error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// EventDispatcher асинхронная отправка событий
type EventDispatcher interface {
	Dispatch(event events.Event)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
