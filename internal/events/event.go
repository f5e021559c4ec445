package events

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SpaBookingService/internal/domain"
)

// Type тип события бронирования
type Type string

const (
	TypeBookingCreated       Type = "booking.created"
	TypeBookingCancelled     Type = "booking.cancelled"
	TypeBookingStatusChanged Type = "booking.status_changed"
)

// Event сообщение для уведомлений и сокетов админки
type Event struct {
	ID         string    `json:"id"`
	Type       Type      `json:"type"`
	OccurredAt time.Time `json:"occurredAt"`
	Booking    Booking   `json:"booking"`
	// PreviousStatus заполнен для booking.status_changed и booking.cancelled
	PreviousStatus string `json:"previousStatus,omitempty"`
}

// Booking снимок брони в событии
type Booking struct {
	ID           int64     `json:"id"`
	CustomerName string    `json:"customerName"`
	Phone        string    `json:"phone"`
	BranchID     int64     `json:"branchId"`
	ServiceID    int64     `json:"serviceId"`
	ServiceName  string    `json:"serviceName"`
	StaffID      int64     `json:"staffId"`
	RoomID       int64     `json:"roomId"`
	StartTime    time.Time `json:"startTime"`
	EndTime      time.Time `json:"endTime"`
	Status       string    `json:"status"`
	Source       string    `json:"source"`
}

// New собирает событие с новым ID
func New(eventType Type, b *domain.Booking, now time.Time) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		OccurredAt: now.UTC(),
		Booking: Booking{
			ID:           b.ID,
			CustomerName: b.CustomerName,
			Phone:        b.Phone,
			BranchID:     b.BranchID,
			ServiceID:    b.ServiceID,
			ServiceName:  b.ServiceName,
			StaffID:      b.StaffID,
			RoomID:       b.RoomID,
			StartTime:    b.StartTime,
			EndTime:      b.EndTime,
			Status:       string(b.Status),
			Source:       string(b.Source),
		},
	}
}

// Publisher доставляет событие во внешнюю систему
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// NopPublisher ничего не отправляет (events.driver = none)
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
