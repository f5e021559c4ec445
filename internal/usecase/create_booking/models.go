package create_booking

import (
	"time"

	"github.com/m04kA/SMC-SpaBookingService/internal/domain"
	"github.com/m04kA/SMC-SpaBookingService/pkg/types"
)

// Request модель запроса на создание бронирования
type Request struct {
	CustomerName string
	Phone        string
	ServiceID    *int64 // приоритетнее ServiceName
	ServiceName  string
	BranchID     int64
	Date         string           // YYYY-MM-DD
	Time         types.TimeString // время начала, HH:MM

	// Ручное назначение (админка). nil - выбрать первую свободную по ID
	RoomID  *int64
	StaffID *int64

	Status *domain.BookingStatus // pending, если не указан
	Source *domain.BookingSource // online, если не указан
	Notes  *string
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID            int64
	CustomerName  string
	Phone         string
	BranchID      int64
	ServiceID     int64
	ServiceName   string
	RoomID        int64
	RoomName      string
	StaffID       int64
	StaffName     string
	StartTime     time.Time
	EndTime       time.Time
	BufferMinutes int
	Status        domain.BookingStatus
	Source        domain.BookingSource
	Notes         *string

	CreatedAt time.Time
	UpdatedAt time.Time
}
