package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SpaBookingService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")

	// ErrInvalidDate возвращается при дате не в формате YYYY-MM-DD
	ErrInvalidDate = errors.New("invalid date")
)

// Request модели

// CancelBookingRequest запрос на отмену бронирования
type CancelBookingRequest struct {
	Reason *string `json:"reason,omitempty"`
}

// UpdateStatusRequest запрос на обновление статуса бронирования
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// ListBookingsRequest запрос на получение списка бронирований.
// Все поля опциональны и объединяются через AND.
type ListBookingsRequest struct {
	Phone    *string `json:"phone,omitempty"`
	BranchID *int64  `json:"branchId,omitempty"`
	Date     *string `json:"date,omitempty"` // YYYY-MM-DD, брони с началом в этот день
	Status   *string `json:"status,omitempty"`
	Limit    int     `json:"limit,omitempty"`
}

// ToDomainFilter конвертирует request в domain фильтр. Дата трактуется в часовом поясе loc.
func (r *ListBookingsRequest) ToDomainFilter(loc *time.Location) (domain.BookingsFilter, error) {
	filter := domain.BookingsFilter{
		Phone:    r.Phone,
		BranchID: r.BranchID,
		Limit:    r.Limit,
	}

	if r.Date != nil {
		day, err := time.ParseInLocation(domain.DateFormat, *r.Date, loc)
		if err != nil {
			return filter, fmt.Errorf("%w: %q", ErrInvalidDate, *r.Date)
		}
		next := day.AddDate(0, 0, 1)
		filter.From = &day
		filter.To = &next
	}

	if r.Status != nil {
		status, err := ToDomainBookingStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID            int64  `json:"id"`
	CustomerName  string `json:"customerName"`
	Phone         string `json:"phone"`
	BranchID      int64  `json:"branchId"`
	ServiceID     int64  `json:"serviceId"`
	StaffID       int64  `json:"staffId"`
	RoomID        int64  `json:"roomId"`
	Date          string `json:"date"`      // "2025-06-10"
	StartTime     string `json:"startTime"` // "10:00"
	EndTime       string `json:"endTime"`   // "11:00"
	BufferMinutes int    `json:"bufferMinutes"`
	Status        string `json:"status"`
	Source        string `json:"source"`

	// Денормализованные данные
	ServiceName string  `json:"serviceName"`
	Notes       *string `json:"notes,omitempty"`

	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"` // ISO 8601 format

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO, время показывается в часовом поясе loc
func FromDomainBooking(b *domain.Booking, loc *time.Location) *BookingResponse {
	if b == nil {
		return nil
	}
	if loc == nil {
		loc = time.UTC
	}

	start := b.StartTime.In(loc)
	resp := &BookingResponse{
		ID:                 b.ID,
		CustomerName:       b.CustomerName,
		Phone:              b.Phone,
		BranchID:           b.BranchID,
		ServiceID:          b.ServiceID,
		StaffID:            b.StaffID,
		RoomID:             b.RoomID,
		Date:               start.Format(domain.DateFormat),
		StartTime:          start.Format(domain.TimeFormat),
		EndTime:            b.EndTime.In(loc).Format(domain.TimeFormat),
		BufferMinutes:      b.BufferMinutes,
		Status:             string(b.Status),
		Source:             string(b.Source),
		ServiceName:        b.ServiceName,
		Notes:              b.Notes,
		CancellationReason: b.CancellationReason,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}

	// Конвертируем CancelledAt в строку ISO 8601
	if b.CancelledAt != nil {
		cancelledStr := b.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledStr
	}

	return resp
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking, loc *time.Location) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}

	for _, booking := range bookings {
		if bookingResp := FromDomainBooking(booking, loc); bookingResp != nil {
			resp.Bookings = append(resp.Bookings, *bookingResp)
		}
	}

	return resp
}

// ToDomainBookingStatus конвертирует строку в domain.BookingStatus с валидацией
func ToDomainBookingStatus(status string) (domain.BookingStatus, error) {
	s := domain.BookingStatus(status)
	if !s.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	return s, nil
}
