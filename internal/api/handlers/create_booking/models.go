package create_booking

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-SpaBookingService/internal/domain"
	createBooking "github.com/m04kA/SMC-SpaBookingService/internal/usecase/create_booking"
	"github.com/m04kA/SMC-SpaBookingService/pkg/types"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	CustomerName string  `json:"customerName" validate:"required,max=255"`
	Phone        string  `json:"phone" validate:"required,phone"`
	ServiceID    *int64  `json:"serviceId,omitempty" validate:"omitempty,gt=0"`
	ServiceName  string  `json:"serviceName,omitempty" validate:"required_without=ServiceID,max=255"`
	BranchID     int64   `json:"branchId" validate:"required,gt=0"`
	Date         string  `json:"date" validate:"required,date"` // "2025-06-10"
	Time         string  `json:"time" validate:"required,hhmm"` // "10:00"
	RoomID       *int64  `json:"roomId,omitempty" validate:"omitempty,gt=0"`
	StaffID      *int64  `json:"staffId,omitempty" validate:"omitempty,gt=0"`
	Status       *string `json:"status,omitempty" validate:"omitempty,oneof=pending confirmed processing"`
	Source       *string `json:"source,omitempty" validate:"omitempty,oneof=online offline"`
	Notes        *string `json:"notes,omitempty" validate:"omitempty,max=500"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID            int64   `json:"id"`
	CustomerName  string  `json:"customerName"`
	Phone         string  `json:"phone"`
	BranchID      int64   `json:"branchId"`
	ServiceID     int64   `json:"serviceId"`
	ServiceName   string  `json:"serviceName"`
	RoomID        int64   `json:"roomId"`
	RoomName      string  `json:"roomName"`
	StaffID       int64   `json:"staffId"`
	StaffName     string  `json:"staffName"`
	Date          string  `json:"date"`
	StartTime     string  `json:"startTime"`
	EndTime       string  `json:"endTime"`
	BufferMinutes int     `json:"bufferMinutes"`
	Status        string  `json:"status"`
	Source        string  `json:"source"`
	Notes         *string `json:"notes,omitempty"`
	CreatedAt     string  `json:"createdAt"`
	UpdatedAt     string  `json:"updatedAt"`
}

// CreateBookingResponse HTTP ответ на успешное создание
type CreateBookingResponse struct {
	Success bool             `json:"success"`
	Message string           `json:"message"`
	Booking *BookingResponse `json:"booking"`
	// Detail "<комната> - <мастер>"
	Detail string `json:"detail"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest() (*createBooking.Request, error) {
	startTime, err := types.NewTimeStringFromString(r.Time)
	if err != nil {
		return nil, err
	}

	req := &createBooking.Request{
		CustomerName: r.CustomerName,
		Phone:        r.Phone,
		ServiceID:    r.ServiceID,
		ServiceName:  r.ServiceName,
		BranchID:     r.BranchID,
		Date:         r.Date,
		Time:         startTime,
		RoomID:       r.RoomID,
		StaffID:      r.StaffID,
		Notes:        r.Notes,
	}

	if r.Status != nil {
		status := domain.BookingStatus(*r.Status)
		req.Status = &status
	}
	if r.Source != nil {
		source := domain.BookingSource(*r.Source)
		req.Source = &source
	}

	return req, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *CreateBookingResponse {
	return &CreateBookingResponse{
		Success: true,
		Message: msgBookingCreated,
		Booking: &BookingResponse{
			ID:            resp.ID,
			CustomerName:  resp.CustomerName,
			Phone:         resp.Phone,
			BranchID:      resp.BranchID,
			ServiceID:     resp.ServiceID,
			ServiceName:   resp.ServiceName,
			RoomID:        resp.RoomID,
			RoomName:      resp.RoomName,
			StaffID:       resp.StaffID,
			StaffName:     resp.StaffName,
			Date:          resp.StartTime.Format(domain.DateFormat),
			StartTime:     resp.StartTime.Format(domain.TimeFormat),
			EndTime:       resp.EndTime.Format(domain.TimeFormat),
			BufferMinutes: resp.BufferMinutes,
			Status:        string(resp.Status),
			Source:        string(resp.Source),
			Notes:         resp.Notes,
			CreatedAt:     resp.CreatedAt.Format(time.RFC3339),
			UpdatedAt:     resp.UpdatedAt.Format(time.RFC3339),
		},
		Detail: fmt.Sprintf("%s - %s", resp.RoomName, resp.StaffName),
	}
}
