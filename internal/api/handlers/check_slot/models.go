package check_slot

import (
	"github.com/m04kA/SMC-SpaBookingService/internal/domain"
	checkSlot "github.com/m04kA/SMC-SpaBookingService/internal/usecase/check_slot"
)

// CheckSlotRequest HTTP request model. Услуга задаётся serviceId или serviceName.
type CheckSlotRequest struct {
	Date        string `json:"date" validate:"required,date"` // "2025-06-10"
	ServiceID   *int64 `json:"serviceId,omitempty" validate:"omitempty,gt=0"`
	ServiceName string `json:"serviceName,omitempty" validate:"required_without=ServiceID,max=255"`
	BranchID    int64  `json:"branchId" validate:"required,gt=0"`
}

// CheckSlotResponse HTTP response model
type CheckSlotResponse struct {
	Success        bool     `json:"success"`
	Date           string   `json:"date"`
	BranchID       int64    `json:"branchId"`
	ServiceID      int64    `json:"serviceId"`
	ServiceName    string   `json:"serviceName"`
	AvailableSlots []string `json:"availableSlots"` // ["09:00", "09:30", ...]
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CheckSlotRequest) ToUseCaseRequest() *checkSlot.Request {
	return &checkSlot.Request{
		ServiceID:   r.ServiceID,
		ServiceName: r.ServiceName,
		BranchID:    r.BranchID,
		Date:        r.Date,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *checkSlot.Response) *CheckSlotResponse {
	slots := make([]string, 0, len(resp.Slots))
	for _, s := range resp.Slots {
		slots = append(slots, s.String())
	}

	return &CheckSlotResponse{
		Success:        true,
		Date:           resp.Date.Format(domain.DateFormat),
		BranchID:       resp.BranchID,
		ServiceID:      resp.ServiceID,
		ServiceName:    resp.ServiceName,
		AvailableSlots: slots,
	}
}
