package cancel_booking

import (
	"github.com/m04kA/SMC-SpaBookingService/internal/service/bookings/models"
)

// CancelBookingRequest HTTP request model. Тело запроса может отсутствовать.
type CancelBookingRequest struct {
	Reason *string `json:"reason,omitempty" validate:"omitempty,max=500"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *CancelBookingRequest) ToServiceRequest() *models.CancelBookingRequest {
	return &models.CancelBookingRequest{
		Reason: r.Reason,
	}
}
