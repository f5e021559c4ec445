package check_slot

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SpaBookingService/internal/api/handlers"
	checkSlot "github.com/m04kA/SMC-SpaBookingService/internal/usecase/check_slot"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgServiceNotFound    = "услуга не найдена"
	msgBranchNotFound     = "филиал не найден"
	msgInvalidDate        = "некорректная дата: ожидается YYYY-MM-DD не раньше сегодняшнего дня"
	msgDateTooFar         = "дата слишком далеко в будущем"
	msgInvalidInput       = "некорректные данные запроса"
)

type Handler struct {
	useCase CheckSlotUseCase
	logger  Logger
}

func NewHandler(useCase CheckSlotUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings/check-slot
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CheckSlotRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings/check-slot - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if msg, ok := handlers.Validate(&req); !ok {
		h.logger.Warn("POST /bookings/check-slot - Validation failed: %s", msg)
		handlers.RespondBadRequest(w, msg)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest())
	if err != nil {
		switch {
		case errors.Is(err, checkSlot.ErrServiceNotFound):
			h.logger.Warn("POST /bookings/check-slot - Service not found: service_id=%v, name=%q", req.ServiceID, req.ServiceName)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, checkSlot.ErrBranchNotFound):
			h.logger.Warn("POST /bookings/check-slot - Branch not found: branch_id=%d", req.BranchID)
			handlers.RespondNotFound(w, msgBranchNotFound)

		case errors.Is(err, checkSlot.ErrDateTooFarInFuture):
			h.logger.Warn("POST /bookings/check-slot - Date too far: date=%s", req.Date)
			handlers.RespondBadRequest(w, msgDateTooFar)

		case errors.Is(err, checkSlot.ErrInvalidDate):
			h.logger.Warn("POST /bookings/check-slot - Invalid date: date=%s", req.Date)
			handlers.RespondBadRequest(w, msgInvalidDate)

		case errors.Is(err, checkSlot.ErrInvalidInput):
			h.logger.Warn("POST /bookings/check-slot - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /bookings/check-slot - Failed to check slots: branch_id=%d, error=%v", req.BranchID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings/check-slot - %d slots available: branch_id=%d, service_id=%d, date=%s",
		len(result.Slots), result.BranchID, result.ServiceID, req.Date)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
