package create_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SpaBookingService/internal/api/handlers"
	createBooking "github.com/m04kA/SMC-SpaBookingService/internal/usecase/create_booking"
)

const (
	msgBookingCreated       = "бронирование создано"
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgInvalidTime          = "некорректный формат времени начала, ожидается HH:MM"
	msgServiceNotFound      = "услуга не найдена"
	msgBranchNotFound       = "филиал не найден"
	msgRoomNotFound         = "комната не найдена в филиале"
	msgStaffNotFound        = "мастер не найден в филиале"
	msgInvalidBookingDate   = "некорректная дата бронирования"
	msgDateTooFar           = "дата бронирования слишком далеко в будущем"
	msgOutsideBusinessHours = "время вне часов работы филиала"
	msgTooLateToBook        = "выбранное время уже прошло"
	msgNoRoomAvailable      = "нет свободной комнаты на выбранное время, выберите другое время"
	msgNoStaffAvailable     = "нет свободного мастера на выбранное время, выберите другое время"
	msgBusy                 = "сервис бронирования перегружен, попробуйте ещё раз"
	msgInvalidInput         = "некорректные данные бронирования"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if msg, ok := handlers.Validate(&req); !ok {
		h.logger.Warn("POST /bookings - Validation failed: %s", msg)
		handlers.RespondBadRequest(w, msg)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse time: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrNoRoomAvailable):
			h.logger.Warn("POST /bookings - No room: branch_id=%d, date=%s, time=%s", req.BranchID, req.Date, req.Time)
			handlers.RespondConflict(w, msgNoRoomAvailable)

		case errors.Is(err, createBooking.ErrNoStaffAvailable):
			h.logger.Warn("POST /bookings - No staff: branch_id=%d, date=%s, time=%s", req.BranchID, req.Date, req.Time)
			handlers.RespondConflict(w, msgNoStaffAvailable)

		case errors.Is(err, createBooking.ErrGateTimeout):
			h.logger.Warn("POST /bookings - Gate timeout: branch_id=%d", req.BranchID)
			handlers.RespondServiceUnavailable(w, msgBusy)

		case errors.Is(err, createBooking.ErrServiceNotFound):
			h.logger.Warn("POST /bookings - Service not found: service_id=%v, name=%q", req.ServiceID, req.ServiceName)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, createBooking.ErrBranchNotFound):
			h.logger.Warn("POST /bookings - Branch not found: branch_id=%d", req.BranchID)
			handlers.RespondNotFound(w, msgBranchNotFound)

		case errors.Is(err, createBooking.ErrRoomNotFound):
			h.logger.Warn("POST /bookings - Room not found: room_id=%v", req.RoomID)
			handlers.RespondNotFound(w, msgRoomNotFound)

		case errors.Is(err, createBooking.ErrStaffNotFound):
			h.logger.Warn("POST /bookings - Staff not found: staff_id=%v", req.StaffID)
			handlers.RespondNotFound(w, msgStaffNotFound)

		case errors.Is(err, createBooking.ErrInvalidDate):
			h.logger.Warn("POST /bookings - Invalid booking date: date=%s", req.Date)
			handlers.RespondBadRequest(w, msgInvalidBookingDate)

		case errors.Is(err, createBooking.ErrDateTooFarInFuture):
			h.logger.Warn("POST /bookings - Date too far in future: date=%s", req.Date)
			handlers.RespondBadRequest(w, msgDateTooFar)

		case errors.Is(err, createBooking.ErrOutsideBusinessHours):
			h.logger.Warn("POST /bookings - Outside business hours: branch_id=%d, time=%s", req.BranchID, req.Time)
			handlers.RespondBadRequest(w, msgOutsideBusinessHours)

		case errors.Is(err, createBooking.ErrTooLateToBook):
			h.logger.Warn("POST /bookings - Too late to book: date=%s, time=%s", req.Date, req.Time)
			handlers.RespondBadRequest(w, msgTooLateToBook)

		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: branch_id=%d, error=%v", req.BranchID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%d, room_id=%d, staff_id=%d",
		result.ID, result.RoomID, result.StaffID)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
