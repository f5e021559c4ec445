package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/m04kA/SMC-SpaBookingService/internal/domain"
	"github.com/m04kA/SMC-SpaBookingService/internal/events"
	"github.com/m04kA/SMC-SpaBookingService/internal/gate"
	bookingRepo "github.com/m04kA/SMC-SpaBookingService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-SpaBookingService/internal/service/bookings/models"
)

// Service сервис для чтения бронирований и смены их статуса
type Service struct {
	bookingRepo  BookingRepository
	gate         Gate
	txManager    TransactionManager
	dispatcher   EventDispatcher
	timeProvider TimeProvider
	location     *time.Location
	logger       Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	bookingGate Gate,
	txManager TransactionManager,
	dispatcher EventDispatcher,
	location *time.Location,
	logger Logger,
) *Service {
	if location == nil {
		location = time.UTC
	}
	return &Service{
		bookingRepo:  bookingRepo,
		gate:         bookingGate,
		txManager:    txManager,
		dispatcher:   dispatcher,
		timeProvider: realTimeProvider{},
		location:     location,
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени
func (s *Service) WithTimeProvider(tp TimeProvider) *Service {
	s.timeProvider = tp
	return s
}

// GetByID получает бронирование по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d", id)

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking id=%d not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainBooking(booking, s.location), nil
}

// List получает бронирования по телефону, филиалу, дате и статусу.
// Используется внешними системами (CRM, отчёты) и админкой.
func (s *Service) List(ctx context.Context, req *models.ListBookingsRequest) (*models.BookingListResponse, error) {
	logMsg := "List: fetching bookings"
	if req.Phone != nil {
		logMsg += fmt.Sprintf(", phone=%s", *req.Phone)
	}
	if req.BranchID != nil {
		logMsg += fmt.Sprintf(", branch=%d", *req.BranchID)
	}
	if req.Date != nil {
		logMsg += fmt.Sprintf(", date=%s", *req.Date)
	}
	if req.Status != nil {
		logMsg += fmt.Sprintf(", status=%s", *req.Status)
	}
	s.logger.Info(logMsg)

	if req.Limit < 0 {
		return nil, fmt.Errorf("%w: limit must not be negative", ErrInvalidInput)
	}

	filter, err := req.ToDomainFilter(s.location)
	if err != nil {
		s.logger.Warn("List: invalid filter: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	bookings, err := s.bookingRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: fetched %d bookings", len(bookings))
	return models.FromDomainBookingList(bookings, s.location), nil
}

// Cancel отменяет бронирование. Освободившиеся комната и сотрудник
// сразу видны в проверке слотов: отменённые брони не участвуют в пересечениях.
func (s *Service) Cancel(ctx context.Context, bookingID int64, req *models.CancelBookingRequest) (*models.BookingResponse, error) {
	s.logger.Info("Cancel: cancelling booking id=%d", bookingID)

	if req.Reason != nil && utf8.RuneCountInString(*req.Reason) > domain.MaxCancellationReasonLength {
		return nil, fmt.Errorf("%w: reason must be at most %d characters", ErrInvalidInput, domain.MaxCancellationReasonLength)
	}

	return s.transition(ctx, bookingID, domain.StatusCancelled, func(txCtx context.Context) error {
		return s.bookingRepo.Cancel(txCtx, bookingID, req.Reason)
	})
}

// UpdateStatus переводит бронирование в новый статус по правилам state machine
func (s *Service) UpdateStatus(ctx context.Context, bookingID int64, req *models.UpdateStatusRequest) (*models.BookingResponse, error) {
	s.logger.Info("UpdateStatus: updating booking id=%d to status=%s", bookingID, req.Status)

	newStatus, err := models.ToDomainBookingStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%s for booking id=%d", req.Status, bookingID)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if newStatus == domain.StatusCancelled {
		return s.Cancel(ctx, bookingID, &models.CancelBookingRequest{})
	}

	return s.transition(ctx, bookingID, newStatus, func(txCtx context.Context) error {
		return s.bookingRepo.UpdateStatus(txCtx, bookingID, newStatus)
	})
}

// transition выполняет смену статуса под gate в транзакции и отправляет событие
func (s *Service) transition(
	ctx context.Context,
	bookingID int64,
	next domain.BookingStatus,
	apply func(txCtx context.Context) error,
) (*models.BookingResponse, error) {
	// 1. Захватываем gate
	release, err := s.gate.Acquire(ctx)
	if err != nil {
		if errors.Is(err, gate.ErrTimeout) || errors.Is(err, gate.ErrCancelled) {
			s.logger.Warn("Transition: gate not acquired for booking id=%d: %v", bookingID, err)
			return nil, fmt.Errorf("%w: %v", ErrGateTimeout, err)
		}
		return nil, fmt.Errorf("%w: failed to acquire gate: %v", ErrInternal, err)
	}
	defer release()

	var previous domain.BookingStatus
	var updated *domain.Booking

	// 2. Читаем, проверяем переход и применяем его в одной транзакции
	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		booking, err := s.bookingRepo.GetByID(txCtx, bookingID)
		if err != nil {
			return s.mapRepoError("Transition", bookingID, err)
		}

		if booking.Status.IsTerminal() {
			s.logger.Warn("Transition: booking id=%d is already %s", bookingID, booking.Status)
			return fmt.Errorf("%w: booking is already %s", ErrInvalidTransition, booking.Status)
		}
		if !booking.Status.CanTransitionTo(next) {
			s.logger.Warn("Transition: booking id=%d cannot move %s -> %s", bookingID, booking.Status, next)
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, booking.Status, next)
		}
		previous = booking.Status

		if err := apply(txCtx); err != nil {
			return s.mapRepoError("Transition", bookingID, err)
		}

		updated, err = s.bookingRepo.GetByID(txCtx, bookingID)
		if err != nil {
			return s.mapRepoError("Transition", bookingID, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// 3. Освобождаем gate и отправляем событие
	release()

	eventType := events.TypeBookingStatusChanged
	if next == domain.StatusCancelled {
		eventType = events.TypeBookingCancelled
	}
	event := events.New(eventType, updated, s.timeProvider.Now())
	event.PreviousStatus = string(previous)
	s.dispatcher.Dispatch(event)

	s.logger.Info("Transition: booking id=%d %s -> %s", bookingID, previous, updated.Status)
	return models.FromDomainBooking(updated, s.location), nil
}

func (s *Service) mapRepoError(op string, bookingID int64, err error) error {
	if errors.Is(err, bookingRepo.ErrBookingNotFound) {
		s.logger.Warn("%s: booking id=%d not found", op, bookingID)
		return ErrBookingNotFound
	}
	s.logger.Error("%s: repository error for booking id=%d: %v", op, bookingID, err)
	return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
}
