package create_booking

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-SpaBookingService/internal/domain"
	"github.com/m04kA/SMC-SpaBookingService/internal/events"
	"github.com/m04kA/SMC-SpaBookingService/internal/gate"
	catalogRepo "github.com/m04kA/SMC-SpaBookingService/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-SpaBookingService/internal/service/availability"
	"github.com/m04kA/SMC-SpaBookingService/pkg/metrics"
	"github.com/m04kA/SMC-SpaBookingService/pkg/ptr"
)

// Исходы для счётчика bookings_total
const (
	outcomeCreated  = "created"
	outcomeConflict = "conflict"
	outcomeRejected = "rejected"
	outcomeBusy     = "busy"
	outcomeError    = "error"
)

// UseCase use case для создания бронирования.
// Проверка свободных ресурсов и запись выполняются под общим gate,
// поэтому два конкурентных запроса не могут занять одно и то же место.
type UseCase struct {
	bookingRepo  BookingRepository
	serviceRepo  ServiceRepository
	branchRepo   BranchRepository
	loader       SnapshotLoader
	gate         Gate
	txManager    TransactionManager
	dispatcher   EventDispatcher
	timeProvider TimeProvider
	logger       Logger

	metrics     *metrics.Metrics
	serviceName string
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	serviceRepo ServiceRepository,
	branchRepo BranchRepository,
	loader SnapshotLoader,
	gate Gate,
	txManager TransactionManager,
	dispatcher EventDispatcher,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		serviceRepo:  serviceRepo,
		branchRepo:   branchRepo,
		loader:       loader,
		gate:         gate,
		txManager:    txManager,
		dispatcher:   dispatcher,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// WithMetrics включает счётчик исходов бронирования
func (uc *UseCase) WithMetrics(m *metrics.Metrics, serviceName string) *UseCase {
	uc.metrics = m
	uc.serviceName = serviceName
	return uc
}

// Execute выполняет use case создания бронирования
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	resp, err := uc.execute(ctx, req)
	uc.observe(err)
	return resp, err
}

func (uc *UseCase) execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: branch=%d, service=%s, date=%s, time=%s, phone=%s",
		req.BranchID, serviceRef(req), req.Date, req.Time, req.Phone)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время и правила расписания
	now := uc.timeProvider.Now()
	rules := uc.loader.Rules()

	// 3. Парсим и проверяем дату
	date, err := rules.ParseDate(req.Date)
	if err != nil {
		uc.logger.Warn("CreateBooking: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidDate, err)
	}
	if err := rules.ValidateDate(date, now); err != nil {
		uc.logger.Warn("CreateBooking: date validation failed: %v", err)
		if errors.Is(err, availability.ErrDateTooFarInFuture) {
			return nil, fmt.Errorf("%w: %v", ErrDateTooFarInFuture, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidDate, err)
	}

	// 4. Время начала не должно быть в прошлом
	start, err := req.Time.On(date, date.Location())
	if err != nil {
		uc.logger.Warn("CreateBooking: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if !start.After(now) {
		uc.logger.Warn("CreateBooking: start %s is not in the future", start.Format(domain.TimeFormat))
		return nil, ErrTooLateToBook
	}

	// 5. Получаем услугу и филиал до захвата gate
	service, err := uc.resolveService(ctx, req)
	if err != nil {
		return nil, err
	}

	branch, err := uc.branchRepo.GetBranchByID(ctx, req.BranchID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrBranchNotFound) {
			uc.logger.Warn("CreateBooking: branch id=%d not found", req.BranchID)
			return nil, ErrBranchNotFound
		}
		uc.logger.Error("CreateBooking: failed to get branch id=%d: %v", req.BranchID, err)
		return nil, fmt.Errorf("%w: failed to get branch: %v", ErrInternal, err)
	}
	if !branch.Active {
		uc.logger.Warn("CreateBooking: branch id=%d is inactive", req.BranchID)
		return nil, ErrBranchNotFound
	}

	// 6. Захватываем gate. Освобождение гарантировано defer на любом пути выхода
	release, err := uc.gate.Acquire(ctx)
	if err != nil {
		if errors.Is(err, gate.ErrTimeout) || errors.Is(err, gate.ErrCancelled) {
			uc.logger.Warn("CreateBooking: gate not acquired: %v", err)
			return nil, fmt.Errorf("%w: %v", ErrGateTimeout, err)
		}
		uc.logger.Error("CreateBooking: failed to acquire gate: %v", err)
		return nil, fmt.Errorf("%w: failed to acquire gate: %v", ErrInternal, err)
	}
	defer release()

	var (
		created *domain.Booking
		room    *domain.Room
		staff   *domain.Staff
	)

	// 7. Повторно читаем состояние и записываем бронь в транзакции
	err = uc.txManager.Do(ctx, func(txCtx context.Context) error {
		// 7.1. Перечитываем услугу: длительность и буфер могли измениться
		fresh, err := uc.serviceRepo.GetServiceByID(txCtx, service.ID)
		if err != nil {
			if errors.Is(err, catalogRepo.ErrServiceNotFound) {
				return ErrServiceNotFound
			}
			return fmt.Errorf("%w: failed to reload service: %v", ErrInternal, err)
		}
		if !fresh.Active {
			return ErrServiceNotFound
		}

		// 7.2. Читаем снимок комнат, персонала и броней
		snapshot, err := uc.loader.Load(txCtx, fresh, branch.ID, date)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to load snapshot: %v", err)
			return fmt.Errorf("%w: failed to load snapshot: %v", ErrInternal, err)
		}

		// 7.3. Окна брони и проверка часов работы
		slot := snapshot.SlotAt(start)
		if err := rules.WithinHours(branch, slot); err != nil {
			if errors.Is(err, availability.ErrInvalidBranchHours) {
				uc.logger.Error("CreateBooking: branch id=%d: %v", branch.ID, err)
				return fmt.Errorf("%w: %v", ErrInternal, err)
			}
			uc.logger.Warn("CreateBooking: %v", err)
			return fmt.Errorf("%w: %v", ErrOutsideBusinessHours, err)
		}

		// 7.4. Комната
		room, err = uc.pickRoom(snapshot, req.RoomID, slot)
		if err != nil {
			return err
		}

		// 7.5. Сотрудник
		staff, err = uc.pickStaff(snapshot, req.StaffID, slot)
		if err != nil {
			return err
		}

		// 7.6. Сохраняем бронирование
		booking := &domain.Booking{
			CustomerName:  strings.TrimSpace(req.CustomerName),
			Phone:         strings.TrimSpace(req.Phone),
			BranchID:      branch.ID,
			ServiceID:     fresh.ID,
			StaffID:       staff.ID,
			RoomID:        room.ID,
			StartTime:     slot.Start,
			EndTime:       slot.End,
			Status:        ptr.Deref(req.Status, domain.StatusPending),
			Source:        ptr.Deref(req.Source, domain.SourceOnline),
			ServiceName:   fresh.Name,
			BufferMinutes: snapshot.BufferMinutes,
			Notes:         req.Notes,
		}

		created, err = uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	// 8. Освобождаем gate до отправки события
	release()

	uc.logger.Info("CreateBooking: created booking id=%d, room=%d, staff=%d, %s",
		created.ID, created.RoomID, created.StaffID, created.StartTime.Format("2006-01-02 15:04"))

	// 9. Событие отправляется асинхронно, ошибка доставки не влияет на ответ
	uc.dispatcher.Dispatch(events.New(events.TypeBookingCreated, created, now))

	return toResponse(created, room, staff), nil
}

// pickRoom проверяет указанную комнату или выбирает первую свободную по ID
func (uc *UseCase) pickRoom(snapshot *availability.Snapshot, roomID *int64, slot domain.Slot) (*domain.Room, error) {
	if roomID != nil {
		room, err := snapshot.CheckRoom(*roomID, slot)
		switch {
		case errors.Is(err, availability.ErrRoomNotFound):
			uc.logger.Warn("CreateBooking: %v", err)
			return nil, fmt.Errorf("%w: %v", ErrRoomNotFound, err)
		case err != nil:
			uc.logger.Warn("CreateBooking: %v", err)
			return nil, fmt.Errorf("%w: %v", ErrNoRoomAvailable, err)
		}
		return room, nil
	}

	room, ok := snapshot.FindRoom(slot)
	if !ok {
		uc.logger.Warn("CreateBooking: no room of type %q free at %s",
			snapshot.Service.RequiredRoomType, slot.Start.Format(domain.TimeFormat))
		return nil, ErrNoRoomAvailable
	}
	return room, nil
}

// pickStaff проверяет указанного сотрудника или выбирает первого свободного по ID
func (uc *UseCase) pickStaff(snapshot *availability.Snapshot, staffID *int64, slot domain.Slot) (*domain.Staff, error) {
	if staffID != nil {
		staff, err := snapshot.CheckStaff(*staffID, slot)
		switch {
		case errors.Is(err, availability.ErrStaffNotFound):
			uc.logger.Warn("CreateBooking: %v", err)
			return nil, fmt.Errorf("%w: %v", ErrStaffNotFound, err)
		case err != nil:
			uc.logger.Warn("CreateBooking: %v", err)
			return nil, fmt.Errorf("%w: %v", ErrNoStaffAvailable, err)
		}
		return staff, nil
	}

	staff, ok := snapshot.FindStaff(slot)
	if !ok {
		uc.logger.Warn("CreateBooking: no staff free at %s", slot.Start.Format(domain.TimeFormat))
		return nil, ErrNoStaffAvailable
	}
	return staff, nil
}

// resolveService находит активную услугу по ID или по имени
func (uc *UseCase) resolveService(ctx context.Context, req *Request) (*domain.Service, error) {
	var (
		service *domain.Service
		err     error
	)
	if req.ServiceID != nil {
		service, err = uc.serviceRepo.GetServiceByID(ctx, *req.ServiceID)
	} else {
		service, err = uc.serviceRepo.GetServiceByName(ctx, strings.TrimSpace(req.ServiceName))
	}

	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Warn("CreateBooking: service %s not found", serviceRef(req))
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateBooking: failed to get service %s: %v", serviceRef(req), err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	if !service.Active {
		uc.logger.Warn("CreateBooking: service id=%d is inactive", service.ID)
		return nil, ErrServiceNotFound
	}

	return service, nil
}

func (uc *UseCase) observe(err error) {
	if uc.metrics == nil {
		return
	}
	uc.metrics.BookingsTotal.WithLabelValues(uc.serviceName, outcome(err)).Inc()
}

func outcome(err error) string {
	switch {
	case err == nil:
		return outcomeCreated
	case errors.Is(err, ErrNoRoomAvailable), errors.Is(err, ErrNoStaffAvailable):
		return outcomeConflict
	case errors.Is(err, ErrGateTimeout):
		return outcomeBusy
	case errors.Is(err, ErrInternal):
		return outcomeError
	default:
		return outcomeRejected
	}
}

func toResponse(b *domain.Booking, room *domain.Room, staff *domain.Staff) *Response {
	return &Response{
		ID:            b.ID,
		CustomerName:  b.CustomerName,
		Phone:         b.Phone,
		BranchID:      b.BranchID,
		ServiceID:     b.ServiceID,
		ServiceName:   b.ServiceName,
		RoomID:        b.RoomID,
		RoomName:      room.Name,
		StaffID:       b.StaffID,
		StaffName:     staff.Name,
		StartTime:     b.StartTime,
		EndTime:       b.EndTime,
		BufferMinutes: b.BufferMinutes,
		Status:        b.Status,
		Source:        b.Source,
		Notes:         b.Notes,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

func serviceRef(req *Request) string {
	if req.ServiceID != nil {
		return fmt.Sprintf("id=%d", *req.ServiceID)
	}
	return fmt.Sprintf("name=%q", req.ServiceName)
}
