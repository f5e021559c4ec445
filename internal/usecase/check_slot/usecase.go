package check_slot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-SpaBookingService/internal/domain"
	catalogRepo "github.com/m04kA/SMC-SpaBookingService/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-SpaBookingService/internal/service/availability"
	"github.com/m04kA/SMC-SpaBookingService/pkg/types"
)

// UseCase use case для проверки свободных слотов.
// Ничего не блокирует: результат - предпросмотр, окончательная проверка идёт при создании брони.
type UseCase struct {
	serviceRepo  ServiceRepository
	branchRepo   BranchRepository
	loader       SnapshotLoader
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	serviceRepo ServiceRepository,
	branchRepo BranchRepository,
	loader SnapshotLoader,
	logger Logger,
) *UseCase {
	return &UseCase{
		serviceRepo:  serviceRepo,
		branchRepo:   branchRepo,
		loader:       loader,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case проверки свободных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CheckSlot: branch=%d, service=%s, date=%s", req.BranchID, serviceRef(req), req.Date)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CheckSlot: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время и правила расписания
	now := uc.timeProvider.Now()
	rules := uc.loader.Rules()

	// 3. Парсим и проверяем дату
	date, err := rules.ParseDate(req.Date)
	if err != nil {
		uc.logger.Warn("CheckSlot: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidDate, err)
	}
	if err := rules.ValidateDate(date, now); err != nil {
		uc.logger.Warn("CheckSlot: date validation failed: %v", err)
		return nil, mapDateError(err)
	}

	// 4. Получаем услугу
	service, err := uc.resolveService(ctx, req)
	if err != nil {
		return nil, err
	}

	// 5. Получаем филиал
	branch, err := uc.branchRepo.GetBranchByID(ctx, req.BranchID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrBranchNotFound) {
			uc.logger.Warn("CheckSlot: branch id=%d not found", req.BranchID)
			return nil, ErrBranchNotFound
		}
		uc.logger.Error("CheckSlot: failed to get branch id=%d: %v", req.BranchID, err)
		return nil, fmt.Errorf("%w: failed to get branch: %v", ErrInternal, err)
	}
	if !branch.Active {
		uc.logger.Warn("CheckSlot: branch id=%d is inactive", req.BranchID)
		return nil, ErrBranchNotFound
	}

	// 6. Генерируем кандидатов и убираем уже начавшиеся
	candidates, err := rules.EnumerateSlots(date, branch, service.DurationMinutes)
	if err != nil {
		uc.logger.Error("CheckSlot: branch id=%d: %v", branch.ID, err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	candidates = availability.DropStarted(candidates, now)

	response := &Response{
		Date:        date,
		BranchID:    branch.ID,
		ServiceID:   service.ID,
		ServiceName: service.Name,
		Slots:       []types.TimeString{},
	}
	if len(candidates) == 0 {
		uc.logger.Info("CheckSlot: no candidates for branch=%d on %s", branch.ID, req.Date)
		return response, nil
	}

	// 7. Читаем снимок ресурсов филиала
	snapshot, err := uc.loader.Load(ctx, service, branch.ID, date)
	if err != nil {
		uc.logger.Error("CheckSlot: failed to load snapshot: %v", err)
		return nil, fmt.Errorf("%w: failed to load snapshot: %v", ErrInternal, err)
	}

	// 8. Оставляем только слоты со свободной комнатой и свободным сотрудником
	for _, start := range snapshot.Available(candidates) {
		response.Slots = append(response.Slots, types.NewTimeString(start))
	}

	uc.logger.Info("CheckSlot: %d of %d slots available for branch=%d, service=%d, date=%s",
		len(response.Slots), len(candidates), branch.ID, service.ID, req.Date)

	return response, nil
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
			uc.logger.Warn("CheckSlot: service %s not found", serviceRef(req))
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CheckSlot: failed to get service %s: %v", serviceRef(req), err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	if !service.Active {
		uc.logger.Warn("CheckSlot: service id=%d is inactive", service.ID)
		return nil, ErrServiceNotFound
	}

	return service, nil
}

func mapDateError(err error) error {
	switch {
	case errors.Is(err, availability.ErrDateTooFarInFuture):
		return fmt.Errorf("%w: %v", ErrDateTooFarInFuture, err)
	default:
		return fmt.Errorf("%w: %v", ErrInvalidDate, err)
	}
}

func serviceRef(req *Request) string {
	if req.ServiceID != nil {
		return fmt.Sprintf("id=%d", *req.ServiceID)
	}
	return fmt.Sprintf("name=%q", req.ServiceName)
}
