package catalog

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SpaBookingService/internal/domain"
	"github.com/m04kA/SMC-SpaBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SpaBookingService/pkg/psqlbuilder"
)

// Repository читает справочники услуг, филиалов, комнат и персонала.
// Справочники ведёт админка; сервис бронирования их только читает.
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория справочников
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

var serviceColumns = []string{"id", "name", "duration_minutes", "buffer_minutes", "required_room_type", "is_active"}

// GetServiceByID получает услугу по ID
func (r *Repository) GetServiceByID(ctx context.Context, id int64) (*domain.Service, error) {
	return r.getService(ctx, "GetServiceByID", squirrel.Eq{"id": id})
}

// GetServiceByName получает услугу по названию без учета регистра
func (r *Repository) GetServiceByName(ctx context.Context, name string) (*domain.Service, error) {
	return r.getService(ctx, "GetServiceByName", squirrel.Expr("LOWER(name) = LOWER(?)", name))
}

func (r *Repository) getService(ctx context.Context, op string, where squirrel.Sqlizer) (*domain.Service, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(serviceColumns...).
		From("services").
		Where(where).
		OrderBy("id ASC").
		Limit(1).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	var service domain.Service
	var buffer sql.NullInt64
	var roomType sql.NullString

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&service.ID,
		&service.Name,
		&service.DurationMinutes,
		&buffer,
		&roomType,
		&service.Active,
	)

	if err == sql.ErrNoRows {
		return nil, ErrServiceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan service: %v", ErrScanRow, op, err)
	}

	if buffer.Valid {
		minutes := int(buffer.Int64)
		service.BufferMinutes = &minutes
	}
	service.RequiredRoomType = roomType.String

	return &service, nil
}

// GetBranchByID получает филиал с часами работы
func (r *Repository) GetBranchByID(ctx context.Context, id int64) (*domain.Branch, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "name", "open_time", "close_time", "is_active").
		From("branches").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetBranchByID - build select query: %v", ErrBuildQuery, err)
	}

	var branch domain.Branch
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&branch.ID,
		&branch.Name,
		&branch.OpenTime,
		&branch.CloseTime,
		&branch.Active,
	)

	if err == sql.ErrNoRows {
		return nil, ErrBranchNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetBranchByID - scan branch: %v", ErrScanRow, err)
	}

	return &branch, nil
}

// GetActiveRoomsByBranch получает активные комнаты филиала по возрастанию ID
func (r *Repository) GetActiveRoomsByBranch(ctx context.Context, branchID int64) ([]*domain.Room, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "name", "branch_id", "type", "capacity", "is_active").
		From("rooms").
		Where(squirrel.Eq{"branch_id": branchID, "is_active": true}).
		OrderBy("id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveRoomsByBranch - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveRoomsByBranch - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	rooms := make([]*domain.Room, 0)
	for rows.Next() {
		var room domain.Room
		if err := rows.Scan(&room.ID, &room.Name, &room.BranchID, &room.Type, &room.Capacity, &room.Active); err != nil {
			return nil, fmt.Errorf("%w: GetActiveRoomsByBranch - scan room: %v", ErrScanRow, err)
		}
		rooms = append(rooms, &room)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetActiveRoomsByBranch - rows error: %v", ErrScanRow, err)
	}

	return rooms, nil
}

// GetActiveStaffByBranch получает активных сотрудников филиала вместе со сменами
func (r *Repository) GetActiveStaffByBranch(ctx context.Context, branchID int64) ([]*domain.Staff, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "name", "branch_id", "is_active").
		From("staff").
		Where(squirrel.Eq{"branch_id": branchID, "is_active": true}).
		OrderBy("id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveStaffByBranch - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveStaffByBranch - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	staff := make([]*domain.Staff, 0)
	byID := make(map[int64]*domain.Staff)
	ids := make([]int64, 0)

	for rows.Next() {
		var member domain.Staff
		if err := rows.Scan(&member.ID, &member.Name, &member.BranchID, &member.Active); err != nil {
			return nil, fmt.Errorf("%w: GetActiveStaffByBranch - scan staff: %v", ErrScanRow, err)
		}
		staff = append(staff, &member)
		byID[member.ID] = &member
		ids = append(ids, member.ID)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetActiveStaffByBranch - rows error: %v", ErrScanRow, err)
	}

	rows.Close()

	if len(ids) == 0 {
		return staff, nil
	}

	if err := r.loadShifts(ctx, executor, ids, byID); err != nil {
		return nil, err
	}

	return staff, nil
}

// loadShifts подгружает смены одним запросом для всех сотрудников
func (r *Repository) loadShifts(ctx context.Context, executor DBExecutor, ids []int64, byID map[int64]*domain.Staff) error {
	query, args, err := psqlbuilder.Select("staff_id", "day_of_week", "start_time", "end_time", "is_off").
		From("staff_shifts").
		Where(squirrel.Eq{"staff_id": ids}).
		OrderBy("staff_id ASC", "day_of_week ASC").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: loadShifts - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: loadShifts - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var staffID int64
		var shift domain.Shift
		if err := rows.Scan(&staffID, &shift.DayOfWeek, &shift.StartTime, &shift.EndTime, &shift.IsOff); err != nil {
			return fmt.Errorf("%w: loadShifts - scan shift: %v", ErrScanRow, err)
		}
		if member, ok := byID[staffID]; ok {
			member.Shifts = append(member.Shifts, shift)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: loadShifts - rows error: %v", ErrScanRow, err)
	}

	return nil
}
