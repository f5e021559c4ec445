package catalog

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SpaBookingService/internal/domain"
	"github.com/m04kA/SMC-SpaBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SpaBookingService/pkg/types"
)

func newRepo(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewRepository(dbmetrics.Wrap(db, nil, "test")), mock
}

func TestRepository_GetServiceByName(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM services WHERE LOWER(name) = LOWER($1) ORDER BY id ASC LIMIT 1")).
		WithArgs("thai massage").
		WillReturnRows(sqlmock.NewRows(serviceColumns).AddRow(int64(1), "Thai Massage", 60, nil, "massage", true))

	service, err := repo.GetServiceByName(context.Background(), "thai massage")

	require.NoError(t, err)
	assert.Equal(t, "Thai Massage", service.Name)
	assert.Nil(t, service.BufferMinutes)
	assert.Equal(t, 30, service.Buffer(30))
	assert.Equal(t, "massage", service.RequiredRoomType)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetServiceByID_NotFound(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM services WHERE id = $1")).
		WithArgs(int64(9)).
		WillReturnRows(sqlmock.NewRows(serviceColumns))

	_, err := repo.GetServiceByID(context.Background(), 9)

	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestRepository_GetBranchByID(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM branches WHERE id = $1")).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "open_time", "close_time", "is_active"}).
			AddRow(int64(1), "Central", []byte("09:00:00"), []byte("18:00:00"), true))

	branch, err := repo.GetBranchByID(context.Background(), 1)

	require.NoError(t, err)
	assert.Equal(t, types.TimeString("09:00"), branch.OpenTime)
	assert.Equal(t, types.TimeString("18:00"), branch.CloseTime)
}

func TestRepository_GetActiveRoomsByBranch(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM rooms WHERE branch_id = $1 AND is_active = $2 ORDER BY id ASC")).
		WithArgs(int64(1), true).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "branch_id", "type", "capacity", "is_active"}).
			AddRow(int64(1), "A1", int64(1), "massage", 1, true).
			AddRow(int64(2), "Couple", int64(1), "massage", 2, true))

	rooms, err := repo.GetActiveRoomsByBranch(context.Background(), 1)

	require.NoError(t, err)
	require.Len(t, rooms, 2)
	assert.Equal(t, 2, rooms[1].Capacity)
}

func TestRepository_GetActiveStaffByBranch(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM staff WHERE branch_id = $1 AND is_active = $2 ORDER BY id ASC")).
		WithArgs(int64(1), true).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "branch_id", "is_active"}).
			AddRow(int64(1), "Linh", int64(1), true).
			AddRow(int64(2), "Mai", int64(1), true))

	mock.ExpectQuery(regexp.QuoteMeta("FROM staff_shifts WHERE staff_id IN ($1,$2) ORDER BY staff_id ASC, day_of_week ASC")).
		WithArgs(int64(1), int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"staff_id", "day_of_week", "start_time", "end_time", "is_off"}).
			AddRow(int64(1), 2, "09:00:00", "18:00:00", false).
			AddRow(int64(2), 2, "00:00:00", "00:00:00", true))

	staff, err := repo.GetActiveStaffByBranch(context.Background(), 1)

	require.NoError(t, err)
	require.Len(t, staff, 2)
	require.Len(t, staff[0].Shifts, 1)
	assert.Equal(t, domain.Shift{DayOfWeek: 2, StartTime: "09:00", EndTime: "18:00"}, staff[0].Shifts[0])
	assert.True(t, staff[1].Shifts[0].IsOff)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetActiveStaffByBranch_Empty(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery("FROM staff WHERE").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "branch_id", "is_active"}))

	staff, err := repo.GetActiveStaffByBranch(context.Background(), 1)

	require.NoError(t, err)
	assert.Empty(t, staff)
	assert.NoError(t, mock.ExpectationsWereMet())
}
