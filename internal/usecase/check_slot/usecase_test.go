package check_slot

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SpaBookingService/internal/domain"
	"github.com/m04kA/SMC-SpaBookingService/internal/service/availability"
	"github.com/m04kA/SMC-SpaBookingService/internal/testutil"
	"github.com/m04kA/SMC-SpaBookingService/pkg/logger"
	"github.com/m04kA/SMC-SpaBookingService/pkg/ptr"
	"github.com/m04kA/SMC-SpaBookingService/pkg/types"
)

// понедельник, за день до проверяемой даты
var now = time.Date(2025, 6, 9, 8, 0, 0, 0, time.UTC)

func rules() availability.Rules {
	r := availability.DefaultRules()
	r.OvertimeMinutes = 0
	return r
}

func newUseCase(store *testutil.Store) *UseCase {
	loader := availability.NewLoader(store, store, store, rules())
	return NewUseCase(store, store, loader, logger.Nop()).WithTimeProvider(testutil.Clock{T: now})
}

func slotsFrom(from, to string) []types.TimeString {
	first, _ := time.Parse(domain.TimeFormat, from)
	last, _ := time.Parse(domain.TimeFormat, to)

	out := make([]types.TimeString, 0)
	for t := first; !t.After(last); t = t.Add(30 * time.Minute) {
		out = append(out, types.NewTimeString(t))
	}
	return out
}

func book(t *testing.T, store *testutil.Store, start time.Time, roomID, staffID int64) *domain.Booking {
	t.Helper()
	b, err := store.Create(context.Background(), &domain.Booking{
		CustomerName:  "Mai",
		Phone:         "+84900000000",
		BranchID:      1,
		ServiceID:     1,
		StaffID:       staffID,
		RoomID:        roomID,
		StartTime:     start,
		EndTime:       start.Add(time.Hour),
		Status:        domain.StatusPending,
		Source:        domain.SourceOnline,
		ServiceName:   "Thai Massage",
		BufferMinutes: 30,
	})
	require.NoError(t, err)
	return b
}

func TestExecute_EmptyDayReturnsAllSlots(t *testing.T) {
	uc := newUseCase(testutil.SpaStore())

	resp, err := uc.Execute(context.Background(), &Request{ServiceID: ptr.Ptr(int64(1)), BranchID: 1, Date: "2025-06-10"})

	require.NoError(t, err)
	assert.Equal(t, slotsFrom("09:00", "17:00"), resp.Slots)
	assert.Equal(t, "Thai Massage", resp.ServiceName)
}

func TestExecute_ResolvesServiceByName(t *testing.T) {
	uc := newUseCase(testutil.SpaStore())

	resp, err := uc.Execute(context.Background(), &Request{ServiceName: "thai massage", BranchID: 1, Date: "2025-06-10"})

	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.ServiceID)
}

func TestExecute_BookingBlocksOccupiedWindow(t *testing.T) {
	store := testutil.SpaStore()
	book(t, store, time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC), 1, 1)
	uc := newUseCase(store)

	resp, err := uc.Execute(context.Background(), &Request{ServiceID: ptr.Ptr(int64(1)), BranchID: 1, Date: "2025-06-10"})

	require.NoError(t, err)
	assert.Equal(t, slotsFrom("10:30", "17:00"), resp.Slots)
}

func TestExecute_CancelledBookingFreesSlot(t *testing.T) {
	store := testutil.SpaStore()
	b := book(t, store, time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC), 1, 1)
	require.NoError(t, store.Cancel(context.Background(), b.ID, nil))
	uc := newUseCase(store)

	resp, err := uc.Execute(context.Background(), &Request{ServiceID: ptr.Ptr(int64(1)), BranchID: 1, Date: "2025-06-10"})

	require.NoError(t, err)
	assert.Contains(t, resp.Slots, types.TimeString("09:00"))
}

func TestExecute_TodayDropsStartedSlots(t *testing.T) {
	uc := newUseCase(testutil.SpaStore()).WithTimeProvider(testutil.Clock{T: time.Date(2025, 6, 10, 15, 10, 0, 0, time.UTC)})

	resp, err := uc.Execute(context.Background(), &Request{ServiceID: ptr.Ptr(int64(1)), BranchID: 1, Date: "2025-06-10"})

	require.NoError(t, err)
	assert.Equal(t, slotsFrom("15:30", "17:00"), resp.Slots)
}

func TestExecute_Horizon(t *testing.T) {
	uc := newUseCase(testutil.SpaStore())

	_, err := uc.Execute(context.Background(), &Request{ServiceID: ptr.Ptr(int64(1)), BranchID: 1, Date: "2025-06-16"})
	require.NoError(t, err, "exactly 7 days ahead")

	_, err = uc.Execute(context.Background(), &Request{ServiceID: ptr.Ptr(int64(1)), BranchID: 1, Date: "2025-06-17"})
	assert.ErrorIs(t, err, ErrDateTooFarInFuture)
}

func TestExecute_Errors(t *testing.T) {
	store := testutil.SpaStore().
		AddService(&domain.Service{ID: 2, Name: "Retired", DurationMinutes: 30, Active: false}).
		AddBranch(&domain.Branch{ID: 2, Name: "Closed", OpenTime: "09:00", CloseTime: "18:00", Active: false})

	tests := []struct {
		name    string
		req     *Request
		wantErr error
	}{
		{"no branch", &Request{ServiceID: ptr.Ptr(int64(1)), Date: "2025-06-10"}, ErrInvalidInput},
		{"no service", &Request{BranchID: 1, Date: "2025-06-10"}, ErrInvalidInput},
		{"no date", &Request{ServiceID: ptr.Ptr(int64(1)), BranchID: 1}, ErrInvalidInput},
		{"bad date", &Request{ServiceID: ptr.Ptr(int64(1)), BranchID: 1, Date: "10.06.2025"}, ErrInvalidDate},
		{"past date", &Request{ServiceID: ptr.Ptr(int64(1)), BranchID: 1, Date: "2025-06-08"}, ErrInvalidDate},
		{"unknown service", &Request{ServiceID: ptr.Ptr(int64(99)), BranchID: 1, Date: "2025-06-10"}, ErrServiceNotFound},
		{"unknown service name", &Request{ServiceName: "Hot stones", BranchID: 1, Date: "2025-06-10"}, ErrServiceNotFound},
		{"inactive service", &Request{ServiceID: ptr.Ptr(int64(2)), BranchID: 1, Date: "2025-06-10"}, ErrServiceNotFound},
		{"unknown branch", &Request{ServiceID: ptr.Ptr(int64(1)), BranchID: 99, Date: "2025-06-10"}, ErrBranchNotFound},
		{"inactive branch", &Request{ServiceID: ptr.Ptr(int64(1)), BranchID: 2, Date: "2025-06-10"}, ErrBranchNotFound},
	}

	uc := newUseCase(store)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

type failingLoader struct {
	rules availability.Rules
}

func (l failingLoader) Load(context.Context, *domain.Service, int64, time.Time) (*availability.Snapshot, error) {
	return nil, errors.New("connection reset")
}

func (l failingLoader) Rules() availability.Rules { return l.rules }

func TestExecute_LoaderFailureIsInternal(t *testing.T) {
	store := testutil.SpaStore()
	uc := NewUseCase(store, store, failingLoader{rules: rules()}, logger.Nop()).WithTimeProvider(testutil.Clock{T: now})

	_, err := uc.Execute(context.Background(), &Request{ServiceID: ptr.Ptr(int64(1)), BranchID: 1, Date: "2025-06-10"})

	assert.ErrorIs(t, err, ErrInternal)
}
