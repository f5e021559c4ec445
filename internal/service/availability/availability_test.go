package availability

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SpaBookingService/internal/domain"
	"github.com/m04kA/SMC-SpaBookingService/pkg/ptr"
)

// 2025-06-10 - вторник
var day = time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)

func at(hhmm string) time.Time {
	t, err := time.Parse(domain.TimeFormat, hhmm)
	if err != nil {
		panic(err)
	}
	return day.Add(time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute)
}

func formatAll(slots []time.Time) []string {
	out := make([]string, 0, len(slots))
	for _, s := range slots {
		out = append(out, s.Format(domain.TimeFormat))
	}
	return out
}

func branch() *domain.Branch {
	return &domain.Branch{ID: 1, Name: "Central", OpenTime: "09:00", CloseTime: "18:00", Active: true}
}

func service() *domain.Service {
	return &domain.Service{ID: 1, Name: "Thai massage", DurationMinutes: 60, BufferMinutes: ptr.Ptr(30), RequiredRoomType: "massage", Active: true}
}

func fullShift() []domain.Shift {
	shifts := make([]domain.Shift, 0, 7)
	for d := 0; d < 7; d++ {
		shifts = append(shifts, domain.Shift{DayOfWeek: d, StartTime: "09:00", EndTime: "18:00"})
	}
	return shifts
}

func enumerate(t *testing.T, rules Rules, b *domain.Branch) []time.Time {
	t.Helper()
	slots, err := rules.EnumerateSlots(day, b, 60)
	require.NoError(t, err)
	return slots
}

func noOvertime() Rules {
	r := DefaultRules()
	r.OvertimeMinutes = 0
	return r
}

func TestEnumerateSlots_NoOvertime(t *testing.T) {
	slots, err := noOvertime().EnumerateSlots(day, branch(), 60)
	require.NoError(t, err)

	require.Len(t, slots, 17)
	assert.Equal(t, "09:00", slots[0].Format(domain.TimeFormat))
	assert.Equal(t, "17:00", slots[len(slots)-1].Format(domain.TimeFormat))
}

func TestEnumerateSlots_WithOvertime(t *testing.T) {
	slots, err := DefaultRules().EnumerateSlots(day, branch(), 60)
	require.NoError(t, err)

	assert.Equal(t, "17:30", slots[len(slots)-1].Format(domain.TimeFormat))
}

func TestEnumerateSlots_LongServiceDoesNotFit(t *testing.T) {
	b := &domain.Branch{OpenTime: "09:00", CloseTime: "10:00"}

	slots, err := noOvertime().EnumerateSlots(day, b, 90)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestEnumerateSlots_DaylightSavingDays(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	rules := noOvertime()
	rules.Location = ny

	for _, d := range []string{"2025-03-08", "2025-03-09", "2025-11-02"} {
		date, err := rules.ParseDate(d)
		require.NoError(t, err)

		slots, err := rules.EnumerateSlots(date, branch(), 60)
		require.NoError(t, err)

		require.Len(t, slots, 17, d)
		assert.Equal(t, "09:00", slots[0].Format(domain.TimeFormat), d)
		last := slots[len(slots)-1]
		assert.Equal(t, "17:00", last.Format(domain.TimeFormat), d)
		assert.Equal(t, "18:00", last.Add(time.Hour).Format(domain.TimeFormat), d)

		assert.NoError(t, rules.WithinHours(branch(), domain.NewSlot(last, 60, 30)), d)
		assert.ErrorIs(t, rules.WithinHours(branch(), domain.NewSlot(last.Add(30*time.Minute), 60, 30)),
			ErrOutsideBusinessHours, d)
	}
}

func TestEnumerateSlots_InvalidBranchHours(t *testing.T) {
	b := &domain.Branch{ID: 7, OpenTime: "09:00", CloseTime: "late"}

	_, err := noOvertime().EnumerateSlots(day, b, 60)
	assert.ErrorIs(t, err, ErrInvalidBranchHours)

	assert.ErrorIs(t, noOvertime().WithinHours(b, domain.NewSlot(at("10:00"), 60, 30)), ErrInvalidBranchHours)
}

func TestRules_ValidateDate(t *testing.T) {
	rules := DefaultRules()
	now := time.Date(2025, 6, 10, 15, 0, 0, 0, time.UTC)

	assert.NoError(t, rules.ValidateDate(day, now))
	assert.NoError(t, rules.ValidateDate(day.AddDate(0, 0, 7), now), "exactly 7 days ahead is allowed")
	assert.ErrorIs(t, rules.ValidateDate(day.AddDate(0, 0, 8), now), ErrDateTooFarInFuture)
	assert.ErrorIs(t, rules.ValidateDate(day.AddDate(0, 0, -1), now), ErrDateInPast)
}

func TestRules_ParseDate(t *testing.T) {
	rules := DefaultRules()

	d, err := rules.ParseDate("2025-06-10")
	require.NoError(t, err)
	assert.Equal(t, day, d)

	_, err = rules.ParseDate("10.06.2025")
	assert.ErrorIs(t, err, ErrInvalidDate)

	_, err = rules.ParseDate("2025-02-30")
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestRules_WithinHours(t *testing.T) {
	rules := noOvertime()

	assert.NoError(t, rules.WithinHours(branch(), domain.NewSlot(at("17:00"), 60, 30)))
	assert.ErrorIs(t, rules.WithinHours(branch(), domain.NewSlot(at("17:30"), 60, 30)), ErrOutsideBusinessHours)
	assert.ErrorIs(t, rules.WithinHours(branch(), domain.NewSlot(at("08:30"), 60, 30)), ErrOutsideBusinessHours)
}

func TestDropStarted(t *testing.T) {
	slots := []time.Time{at("09:00"), at("09:30"), at("10:00")}

	got := DropStarted(slots, at("09:30"))

	assert.Equal(t, []string{"10:00"}, formatAll(got))
}

func TestSnapshot_Scenario1_EmptyDay(t *testing.T) {
	rooms := []*domain.Room{{ID: 1, Name: "A1", Type: "massage", Capacity: 1, Active: true}}
	staff := []*domain.Staff{{ID: 1, Name: "Linh", Active: true, Shifts: fullShift()}}
	snap := NewSnapshot(service(), rooms, staff, nil, 30)

	got := snap.Available(enumerate(t, noOvertime(), branch()))

	assert.Equal(t, "09:00", got[0].Format(domain.TimeFormat))
	assert.Equal(t, "17:00", got[len(got)-1].Format(domain.TimeFormat))
	assert.Len(t, got, 17)
}

func TestSnapshot_Scenario2_BufferBlocksUntilOccupiedEnd(t *testing.T) {
	rooms := []*domain.Room{{ID: 1, Name: "A1", Type: "massage", Capacity: 1, Active: true}}
	staff := []*domain.Staff{{ID: 1, Name: "Linh", Active: true, Shifts: fullShift()}}
	bookings := []*domain.Booking{{
		ID: 1, RoomID: 1, StaffID: 1, Status: domain.StatusPending,
		StartTime: at("09:00"), EndTime: at("10:00"), BufferMinutes: 30,
	}}
	snap := NewSnapshot(service(), rooms, staff, bookings, 30)

	got := formatAll(snap.Available(enumerate(t, noOvertime(), branch())))

	assert.NotContains(t, got, "09:00")
	assert.NotContains(t, got, "09:30")
	assert.NotContains(t, got, "10:00")
	assert.Equal(t, "10:30", got[0])
}

func TestSnapshot_CapacityCountsOverlaps(t *testing.T) {
	rooms := []*domain.Room{{ID: 1, Name: "Couple", Type: "massage", Capacity: 2, Active: true}}
	staff := []*domain.Staff{
		{ID: 1, Name: "Linh", Active: true, Shifts: fullShift()},
		{ID: 2, Name: "Mai", Active: true, Shifts: fullShift()},
		{ID: 3, Name: "Hoa", Active: true, Shifts: fullShift()},
	}
	bookings := []*domain.Booking{
		{RoomID: 1, StaffID: 1, Status: domain.StatusConfirmed, StartTime: at("10:00"), EndTime: at("11:00"), BufferMinutes: 30},
	}
	snap := NewSnapshot(service(), rooms, staff, bookings, 30)

	assert.True(t, snap.IsBookable(at("10:00")), "one of two places is free")

	snap.Bookings = append(snap.Bookings, &domain.Booking{
		RoomID: 1, StaffID: 2, Status: domain.StatusConfirmed, StartTime: at("10:00"), EndTime: at("11:00"), BufferMinutes: 30,
	})
	assert.False(t, snap.IsBookable(at("10:00")), "room is full")
	assert.True(t, snap.IsBookable(at("11:30")))
}

func TestSnapshot_CancelledBookingsIgnored(t *testing.T) {
	rooms := []*domain.Room{{ID: 1, Type: "massage", Capacity: 1, Active: true}}
	staff := []*domain.Staff{{ID: 1, Active: true, Shifts: fullShift()}}
	bookings := []*domain.Booking{
		{RoomID: 1, StaffID: 1, Status: domain.StatusCancelled, StartTime: at("10:00"), EndTime: at("11:00"), BufferMinutes: 30},
	}
	snap := NewSnapshot(service(), rooms, staff, bookings, 30)

	assert.True(t, snap.IsBookable(at("10:00")))
}

func TestSnapshot_RoomTypeAndActive(t *testing.T) {
	rooms := []*domain.Room{
		{ID: 1, Type: "sauna", Capacity: 5, Active: true},
		{ID: 2, Type: "massage", Capacity: 1, Active: false},
	}
	staff := []*domain.Staff{{ID: 1, Active: true, Shifts: fullShift()}}
	snap := NewSnapshot(service(), rooms, staff, nil, 30)

	assert.False(t, snap.IsBookable(at("10:00")))

	anyRoom := service()
	anyRoom.RequiredRoomType = ""
	snap = NewSnapshot(anyRoom, rooms, staff, nil, 30)
	room, ok := snap.FindRoom(snap.SlotAt(at("10:00")))
	require.True(t, ok)
	assert.Equal(t, int64(1), room.ID)
}

func TestSnapshot_StaffBusyOrOffShift(t *testing.T) {
	rooms := []*domain.Room{{ID: 1, Type: "massage", Capacity: 3, Active: true}}
	staff := []*domain.Staff{{ID: 1, Active: true, Shifts: []domain.Shift{
		{DayOfWeek: int(time.Tuesday), StartTime: "12:00", EndTime: "16:00"},
	}}}
	bookings := []*domain.Booking{
		{RoomID: 1, StaffID: 1, Status: domain.StatusPending, StartTime: at("13:00"), EndTime: at("14:00"), BufferMinutes: 30},
	}
	snap := NewSnapshot(service(), rooms, staff, bookings, 30)

	assert.False(t, snap.IsBookable(at("10:00")), "before shift")
	assert.False(t, snap.IsBookable(at("12:00")), "buffer of new booking hits existing one")
	assert.False(t, snap.IsBookable(at("14:00")), "existing buffer until 14:30")
	assert.True(t, snap.IsBookable(at("14:30")))
	assert.True(t, snap.IsBookable(at("15:00")), "shift covers service time, buffer may exceed shift")
	assert.False(t, snap.IsBookable(at("15:30")))
}

func TestSnapshot_DeterministicPick(t *testing.T) {
	rooms := []*domain.Room{
		{ID: 7, Type: "massage", Capacity: 1, Active: true},
		{ID: 3, Type: "massage", Capacity: 1, Active: true},
	}
	staff := []*domain.Staff{
		{ID: 9, Active: true, Shifts: fullShift()},
		{ID: 4, Active: true, Shifts: fullShift()},
	}
	snap := NewSnapshot(service(), rooms, staff, nil, 30)
	slot := snap.SlotAt(at("10:00"))

	room, ok := snap.FindRoom(slot)
	require.True(t, ok)
	assert.Equal(t, int64(3), room.ID)

	member, ok := snap.FindStaff(slot)
	require.True(t, ok)
	assert.Equal(t, int64(4), member.ID)
}

func TestSnapshot_CheckOverrides(t *testing.T) {
	rooms := []*domain.Room{
		{ID: 1, Name: "A1", Type: "massage", Capacity: 1, Active: true},
		{ID: 2, Name: "A2", Type: "massage", Capacity: 1, Active: true},
	}
	staff := []*domain.Staff{
		{ID: 1, Name: "Linh", Active: true, Shifts: fullShift()},
		{ID: 2, Name: "Mai", Active: true, Shifts: fullShift()},
	}
	bookings := []*domain.Booking{
		{RoomID: 2, StaffID: 2, Status: domain.StatusPending, StartTime: at("10:00"), EndTime: at("11:00"), BufferMinutes: 30},
	}
	snap := NewSnapshot(service(), rooms, staff, bookings, 30)
	slot := snap.SlotAt(at("10:00"))

	room, err := snap.CheckRoom(1, slot)
	require.NoError(t, err)
	assert.Equal(t, "A1", room.Name)

	_, err = snap.CheckRoom(2, slot)
	assert.ErrorIs(t, err, ErrNoRoomAvailable)

	_, err = snap.CheckRoom(42, slot)
	assert.ErrorIs(t, err, ErrRoomNotFound)

	_, err = snap.CheckStaff(2, slot)
	assert.ErrorIs(t, err, ErrNoStaffAvailable)

	_, err = snap.CheckStaff(42, slot)
	assert.ErrorIs(t, err, ErrStaffNotFound)
}
