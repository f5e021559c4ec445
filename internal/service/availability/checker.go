package availability

import (
	"fmt"
	"sort"
	"time"

	"github.com/m04kA/SMC-SpaBookingService/internal/domain"
)

// Snapshot состояние ресурсов филиала на дату, прочитанное один раз за запрос.
// И предпросмотр, и создание брони работают через один и тот же предикат,
// поэтому показанный свободным слот пройдёт проверку при записи, если между
// ними ничего не изменилось.
type Snapshot struct {
	Service       *domain.Service
	BufferMinutes int
	Rooms         []*domain.Room  // по возрастанию ID
	Staff         []*domain.Staff // по возрастанию ID
	Bookings      []*domain.Booking
}

// NewSnapshot собирает снимок и упорядочивает ресурсы по ID.
// Отменённые брони отбрасываются.
func NewSnapshot(
	service *domain.Service,
	rooms []*domain.Room,
	staff []*domain.Staff,
	bookings []*domain.Booking,
	defaultBufferMinutes int,
) *Snapshot {
	sortedRooms := make([]*domain.Room, len(rooms))
	copy(sortedRooms, rooms)
	sort.SliceStable(sortedRooms, func(i, j int) bool { return sortedRooms[i].ID < sortedRooms[j].ID })

	sortedStaff := make([]*domain.Staff, len(staff))
	copy(sortedStaff, staff)
	sort.SliceStable(sortedStaff, func(i, j int) bool { return sortedStaff[i].ID < sortedStaff[j].ID })

	active := make([]*domain.Booking, 0, len(bookings))
	for _, b := range bookings {
		if b.IsActive() {
			active = append(active, b)
		}
	}

	return &Snapshot{
		Service:       service,
		BufferMinutes: service.Buffer(defaultBufferMinutes),
		Rooms:         sortedRooms,
		Staff:         sortedStaff,
		Bookings:      active,
	}
}

// SlotAt окна слота для услуги снимка
func (s *Snapshot) SlotAt(start time.Time) domain.Slot {
	return domain.NewSlot(start, s.Service.DurationMinutes, s.BufferMinutes)
}

// IsBookable есть ли одновременно свободная комната и свободный сотрудник
func (s *Snapshot) IsBookable(start time.Time) bool {
	slot := s.SlotAt(start)
	_, roomOK := s.FindRoom(slot)
	if !roomOK {
		return false
	}
	_, staffOK := s.FindStaff(slot)
	return staffOK
}

// Available фильтрует кандидатов по IsBookable, сохраняя порядок
func (s *Snapshot) Available(candidates []time.Time) []time.Time {
	result := make([]time.Time, 0, len(candidates))
	for _, c := range candidates {
		if s.IsBookable(c) {
			result = append(result, c)
		}
	}
	return result
}

// FindRoom первая по ID комната, способная принять слот
func (s *Snapshot) FindRoom(slot domain.Slot) (*domain.Room, bool) {
	for _, room := range s.Rooms {
		if s.roomFits(room, slot) {
			return room, true
		}
	}
	return nil, false
}

// FindStaff первый по ID сотрудник, свободный на слот
func (s *Snapshot) FindStaff(slot domain.Slot) (*domain.Staff, bool) {
	for _, staff := range s.Staff {
		if s.staffFits(staff, slot) {
			return staff, true
		}
	}
	return nil, false
}

// CheckRoom проверяет конкретную комнату (ручное назначение администратором)
func (s *Snapshot) CheckRoom(roomID int64, slot domain.Slot) (*domain.Room, error) {
	for _, room := range s.Rooms {
		if room.ID != roomID {
			continue
		}
		if !s.roomFits(room, slot) {
			return nil, fmt.Errorf("%w: room %q is full or of the wrong type", ErrNoRoomAvailable, room.Name)
		}
		return room, nil
	}
	return nil, fmt.Errorf("%w: id=%d", ErrRoomNotFound, roomID)
}

// CheckStaff проверяет конкретного сотрудника (ручное назначение администратором)
func (s *Snapshot) CheckStaff(staffID int64, slot domain.Slot) (*domain.Staff, error) {
	for _, staff := range s.Staff {
		if staff.ID != staffID {
			continue
		}
		if !s.staffFits(staff, slot) {
			return nil, fmt.Errorf("%w: %q is off shift or busy", ErrNoStaffAvailable, staff.Name)
		}
		return staff, nil
	}
	return nil, fmt.Errorf("%w: id=%d", ErrStaffNotFound, staffID)
}

// roomFits: активна, подходит по типу и занятых мест меньше вместимости
func (s *Snapshot) roomFits(room *domain.Room, slot domain.Slot) bool {
	if !room.Active || !room.Accepts(s.Service.RequiredRoomType) {
		return false
	}
	window := slot.Occupied()
	occupied := 0
	for _, b := range s.Bookings {
		if b.RoomID == room.ID && b.Occupied().Overlaps(window) {
			occupied++
		}
	}
	return occupied < room.Capacity
}

// staffFits: смена покрывает время услуги (без буфера),
// и нет брони, пересекающей окно занятости с буфером
func (s *Snapshot) staffFits(staff *domain.Staff, slot domain.Slot) bool {
	if !staff.Covers(slot.Service()) {
		return false
	}
	window := slot.Occupied()
	for _, b := range s.Bookings {
		if b.StaffID == staff.ID && b.Occupied().Overlaps(window) {
			return false
		}
	}
	return true
}
