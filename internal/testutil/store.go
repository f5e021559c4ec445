// Package testutil содержит in-memory реализации репозиториев для тестов.
package testutil

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/m04kA/SMC-SpaBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-SpaBookingService/internal/infra/storage/booking"
	catalogRepo "github.com/m04kA/SMC-SpaBookingService/internal/infra/storage/catalog"
)

// Store in-memory замена catalog и booking репозиториев с теми же sentinel-ошибками
type Store struct {
	mu sync.Mutex

	services []*domain.Service
	branches []*domain.Branch
	rooms    []*domain.Room
	staff    []*domain.Staff
	bookings []*domain.Booking
	nextID   int64

	// ReadDelay имитирует задержку чтения броней, чтобы расширить окно гонки
	ReadDelay time.Duration
	// FailCreate заставляет Create вернуть ошибку
	FailCreate error
}

func NewStore() *Store {
	return &Store{nextID: 1}
}

func (s *Store) AddService(svc *domain.Service) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.services = append(s.services, svc)
	return s
}

func (s *Store) AddBranch(b *domain.Branch) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.branches = append(s.branches, b)
	return s
}

func (s *Store) AddRoom(r *domain.Room) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rooms = append(s.rooms, r)
	return s
}

func (s *Store) AddStaff(st *domain.Staff) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.staff = append(s.staff, st)
	return s
}

// Bookings копия всех броней
func (s *Store) Bookings() []domain.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Booking, 0, len(s.bookings))
	for _, b := range s.bookings {
		out = append(out, *b)
	}
	return out
}

// --- catalog ---

func (s *Store) GetServiceByID(ctx context.Context, id int64) (*domain.Service, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, svc := range s.services {
		if svc.ID == id {
			c := *svc
			return &c, nil
		}
	}
	return nil, catalogRepo.ErrServiceNotFound
}

func (s *Store) GetServiceByName(ctx context.Context, name string) (*domain.Service, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, svc := range s.services {
		if strings.EqualFold(svc.Name, name) {
			c := *svc
			return &c, nil
		}
	}
	return nil, catalogRepo.ErrServiceNotFound
}

func (s *Store) GetBranchByID(ctx context.Context, id int64) (*domain.Branch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.branches {
		if b.ID == id {
			c := *b
			return &c, nil
		}
	}
	return nil, catalogRepo.ErrBranchNotFound
}

func (s *Store) GetActiveRoomsByBranch(ctx context.Context, branchID int64) ([]*domain.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*domain.Room, 0)
	for _, r := range s.rooms {
		if r.BranchID == branchID && r.Active {
			c := *r
			out = append(out, &c)
		}
	}
	return out, nil
}

func (s *Store) GetActiveStaffByBranch(ctx context.Context, branchID int64) ([]*domain.Staff, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*domain.Staff, 0)
	for _, st := range s.staff {
		if st.BranchID == branchID && st.Active {
			c := *st
			c.Shifts = append([]domain.Shift(nil), st.Shifts...)
			out = append(out, &c)
		}
	}
	return out, nil
}

// --- bookings ---

func (s *Store) Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailCreate != nil {
		return nil, s.FailCreate
	}
	now := time.Now()
	b.ID = s.nextID
	b.CreatedAt = now
	b.UpdatedAt = now
	s.nextID++
	c := *b
	s.bookings = append(s.bookings, &c)
	return b, nil
}

func (s *Store) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.bookings {
		if b.ID == id {
			c := *b
			return &c, nil
		}
	}
	return nil, bookingRepo.ErrBookingNotFound
}

func (s *Store) List(ctx context.Context, f domain.BookingsFilter) ([]*domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*domain.Booking, 0)
	for _, b := range s.bookings {
		if f.Phone != nil && b.Phone != *f.Phone {
			continue
		}
		if f.BranchID != nil && b.BranchID != *f.BranchID {
			continue
		}
		if f.From != nil && b.StartTime.Before(*f.From) {
			continue
		}
		if f.To != nil && !b.StartTime.Before(*f.To) {
			continue
		}
		if f.Status != nil && b.Status != *f.Status {
			continue
		}
		c := *b
		out = append(out, &c)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].StartTime.After(out[j].StartTime) })
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (s *Store) GetActiveByBranchAndRange(ctx context.Context, branchID int64, from, to time.Time) ([]*domain.Booking, error) {
	if s.ReadDelay > 0 {
		time.Sleep(s.ReadDelay)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	window := domain.Interval{Start: from, End: to}
	out := make([]*domain.Booking, 0)
	for _, b := range s.bookings {
		if b.BranchID != branchID || !b.IsActive() || !b.Occupied().Overlaps(window) {
			continue
		}
		c := *b
		out = append(out, &c)
	}
	return out, nil
}

func (s *Store) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.bookings {
		if b.ID == id {
			b.Status = status
			b.UpdatedAt = time.Now()
			return nil
		}
	}
	return bookingRepo.ErrBookingNotFound
}

func (s *Store) Cancel(ctx context.Context, id int64, reason *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.bookings {
		if b.ID == id {
			now := time.Now()
			b.Status = domain.StatusCancelled
			b.CancellationReason = reason
			b.CancelledAt = &now
			b.UpdatedAt = now
			return nil
		}
	}
	return bookingRepo.ErrBookingNotFound
}
