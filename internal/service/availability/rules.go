package availability

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-SpaBookingService/internal/domain"
)

// Rules параметры расписания
type Rules struct {
	SlotStepMinutes      int
	OvertimeMinutes      int
	HorizonDays          int
	DefaultBufferMinutes int
	Location             *time.Location
}

// DefaultRules правила по умолчанию в UTC
func DefaultRules() Rules {
	return Rules{
		SlotStepMinutes:      domain.DefaultSlotStepMinutes,
		OvertimeMinutes:      domain.DefaultOvertimeMinutes,
		HorizonDays:          domain.DefaultHorizonDays,
		DefaultBufferMinutes: domain.DefaultBufferMinutes,
		Location:             time.UTC,
	}
}

func (r Rules) location() *time.Location {
	if r.Location == nil {
		return time.UTC
	}
	return r.Location
}

// ParseDate парсит YYYY-MM-DD в полночь часового пояса филиалов
func (r Rules) ParseDate(s string) (time.Time, error) {
	date, err := time.ParseInLocation(domain.DateFormat, s, r.location())
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return date, nil
}

// ValidateDate проверяет, что дата не в прошлом и не дальше горизонта.
// Ровно HorizonDays дней вперёд допустимо.
func (r Rules) ValidateDate(date, now time.Time) error {
	today := startOfDay(now.In(r.location()))
	day := startOfDay(date.In(r.location()))

	if day.Before(today) {
		return ErrDateInPast
	}

	maxDate := today.AddDate(0, 0, r.HorizonDays)
	if day.After(maxDate) {
		return fmt.Errorf("%w: can only book %d days in advance", ErrDateTooFarInFuture, r.HorizonDays)
	}

	return nil
}

// EnumerateSlots возвращает кандидатов на начало записи с шагом SlotStepMinutes
// начиная с открытия филиала. Перебор останавливается на первом кандидате,
// который заканчивается позже закрытия + OvertimeMinutes.
func (r Rules) EnumerateSlots(date time.Time, branch *domain.Branch, durationMinutes int) ([]time.Time, error) {
	if r.SlotStepMinutes <= 0 || durationMinutes <= 0 {
		return nil, nil
	}

	hours, err := branch.Hours(date, r.location())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBranchHours, err)
	}
	limit := hours.End.Add(time.Duration(r.OvertimeMinutes) * time.Minute)
	step := time.Duration(r.SlotStepMinutes) * time.Minute
	duration := time.Duration(durationMinutes) * time.Minute

	slots := make([]time.Time, 0)
	for start := hours.Start; !start.Add(duration).After(limit); start = start.Add(step) {
		slots = append(slots, start)
	}
	return slots, nil
}

// WithinHours проверяет, что слот начинается не раньше открытия
// и заканчивается не позже закрытия + OvertimeMinutes
func (r Rules) WithinHours(branch *domain.Branch, slot domain.Slot) error {
	hours, err := branch.Hours(slot.Start, r.location())
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBranchHours, err)
	}
	limit := hours.End.Add(time.Duration(r.OvertimeMinutes) * time.Minute)

	if slot.Start.Before(hours.Start) || slot.End.After(limit) {
		return fmt.Errorf("%w: %s-%s, branch works %s-%s",
			ErrOutsideBusinessHours,
			slot.Start.Format(domain.TimeFormat), slot.End.Format(domain.TimeFormat),
			branch.OpenTime, branch.CloseTime)
	}
	return nil
}

// DropStarted убирает слоты, которые уже начались
func DropStarted(slots []time.Time, now time.Time) []time.Time {
	result := make([]time.Time, 0, len(slots))
	for _, s := range slots {
		if s.After(now) {
			result = append(result, s)
		}
	}
	return result
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
