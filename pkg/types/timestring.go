package types

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"time"
)

const layout = "15:04"

var (
	// ErrInvalidFormat возвращается, когда строка не в формате HH:MM
	ErrInvalidFormat = errors.New("invalid time string format")
)

// TimeString время суток в формате HH:MM (например, "09:30").
// Хранится как строка, чтобы без преобразований ходить между JSON, TOML и колонками TIME.
type TimeString string

// NewTimeString берёт часы и минуты из time.Time
func NewTimeString(t time.Time) TimeString {
	return TimeString(t.Format(layout))
}

// NewTimeStringFromString парсит строку HH:MM
func NewTimeStringFromString(s string) (TimeString, error) {
	t, err := time.Parse(layout, s)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidFormat, s)
	}
	return TimeString(t.Format(layout)), nil
}

func (t TimeString) String() string {
	return string(t)
}

func (t TimeString) IsZero() bool {
	return t == ""
}

// Validate проверяет формат HH:MM
func (t TimeString) Validate() error {
	_, err := time.Parse(layout, string(t))
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidFormat, string(t))
	}
	return nil
}

// Minutes возвращает количество минут от полуночи.
// Для некорректного значения возвращает -1.
func (t TimeString) Minutes() int {
	parsed, err := time.Parse(layout, string(t))
	if err != nil {
		return -1
	}
	return parsed.Hour()*60 + parsed.Minute()
}

// IsBefore сравнивает время суток; некорректные значения считаются раньше любых корректных
func (t TimeString) IsBefore(other TimeString) bool {
	return t.Minutes() < other.Minutes()
}

// On возвращает момент с этим временем на часах в указанную дату и часовом поясе.
// Собирается из полей даты, а не сдвигом от полуночи, поэтому в дни перевода часов
// 09:00 остаётся 09:00.
func (t TimeString) On(date time.Time, loc *time.Location) (time.Time, error) {
	m := t.Minutes()
	if m < 0 {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidFormat, string(t))
	}
	y, mo, d := date.Date()
	return time.Date(y, mo, d, m/60, m%60, 0, 0, loc), nil
}

// Scan реализует sql.Scanner для колонок TIME / TEXT
func (t *TimeString) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*t = ""
		return nil
	case time.Time:
		*t = NewTimeString(v)
		return nil
	case []byte:
		return t.scanString(string(v))
	case string:
		return t.scanString(v)
	default:
		return fmt.Errorf("%w: unsupported type %T", ErrInvalidFormat, src)
	}
}

// postgres отдаёт TIME как "HH:MM:SS"
func (t *TimeString) scanString(s string) error {
	if len(s) >= 5 {
		s = s[:5]
	}
	parsed, err := NewTimeStringFromString(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Value реализует driver.Valuer
func (t TimeString) Value() (driver.Value, error) {
	if t.IsZero() {
		return nil, nil
	}
	return string(t), nil
}
