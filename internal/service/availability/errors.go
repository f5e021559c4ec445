package availability

import "errors"

var (
	// ErrInvalidDate возвращается, когда дата не в формате YYYY-MM-DD
	ErrInvalidDate = errors.New("availability: invalid date")

	// ErrDateInPast возвращается, когда дата раньше сегодняшней
	ErrDateInPast = errors.New("availability: date is in the past")

	// ErrDateTooFarInFuture возвращается, когда дата дальше горизонта бронирования
	ErrDateTooFarInFuture = errors.New("availability: date is too far in the future")

	// ErrOutsideBusinessHours возвращается, когда слот не помещается в часы работы филиала
	ErrOutsideBusinessHours = errors.New("availability: slot is outside business hours")

	// ErrInvalidBranchHours возвращается, когда у филиала в каталоге некорректные часы работы
	ErrInvalidBranchHours = errors.New("availability: invalid branch hours")

	// ErrRoomNotFound возвращается, когда указанная комната не найдена среди активных комнат филиала
	ErrRoomNotFound = errors.New("availability: room not found")

	// ErrStaffNotFound возвращается, когда указанный сотрудник не найден среди активных сотрудников филиала
	ErrStaffNotFound = errors.New("availability: staff not found")

	// ErrNoRoomAvailable возвращается, когда нет комнаты подходящего типа со свободным местом
	ErrNoRoomAvailable = errors.New("availability: no room available")

	// ErrNoStaffAvailable возвращается, когда нет свободного сотрудника на смене
	ErrNoStaffAvailable = errors.New("availability: no staff available")
)
