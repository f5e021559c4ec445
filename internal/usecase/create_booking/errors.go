package create_booking

import "errors"

var (
	// ErrServiceNotFound возвращается, когда услуга не найдена или неактивна
	ErrServiceNotFound = errors.New("create_booking: service not found")

	// ErrBranchNotFound возвращается, когда филиал не найден или закрыт
	ErrBranchNotFound = errors.New("create_booking: branch not found")

	// ErrRoomNotFound возвращается, когда указанная комната не найдена в филиале
	ErrRoomNotFound = errors.New("create_booking: room not found")

	// ErrStaffNotFound возвращается, когда указанный сотрудник не найден в филиале
	ErrStaffNotFound = errors.New("create_booking: staff not found")

	// ErrInvalidDate возвращается при некорректной дате бронирования
	ErrInvalidDate = errors.New("create_booking: invalid booking date")

	// ErrDateTooFarInFuture возвращается, когда дата дальше горизонта бронирования
	ErrDateTooFarInFuture = errors.New("create_booking: date is too far in the future")

	// ErrOutsideBusinessHours возвращается, когда услуга не помещается в часы работы филиала
	ErrOutsideBusinessHours = errors.New("create_booking: outside business hours")

	// ErrTooLateToBook возвращается, когда время начала уже прошло
	ErrTooLateToBook = errors.New("create_booking: too late to book this slot")

	// ErrNoRoomAvailable возвращается, когда нет свободной комнаты подходящего типа
	ErrNoRoomAvailable = errors.New("create_booking: no room available")

	// ErrNoStaffAvailable возвращается, когда нет свободного сотрудника на смене
	ErrNoStaffAvailable = errors.New("create_booking: no staff available")

	// ErrGateTimeout возвращается, когда не удалось дождаться очереди на запись
	ErrGateTimeout = errors.New("create_booking: booking queue is busy")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
