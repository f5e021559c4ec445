package domain

// Default scheduling values
const (
	DefaultSlotStepMinutes = 30
	DefaultOvertimeMinutes = 30
	DefaultHorizonDays     = 7
	DefaultBufferMinutes   = 30
)

// Business validation constants
const (
	MaxCustomerNameLength       = 255
	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// InactiveStatuses statuses excluded from every overlap query
var InactiveStatuses = []BookingStatus{
	StatusCancelled,
}
