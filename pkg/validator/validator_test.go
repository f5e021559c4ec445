package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string `json:"customerName" validate:"required"`
	Phone string `json:"phone" validate:"required,phone"`
	Date  string `json:"date" validate:"required,date"`
	Time  string `json:"time" validate:"required,hhmm"`
}

func TestCustomValidator_Valid(t *testing.T) {
	v := NewValidator()

	err := v.Validate(sample{Name: "Anna", Phone: "+84 901 234 567", Date: "2025-06-10", Time: "09:30"})

	assert.NoError(t, err)
}

func TestCustomValidator_Messages(t *testing.T) {
	v := NewValidator()

	err := v.Validate(sample{Phone: "abc", Date: "10/06/2025", Time: "9:30"})
	require.Error(t, err)

	fields := v.FormatValidationErrors(err)
	assert.Equal(t, "customerName is required", fields["customerName"])
	assert.Equal(t, "phone must be a valid phone number", fields["phone"])
	assert.Equal(t, "date must be in YYYY-MM-DD format", fields["date"])
	assert.Equal(t, "time must be in HH:MM format", fields["time"])

	assert.Equal(t,
		"customerName is required; date must be in YYYY-MM-DD format; phone must be a valid phone number; time must be in HH:MM format",
		v.Message(err))
}
