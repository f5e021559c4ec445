package types

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeStringFromString(t *testing.T) {
	ts, err := NewTimeStringFromString("09:30")
	require.NoError(t, err)
	assert.Equal(t, "09:30", ts.String())
	assert.Equal(t, 570, ts.Minutes())

	_, err = NewTimeStringFromString("9h30")
	assert.ErrorIs(t, err, ErrInvalidFormat)

	_, err = NewTimeStringFromString("25:00")
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestTimeString_IsBefore(t *testing.T) {
	assert.True(t, TimeString("09:00").IsBefore("09:30"))
	assert.False(t, TimeString("18:00").IsBefore("17:59"))
	assert.False(t, TimeString("10:00").IsBefore("10:00"))
}

func TestTimeString_On(t *testing.T) {
	loc := time.FixedZone("ICT", 7*60*60)
	date := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)

	got, err := TimeString("09:15").On(date, loc)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2025, 6, 10, 9, 15, 0, 0, loc), got)
}

func TestTimeString_On_DaylightSavingDays(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	for _, date := range []time.Time{
		time.Date(2025, 3, 9, 0, 0, 0, 0, ny),  // переход на летнее время
		time.Date(2025, 11, 2, 0, 0, 0, 0, ny), // возврат на зимнее
	} {
		open, err := TimeString("09:00").On(date, ny)
		require.NoError(t, err)
		closing, err := TimeString("18:00").On(date, ny)
		require.NoError(t, err)

		assert.Equal(t, "09:00", open.Format(layout), date.Format("2006-01-02"))
		assert.Equal(t, "18:00", closing.Format(layout), date.Format("2006-01-02"))
		assert.Equal(t, 9*time.Hour, closing.Sub(open))
	}
}

func TestTimeString_On_Invalid(t *testing.T) {
	date := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)

	_, err := TimeString("9h").On(date, time.UTC)
	assert.ErrorIs(t, err, ErrInvalidFormat)

	_, err = TimeString("").On(date, time.UTC)
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestTimeString_Scan(t *testing.T) {
	var ts TimeString

	require.NoError(t, ts.Scan([]byte("18:00:00")))
	assert.Equal(t, TimeString("18:00"), ts)

	require.NoError(t, ts.Scan(time.Date(0, 1, 1, 8, 5, 0, 0, time.UTC)))
	assert.Equal(t, TimeString("08:05"), ts)

	require.NoError(t, ts.Scan(nil))
	assert.True(t, ts.IsZero())

	assert.Error(t, ts.Scan(42))
}
