package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeOfDay(t *testing.T) {
	t.Parallel()
	tod, err := ParseTimeOfDay("04:00:00")
	require.NoError(t, err)
	assert.Equal(t, NewTimeOfDay(4, 0, 0), tod)

	tod, err = ParseTimeOfDay("09:15")
	require.NoError(t, err)
	assert.Equal(t, NewTimeOfDay(9, 15, 0), tod)

	_, err = ParseTimeOfDay("24:00")
	assert.Error(t, err)

	_, err = ParseTimeOfDay("")
	assert.Error(t, err)
}

func TestTimeOfDayString(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "04:00:00", NewTimeOfDay(4, 0, 0).String())
	assert.Equal(t, "23:59:59", NewTimeOfDay(23, 59, 59).String())
}

func TestTimeOfDayAt(t *testing.T) {
	t.Parallel()
	d := time.Date(2025, 4, 2, 0, 0, 0, 0, time.UTC)
	at := NewTimeOfDay(9, 30, 0).At(d)
	assert.Equal(t, time.Date(2025, 4, 2, 9, 30, 0, 0, time.UTC), at)
}

func TestTimeSlotCovers(t *testing.T) {
	t.Parallel()
	slot := TimeSlot{StartTime: NewTimeOfDay(9, 0, 0), EndTime: NewTimeOfDay(10, 30, 0)}

	assert.True(t, slot.Covers(NewTimeOfDay(9, 0, 0)))
	assert.True(t, slot.Covers(NewTimeOfDay(10, 30, 0)))
	assert.True(t, slot.Covers(NewTimeOfDay(9, 45, 0)))
	assert.False(t, slot.Covers(NewTimeOfDay(8, 59, 59)))
	assert.False(t, slot.Covers(NewTimeOfDay(10, 30, 1)))
}
