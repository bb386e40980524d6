package attendance

import (
	"testing"
	"time"

	"github.com/shukketsu-app/backend-go/internal/domain/schedule"
	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestLogicalDate_BeforeRollover(t *testing.T) {
	t.Parallel()
	rollover := schedule.NewTimeOfDay(4, 0, 0)

	// 03:59 belongs to the previous attendance date.
	ts := time.Date(2025, 4, 2, 3, 59, 0, 0, time.UTC)
	assert.Equal(t, date(2025, 4, 1), LogicalDate(ts, rollover))

	// one second before the boundary still the previous day
	ts = time.Date(2025, 4, 2, 3, 59, 59, 0, time.UTC)
	assert.Equal(t, date(2025, 4, 1), LogicalDate(ts, rollover))

	// midnight exactly
	ts = time.Date(2025, 4, 2, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, date(2025, 4, 1), LogicalDate(ts, rollover))
}

func TestLogicalDate_AtOrAfterRollover(t *testing.T) {
	t.Parallel()
	rollover := schedule.NewTimeOfDay(4, 0, 0)

	// the rollover instant belongs to the new day
	ts := time.Date(2025, 4, 2, 4, 0, 0, 0, time.UTC)
	assert.Equal(t, date(2025, 4, 2), LogicalDate(ts, rollover))

	ts = time.Date(2025, 4, 2, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, date(2025, 4, 2), LogicalDate(ts, rollover))

	ts = time.Date(2025, 4, 2, 23, 50, 0, 0, time.UTC)
	assert.Equal(t, date(2025, 4, 2), LogicalDate(ts, rollover))
}

func TestLogicalDate_NightSessionSpansMidnight(t *testing.T) {
	t.Parallel()
	rollover := schedule.NewTimeOfDay(4, 0, 0)

	// a 23:50 event and a 00:10 event land on the same attendance date
	before := time.Date(2025, 4, 1, 23, 50, 0, 0, time.UTC)
	after := time.Date(2025, 4, 2, 0, 10, 0, 0, time.UTC)
	assert.Equal(t, LogicalDate(before, rollover), LogicalDate(after, rollover))
}

func TestLogicalDate_MonthBoundary(t *testing.T) {
	t.Parallel()
	rollover := schedule.NewTimeOfDay(4, 0, 0)

	ts := time.Date(2025, 5, 1, 1, 0, 0, 0, time.UTC)
	assert.Equal(t, date(2025, 4, 30), LogicalDate(ts, rollover))
}

func TestClassifyCheckIn_Early(t *testing.T) {
	t.Parallel()
	start := time.Date(2025, 4, 2, 9, 0, 0, 0, time.UTC)

	assert.Equal(t, StatusPresent, ClassifyCheckIn(start.Add(-30*time.Minute), start, 15))
	assert.Equal(t, StatusPresent, ClassifyCheckIn(start, start, 15))
}

func TestClassifyCheckIn_GraceBoundary(t *testing.T) {
	t.Parallel()
	start := time.Date(2025, 4, 2, 9, 0, 0, 0, time.UTC)

	// exactly at the grace limit is inclusive: present
	assert.Equal(t, StatusPresent, ClassifyCheckIn(start.Add(15*time.Minute), start, 15))
	// one second over is late
	assert.Equal(t, StatusLate, ClassifyCheckIn(start.Add(15*time.Minute+time.Second), start, 15))
}

func TestClassifyCheckIn_Scenario(t *testing.T) {
	t.Parallel()
	// grace=15min, session start 09:00: 09:14:59 present, 09:15:01 late
	start := time.Date(2025, 4, 2, 9, 0, 0, 0, time.UTC)

	scan := time.Date(2025, 4, 2, 9, 14, 59, 0, time.UTC)
	assert.Equal(t, StatusPresent, ClassifyCheckIn(scan, start, 15))

	scan = time.Date(2025, 4, 2, 9, 15, 1, 0, time.UTC)
	assert.Equal(t, StatusLate, ClassifyCheckIn(scan, start, 15))
}

func TestClassifyCheckIn_ZeroGrace(t *testing.T) {
	t.Parallel()
	start := time.Date(2025, 4, 2, 9, 0, 0, 0, time.UTC)

	assert.Equal(t, StatusPresent, ClassifyCheckIn(start, start, 0))
	assert.Equal(t, StatusLate, ClassifyCheckIn(start.Add(time.Second), start, 0))
}

func TestTakesPrecedence(t *testing.T) {
	t.Parallel()
	// an automatic scan never downgrades an approval
	assert.False(t, TakesPrecedence(OriginAutomaticScan, OriginApproval))

	assert.True(t, TakesPrecedence(OriginApproval, OriginAutomaticScan))
	assert.True(t, TakesPrecedence(OriginApproval, OriginApproval))
	assert.True(t, TakesPrecedence(OriginAutomaticScan, OriginAutomaticScan))
}
