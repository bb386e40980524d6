package attendance

import (
	"time"

	"github.com/shukketsu-app/backend-go/internal/domain/schedule"
)

// LogicalDate maps a physical timestamp to the attendance calendar date.
// Timestamps strictly before the rollover clock time belong to the previous
// day; the rollover instant itself belongs to the new day. A 23:50 event and
// a 00:10 event land on the same attendance date this way.
func LogicalDate(ts time.Time, rollover schedule.TimeOfDay) time.Time {
	day := time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, ts.Location())
	if schedule.TimeOfDayOf(ts) < rollover {
		day = day.AddDate(0, 0, -1)
	}
	return day
}

// ClassifyCheckIn compares the event time against the session start and the
// grace period. The boundary at exactly graceMinutes is inclusive: present.
// Early check-ins (negative delta) are present.
func ClassifyCheckIn(eventTime, sessionStart time.Time, graceMinutes int) Status {
	delta := eventTime.Sub(sessionStart)
	if delta <= time.Duration(graceMinutes)*time.Minute {
		return StatusPresent
	}
	return StatusLate
}

// TakesPrecedence reports whether a write with the incoming origin may
// overwrite an existing row with the given origin. A human approval is never
// silently clobbered by a later automatic scan. The postgres ledger mirrors
// this predicate in its upsert condition; keep the two in sync.
func TakesPrecedence(incoming, existing Origin) bool {
	return !(existing == OriginApproval && incoming == OriginAutomaticScan)
}
