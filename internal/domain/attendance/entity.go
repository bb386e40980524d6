package attendance

import (
	"time"
)

// Status is the classified attendance outcome.
type Status string

const (
	StatusPresent        Status = "present"
	StatusLate           Status = "late"
	StatusAbsent         Status = "absent"
	StatusExcused        Status = "excused"
	StatusEarlyDeparture Status = "early_departure"
)

// Origin records which component produced a status value. It decides
// overwrite precedence in the ledger.
type Origin string

const (
	OriginAutomaticScan Origin = "automatic_scan"
	OriginApproval      Origin = "approval"
)

// Record is the persisted classification outcome. At most one record exists
// per (student, session) — or per (student, logical date) when no session
// matched the event.
type Record struct {
	ID           string
	OrgID        string
	StudentID    string
	SessionID    *string
	LogicalDate  time.Time
	Status       Status
	Origin       Origin
	CheckInTime  *time.Time
	CheckOutTime *time.Time
	Notes        *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
