package schedule

import (
	"time"
)

// TimeSlot is a tenant-scoped recurring period definition. Slots within one
// organization must not overlap; at most one slot matches a given instant.
type TimeSlot struct {
	ID           string
	OrgID        string
	PeriodNumber int
	PeriodName   string
	StartTime    TimeOfDay
	EndTime      TimeOfDay
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Covers reports whether t falls inside the slot, bounds inclusive.
func (s TimeSlot) Covers(t TimeOfDay) bool {
	return s.StartTime <= t && t <= s.EndTime
}

// ClassSession is one scheduled occurrence of a subject on a concrete date.
// Sessions are owned by the scheduling subsystem and only read here.
type ClassSession struct {
	ID          string
	OrgID       string
	SubjectID   string
	SubjectName string
	TeacherName string
	Room        string
	GroupID     string
	Date        time.Time
	StartTime   TimeOfDay
	EndTime     TimeOfDay
	Cancelled   bool
}
