package schedule

import (
	"context"
	"time"
)

// ClassSessionRepository reads scheduled sessions. All methods take orgID to
// prevent cross-tenant access.
type ClassSessionRepository interface {
	// GetByID retrieves a session with tenant isolation.
	GetByID(ctx context.Context, id string, orgID string) (ClassSession, error)

	// FindActive returns the earliest non-cancelled session on date whose
	// [start, end] interval contains t and in which the student is actively
	// enrolled, or nil when none matches.
	FindActive(ctx context.Context, studentID, orgID string, date time.Time, t TimeOfDay) (*ClassSession, error)

	// IsStudentEnrolled checks active roster membership for a session.
	IsStudentEnrolled(ctx context.Context, studentID, sessionID string) (bool, error)

	// ListByDate returns all sessions scheduled on date.
	ListByDate(ctx context.Context, orgID string, date time.Time) ([]ClassSession, error)
}

type TimeSlotRepository interface {
	// FindByTime returns the slot covering t, or nil when none does.
	FindByTime(ctx context.Context, orgID string, t TimeOfDay) (*TimeSlot, error)

	ListByOrg(ctx context.Context, orgID string) ([]TimeSlot, error)

	// ReplaceForOrg swaps the organization's slot table in one transaction.
	ReplaceForOrg(ctx context.Context, orgID string, slots []TimeSlot) error
}
