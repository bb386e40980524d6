package approval

import (
	"context"
	"time"
)

type AbsenceRequestRepository interface {
	Create(ctx context.Context, req AbsenceRequest) (AbsenceRequest, error)

	GetByID(ctx context.Context, id string, orgID string) (AbsenceRequest, error)

	// FindPendingByKey returns an unresolved request for the same
	// (student, session-or-date) key, or nil. Drives duplicate detection.
	FindPendingByKey(ctx context.Context, orgID, studentID string, sessionID *string, date time.Time) (*AbsenceRequest, error)

	// UpdateStatus moves a request out of pending. Implementations must
	// guard the transition: the update applies only while the row is still
	// pending, and reports whether it did.
	UpdateStatus(ctx context.Context, id string, from, to RequestStatus) (bool, error)

	List(ctx context.Context, filter RequestFilter, orgID string) ([]AbsenceRequest, int64, error)
}

// DecisionRepository is append-only; decisions are never mutated.
type DecisionRepository interface {
	Append(ctx context.Context, d Decision) (Decision, error)
	ListByRequest(ctx context.Context, requestID string) ([]Decision, error)
}
