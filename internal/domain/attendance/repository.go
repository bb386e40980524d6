package attendance

import (
	"context"
	"time"
)

// LedgerRepository is the single write path for attendance records. The
// uniqueness key is (student, session) or (student, logical date) for
// session-less records.
type LedgerRepository interface {
	// Upsert writes the classification result for the record's key, updating
	// the existing row on conflict. The precedence rule applies inside the
	// upsert itself: an automatic_scan write never replaces an approval row.
	// The returned record is the row as stored after the call, which may be
	// the untouched approval row.
	Upsert(ctx context.Context, rec Record) (Record, error)

	// GetByKey fetches the record for a (student, session-or-date) key, or
	// nil when none exists.
	GetByKey(ctx context.Context, orgID, studentID string, sessionID *string, logicalDate time.Time) (*Record, error)

	GetByID(ctx context.Context, id string, orgID string) (Record, error)

	List(ctx context.Context, filter ListFilter, orgID string) ([]Record, int64, error)
}
