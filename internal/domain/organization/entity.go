package organization

import (
	"time"

	"github.com/shukketsu-app/backend-go/internal/domain/schedule"
)

const (
	// DefaultGraceMinutes applies when an organization has no custom policy row.
	DefaultGraceMinutes = 15
)

// DefaultRolloverTime is 04:00 — timestamps before it belong to the previous
// attendance date.
var DefaultRolloverTime = schedule.NewTimeOfDay(4, 0, 0)

// Policy holds the per-tenant attendance settings read on every classification.
type Policy struct {
	OrgID        string
	GraceMinutes int
	RolloverTime schedule.TimeOfDay
	UpdatedAt    time.Time
}

// DefaultPolicy returns the implicit policy for a tenant without a custom row.
func DefaultPolicy(orgID string) Policy {
	return Policy{
		OrgID:        orgID,
		GraceMinutes: DefaultGraceMinutes,
		RolloverTime: DefaultRolloverTime,
	}
}
