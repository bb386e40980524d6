package schedule

import (
	"context"
	"time"
)

// TimeSlotService manages the tenant's period table used as the matching
// fallback when no concrete session covers a scan.
type TimeSlotService interface {
	ListTimeSlots(ctx context.Context, orgID string) ([]TimeSlotResponse, error)

	// ReplaceTimeSlots swaps the whole period table atomically. Overlapping
	// slots are rejected before anything is written.
	ReplaceTimeSlots(ctx context.Context, req ReplaceTimeSlotsRequest) ([]TimeSlotResponse, error)

	ListSessionsByDate(ctx context.Context, orgID string, date time.Time) ([]SessionResponse, error)
}
