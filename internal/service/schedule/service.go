package schedule

import (
	"context"
	"sort"
	"time"

	"github.com/shukketsu-app/backend-go/internal/domain/schedule"
)

type TimeSlotServiceImpl struct {
	schedule.TimeSlotRepository
	schedule.ClassSessionRepository
	queryTimeout time.Duration
}

func NewTimeSlotService(
	slotRepo schedule.TimeSlotRepository,
	sessionRepo schedule.ClassSessionRepository,
	queryTimeout time.Duration,
) schedule.TimeSlotService {
	return &TimeSlotServiceImpl{
		TimeSlotRepository:     slotRepo,
		ClassSessionRepository: sessionRepo,
		queryTimeout:           queryTimeout,
	}
}

// ListTimeSlots implements schedule.TimeSlotService.
func (s *TimeSlotServiceImpl) ListTimeSlots(ctx context.Context, orgID string) ([]schedule.TimeSlotResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	slots, err := s.TimeSlotRepository.ListByOrg(ctx, orgID)
	if err != nil {
		return nil, err
	}

	resp := make([]schedule.TimeSlotResponse, 0, len(slots))
	for _, slot := range slots {
		resp = append(resp, toTimeSlotResponse(slot))
	}
	return resp, nil
}

// ReplaceTimeSlots implements schedule.TimeSlotService. The whole table is
// validated and swapped at once so a partial edit can never leave two slots
// covering the same instant.
func (s *TimeSlotServiceImpl) ReplaceTimeSlots(ctx context.Context, req schedule.ReplaceTimeSlotsRequest) ([]schedule.TimeSlotResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	slots := make([]schedule.TimeSlot, 0, len(req.Slots))
	for _, r := range req.Slots {
		start, _ := schedule.ParseTimeOfDay(r.StartTime)
		end, _ := schedule.ParseTimeOfDay(r.EndTime)
		slots = append(slots, schedule.TimeSlot{
			OrgID:        req.OrgID,
			PeriodNumber: r.PeriodNumber,
			PeriodName:   r.PeriodName,
			StartTime:    start,
			EndTime:      end,
		})
	}

	sort.Slice(slots, func(i, j int) bool { return slots[i].StartTime < slots[j].StartTime })
	for i := 1; i < len(slots); i++ {
		// Bounds are inclusive, so touching endpoints overlap too.
		if slots[i].StartTime <= slots[i-1].EndTime {
			return nil, schedule.ErrSlotOverlap
		}
	}

	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	if err := s.TimeSlotRepository.ReplaceForOrg(ctx, req.OrgID, slots); err != nil {
		return nil, err
	}

	stored, err := s.TimeSlotRepository.ListByOrg(ctx, req.OrgID)
	if err != nil {
		return nil, err
	}

	resp := make([]schedule.TimeSlotResponse, 0, len(stored))
	for _, slot := range stored {
		resp = append(resp, toTimeSlotResponse(slot))
	}
	return resp, nil
}

// ListSessionsByDate implements schedule.TimeSlotService.
func (s *TimeSlotServiceImpl) ListSessionsByDate(ctx context.Context, orgID string, date time.Time) ([]schedule.SessionResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	sessions, err := s.ClassSessionRepository.ListByDate(ctx, orgID, date)
	if err != nil {
		return nil, err
	}

	resp := make([]schedule.SessionResponse, 0, len(sessions))
	for _, session := range sessions {
		resp = append(resp, schedule.SessionResponse{
			ID:          session.ID,
			SubjectName: session.SubjectName,
			TeacherName: session.TeacherName,
			Room:        session.Room,
			Date:        session.Date.Format("2006-01-02"),
			StartTime:   session.StartTime.String(),
			EndTime:     session.EndTime.String(),
			Cancelled:   session.Cancelled,
		})
	}
	return resp, nil
}

func toTimeSlotResponse(slot schedule.TimeSlot) schedule.TimeSlotResponse {
	return schedule.TimeSlotResponse{
		ID:           slot.ID,
		PeriodNumber: slot.PeriodNumber,
		PeriodName:   slot.PeriodName,
		StartTime:    slot.StartTime.String(),
		EndTime:      slot.EndTime.String(),
	}
}
