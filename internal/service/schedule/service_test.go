package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shukketsu-app/backend-go/internal/domain/schedule"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testOrgID = "11111111-1111-1111-1111-111111111111"

type fakeSlotRepo struct {
	slots []schedule.TimeSlot
}

func (f *fakeSlotRepo) FindByTime(_ context.Context, orgID string, t schedule.TimeOfDay) (*schedule.TimeSlot, error) {
	for i, s := range f.slots {
		if s.OrgID == orgID && s.Covers(t) {
			return &f.slots[i], nil
		}
	}
	return nil, nil
}

func (f *fakeSlotRepo) ListByOrg(_ context.Context, orgID string) ([]schedule.TimeSlot, error) {
	return f.slots, nil
}

func (f *fakeSlotRepo) ReplaceForOrg(_ context.Context, orgID string, slots []schedule.TimeSlot) error {
	for i := range slots {
		if slots[i].ID == "" {
			slots[i].ID = uuid.NewString()
		}
	}
	f.slots = slots
	return nil
}

type fakeSessionRepo struct {
	sessions []schedule.ClassSession
}

func (f *fakeSessionRepo) GetByID(_ context.Context, id string, orgID string) (schedule.ClassSession, error) {
	return schedule.ClassSession{}, schedule.ErrSessionNotFound
}

func (f *fakeSessionRepo) FindActive(_ context.Context, _, _ string, _ time.Time, _ schedule.TimeOfDay) (*schedule.ClassSession, error) {
	return nil, nil
}

func (f *fakeSessionRepo) IsStudentEnrolled(_ context.Context, _, _ string) (bool, error) {
	return false, nil
}

func (f *fakeSessionRepo) ListByDate(_ context.Context, orgID string, date time.Time) ([]schedule.ClassSession, error) {
	return f.sessions, nil
}

func slotReq(n int, name, start, end string) schedule.TimeSlotRequest {
	return schedule.TimeSlotRequest{PeriodNumber: n, PeriodName: name, StartTime: start, EndTime: end}
}

func TestReplaceTimeSlots(t *testing.T) {
	ctx := context.Background()
	repo := &fakeSlotRepo{}
	svc := NewTimeSlotService(repo, &fakeSessionRepo{}, 5*time.Second)

	slots, err := svc.ReplaceTimeSlots(ctx, schedule.ReplaceTimeSlotsRequest{
		OrgID: testOrgID,
		Slots: []schedule.TimeSlotRequest{
			slotReq(1, "Period 1", "08:00", "08:50"),
			slotReq(2, "Period 2", "09:00", "09:50"),
		},
	})
	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.Equal(t, "08:00:00", slots[0].StartTime)
}

func TestReplaceTimeSlots_OverlapRejected(t *testing.T) {
	ctx := context.Background()
	repo := &fakeSlotRepo{}
	svc := NewTimeSlotService(repo, &fakeSessionRepo{}, 5*time.Second)

	_, err := svc.ReplaceTimeSlots(ctx, schedule.ReplaceTimeSlotsRequest{
		OrgID: testOrgID,
		Slots: []schedule.TimeSlotRequest{
			slotReq(1, "Period 1", "08:00", "09:00"),
			slotReq(2, "Period 2", "08:30", "09:50"),
		},
	})
	require.ErrorIs(t, err, schedule.ErrSlotOverlap)
	assert.Empty(t, repo.slots)
}

func TestReplaceTimeSlots_TouchingEndpointsOverlap(t *testing.T) {
	ctx := context.Background()
	svc := NewTimeSlotService(&fakeSlotRepo{}, &fakeSessionRepo{}, 5*time.Second)

	// Bounds are inclusive, so a slot starting exactly where the previous
	// one ends covers the shared instant twice.
	_, err := svc.ReplaceTimeSlots(ctx, schedule.ReplaceTimeSlotsRequest{
		OrgID: testOrgID,
		Slots: []schedule.TimeSlotRequest{
			slotReq(1, "Period 1", "08:00", "08:50"),
			slotReq(2, "Period 2", "08:50", "09:40"),
		},
	})
	require.ErrorIs(t, err, schedule.ErrSlotOverlap)
}

func TestReplaceTimeSlots_Validation(t *testing.T) {
	ctx := context.Background()
	svc := NewTimeSlotService(&fakeSlotRepo{}, &fakeSessionRepo{}, 5*time.Second)

	_, err := svc.ReplaceTimeSlots(ctx, schedule.ReplaceTimeSlotsRequest{
		OrgID: testOrgID,
		Slots: []schedule.TimeSlotRequest{slotReq(1, "Period 1", "09:00", "08:00")},
	})
	require.Error(t, err)

	_, err = svc.ReplaceTimeSlots(ctx, schedule.ReplaceTimeSlotsRequest{
		OrgID: testOrgID,
		Slots: []schedule.TimeSlotRequest{slotReq(0, "", "08:00", "08:50")},
	})
	require.Error(t, err)
}
