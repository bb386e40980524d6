package approval

import (
	"context"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/shukketsu-app/backend-go/internal/domain/approval"
	"github.com/shukketsu-app/backend-go/internal/domain/attendance"
	"github.com/shukketsu-app/backend-go/internal/domain/notification"
	"github.com/shukketsu-app/backend-go/internal/domain/schedule"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testOrgID      = "11111111-1111-1111-1111-111111111111"
	testStudentID  = "22222222-2222-2222-2222-222222222222"
	testApproverID = "44444444-4444-4444-4444-444444444444"
)

type fakeRequests struct {
	requests map[string]approval.AbsenceRequest
	nextID   int
}

func newFakeRequests() *fakeRequests {
	return &fakeRequests{requests: make(map[string]approval.AbsenceRequest)}
}

func (f *fakeRequests) Create(_ context.Context, req approval.AbsenceRequest) (approval.AbsenceRequest, error) {
	f.nextID++
	req.ID = fmt.Sprintf("req-%d", f.nextID)
	req.Status = approval.StatusPending
	req.SubmittedAt = time.Now()
	req.UpdatedAt = req.SubmittedAt
	f.requests[req.ID] = req
	return req, nil
}

func (f *fakeRequests) GetByID(_ context.Context, id string, orgID string) (approval.AbsenceRequest, error) {
	req, ok := f.requests[id]
	if !ok || req.OrgID != orgID {
		return approval.AbsenceRequest{}, approval.ErrRequestNotFound
	}
	return req, nil
}

func (f *fakeRequests) FindPendingByKey(_ context.Context, orgID, studentID string, sessionID *string, date time.Time) (*approval.AbsenceRequest, error) {
	for _, req := range f.requests {
		if req.OrgID != orgID || req.StudentID != studentID || req.Status != approval.StatusPending {
			continue
		}
		if sessionID != nil {
			if req.SessionID != nil && *req.SessionID == *sessionID {
				r := req
				return &r, nil
			}
			continue
		}
		if req.SessionID == nil && req.Date.Equal(date) {
			r := req
			return &r, nil
		}
	}
	return nil, nil
}

func (f *fakeRequests) UpdateStatus(_ context.Context, id string, from, to approval.RequestStatus) (bool, error) {
	req, ok := f.requests[id]
	if !ok || req.Status != from {
		return false, nil
	}
	req.Status = to
	req.UpdatedAt = time.Now()
	f.requests[id] = req
	return true, nil
}

func (f *fakeRequests) List(_ context.Context, filter approval.RequestFilter, orgID string) ([]approval.AbsenceRequest, int64, error) {
	var out []approval.AbsenceRequest
	for _, req := range f.requests {
		if req.OrgID != orgID {
			continue
		}
		if filter.Status != nil && req.Status != *filter.Status {
			continue
		}
		out = append(out, req)
	}
	return out, int64(len(out)), nil
}

type fakeDecisions struct {
	decisions []approval.Decision
}

func (f *fakeDecisions) Append(_ context.Context, d approval.Decision) (approval.Decision, error) {
	d.ID = fmt.Sprintf("dec-%d", len(f.decisions)+1)
	d.DecidedAt = time.Now()
	f.decisions = append(f.decisions, d)
	return d, nil
}

func (f *fakeDecisions) ListByRequest(_ context.Context, requestID string) ([]approval.Decision, error) {
	var out []approval.Decision
	for _, d := range f.decisions {
		if d.RequestID == requestID {
			out = append(out, d)
		}
	}
	return out, nil
}

type fakeLedger struct {
	records map[string]attendance.Record
	nextID  int
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{records: make(map[string]attendance.Record)}
}

func ledgerKey(orgID, studentID string, sessionID *string, logicalDate time.Time) string {
	if sessionID != nil {
		return fmt.Sprintf("%s/%s/s:%s", orgID, studentID, *sessionID)
	}
	return fmt.Sprintf("%s/%s/d:%s", orgID, studentID, logicalDate.Format("2006-01-02"))
}

func (f *fakeLedger) Upsert(_ context.Context, rec attendance.Record) (attendance.Record, error) {
	key := ledgerKey(rec.OrgID, rec.StudentID, rec.SessionID, rec.LogicalDate)
	if existing, ok := f.records[key]; ok {
		if !attendance.TakesPrecedence(rec.Origin, existing.Origin) {
			return existing, nil
		}
		rec.ID = existing.ID
		f.records[key] = rec
		return rec, nil
	}
	f.nextID++
	rec.ID = fmt.Sprintf("rec-%d", f.nextID)
	f.records[key] = rec
	return rec, nil
}

func (f *fakeLedger) GetByKey(_ context.Context, orgID, studentID string, sessionID *string, logicalDate time.Time) (*attendance.Record, error) {
	if rec, ok := f.records[ledgerKey(orgID, studentID, sessionID, logicalDate)]; ok {
		return &rec, nil
	}
	return nil, nil
}

func (f *fakeLedger) GetByID(_ context.Context, id string, orgID string) (attendance.Record, error) {
	for _, rec := range f.records {
		if rec.ID == id && rec.OrgID == orgID {
			return rec, nil
		}
	}
	return attendance.Record{}, attendance.ErrRecordNotFound
}

func (f *fakeLedger) List(_ context.Context, _ attendance.ListFilter, orgID string) ([]attendance.Record, int64, error) {
	return nil, 0, nil
}

type fakeSessions struct {
	enrolled map[string]bool
}

func (f *fakeSessions) GetByID(_ context.Context, id string, orgID string) (schedule.ClassSession, error) {
	return schedule.ClassSession{ID: id, OrgID: orgID}, nil
}

func (f *fakeSessions) FindActive(_ context.Context, _, _ string, _ time.Time, _ schedule.TimeOfDay) (*schedule.ClassSession, error) {
	return nil, nil
}

func (f *fakeSessions) IsStudentEnrolled(_ context.Context, studentID, sessionID string) (bool, error) {
	return f.enrolled[studentID+"/"+sessionID], nil
}

func (f *fakeSessions) ListByDate(_ context.Context, _ string, _ time.Time) ([]schedule.ClassSession, error) {
	return nil, nil
}

type fakeDispatcher struct {
	events []notification.Event
}

func (f *fakeDispatcher) Dispatch(_ context.Context, event notification.Event) {
	f.events = append(f.events, event)
}

type approvalFixture struct {
	requests   *fakeRequests
	decisions  *fakeDecisions
	ledger     *fakeLedger
	dispatcher *fakeDispatcher
	service    approval.Service
}

func newApprovalFixture() *approvalFixture {
	f := &approvalFixture{
		requests:   newFakeRequests(),
		decisions:  &fakeDecisions{},
		ledger:     newFakeLedger(),
		dispatcher: &fakeDispatcher{},
	}
	f.service = NewService(
		nil, f.requests, f.decisions, f.ledger,
		&fakeSessions{enrolled: map[string]bool{}},
		f.dispatcher, slog.Default(), 5*time.Second,
	)
	return f
}

func submitReq() approval.SubmitRequestRequest {
	return approval.SubmitRequestRequest{
		OrgID:     testOrgID,
		StudentID: testStudentID,
		Type:      string(approval.TypeOfficialAbsence),
		Date:      "2026-03-02",
		Reason:    "School representative duty",
	}
}

func TestSubmitRequest(t *testing.T) {
	ctx := context.Background()
	f := newApprovalFixture()

	resp, err := f.service.SubmitRequest(ctx, submitReq())
	require.NoError(t, err)

	assert.Equal(t, string(approval.StatusPending), resp.Status)
	assert.Equal(t, "2026-03-02", resp.Date)
}

func TestSubmitRequest_DuplicatePendingRejected(t *testing.T) {
	ctx := context.Background()
	f := newApprovalFixture()

	_, err := f.service.SubmitRequest(ctx, submitReq())
	require.NoError(t, err)

	_, err = f.service.SubmitRequest(ctx, submitReq())
	require.ErrorIs(t, err, approval.ErrDuplicateRequest)
}

func TestSubmitRequest_AllowsResubmitAfterRejection(t *testing.T) {
	ctx := context.Background()
	f := newApprovalFixture()

	first, err := f.service.SubmitRequest(ctx, submitReq())
	require.NoError(t, err)

	_, err = f.service.Decide(ctx, approval.DecideRequestRequest{
		RequestID:  first.ID,
		OrgID:      testOrgID,
		ApproverID: testApproverID,
		Action:     approval.ActionReject,
	})
	require.NoError(t, err)

	_, err = f.service.SubmitRequest(ctx, submitReq())
	require.NoError(t, err)
}

func TestDecide_ApproveWritesLedgerWithApprovalOrigin(t *testing.T) {
	ctx := context.Background()
	f := newApprovalFixture()

	created, err := f.service.SubmitRequest(ctx, submitReq())
	require.NoError(t, err)

	resp, err := f.service.Decide(ctx, approval.DecideRequestRequest{
		RequestID:  created.ID,
		OrgID:      testOrgID,
		ApproverID: testApproverID,
		Action:     approval.ActionApprove,
	})
	require.NoError(t, err)

	assert.Equal(t, string(approval.StatusApproved), resp.Status)
	require.NotNil(t, resp.NewStatus)
	assert.Equal(t, attendance.StatusExcused, *resp.NewStatus)

	rec, err := f.ledger.GetByKey(ctx, testOrgID, testStudentID, nil, time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, attendance.OriginApproval, rec.Origin)
	assert.Equal(t, attendance.StatusExcused, rec.Status)

	require.Len(t, f.decisions.decisions, 1)
	require.Len(t, f.dispatcher.events, 1)
	assert.Equal(t, notification.TypeApproval, f.dispatcher.events[0].Type)
}

func TestDecide_ApprovalOverwritesEarlierScan(t *testing.T) {
	ctx := context.Background()
	f := newApprovalFixture()

	checkIn := time.Date(2026, 3, 2, 9, 20, 0, 0, time.UTC)
	_, err := f.ledger.Upsert(ctx, attendance.Record{
		OrgID:       testOrgID,
		StudentID:   testStudentID,
		LogicalDate: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		Status:      attendance.StatusLate,
		Origin:      attendance.OriginAutomaticScan,
		CheckInTime: &checkIn,
	})
	require.NoError(t, err)

	created, err := f.service.SubmitRequest(ctx, submitReq())
	require.NoError(t, err)

	_, err = f.service.Decide(ctx, approval.DecideRequestRequest{
		RequestID:  created.ID,
		OrgID:      testOrgID,
		ApproverID: testApproverID,
		Action:     approval.ActionApprove,
	})
	require.NoError(t, err)

	rec, err := f.ledger.GetByKey(ctx, testOrgID, testStudentID, nil, time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, attendance.OriginApproval, rec.Origin)
	assert.Equal(t, attendance.StatusExcused, rec.Status)
}

func TestDecide_RejectLeavesLedgerUntouched(t *testing.T) {
	ctx := context.Background()
	f := newApprovalFixture()

	created, err := f.service.SubmitRequest(ctx, submitReq())
	require.NoError(t, err)

	resp, err := f.service.Decide(ctx, approval.DecideRequestRequest{
		RequestID:  created.ID,
		OrgID:      testOrgID,
		ApproverID: testApproverID,
		Action:     approval.ActionReject,
	})
	require.NoError(t, err)

	assert.Equal(t, string(approval.StatusRejected), resp.Status)
	assert.Nil(t, resp.NewStatus)
	assert.Empty(t, f.ledger.records)
	require.Len(t, f.dispatcher.events, 1)
	assert.Equal(t, notification.TypeRejection, f.dispatcher.events[0].Type)
}

func TestDecide_ResolvedRequestCannotBeDecidedAgain(t *testing.T) {
	ctx := context.Background()
	f := newApprovalFixture()

	created, err := f.service.SubmitRequest(ctx, submitReq())
	require.NoError(t, err)

	decide := approval.DecideRequestRequest{
		RequestID:  created.ID,
		OrgID:      testOrgID,
		ApproverID: testApproverID,
		Action:     approval.ActionApprove,
	}
	_, err = f.service.Decide(ctx, decide)
	require.NoError(t, err)

	_, err = f.service.Decide(ctx, decide)
	require.ErrorIs(t, err, approval.ErrInvalidTransition)
}

func TestCancelRequest_OwnerOnly(t *testing.T) {
	ctx := context.Background()
	f := newApprovalFixture()

	created, err := f.service.SubmitRequest(ctx, submitReq())
	require.NoError(t, err)

	err = f.service.CancelRequest(ctx, created.ID, "someone-else", testOrgID)
	require.ErrorIs(t, err, approval.ErrNotRequestOwner)

	err = f.service.CancelRequest(ctx, created.ID, testStudentID, testOrgID)
	require.NoError(t, err)

	got, err := f.service.GetRequest(ctx, created.ID, testOrgID)
	require.NoError(t, err)
	assert.Equal(t, string(approval.StatusCancelled), got.Status)
}

func TestCancelRequest_ResolvedRequestCannotBeCancelled(t *testing.T) {
	ctx := context.Background()
	f := newApprovalFixture()

	created, err := f.service.SubmitRequest(ctx, submitReq())
	require.NoError(t, err)

	_, err = f.service.Decide(ctx, approval.DecideRequestRequest{
		RequestID:  created.ID,
		OrgID:      testOrgID,
		ApproverID: testApproverID,
		Action:     approval.ActionApprove,
	})
	require.NoError(t, err)

	err = f.service.CancelRequest(ctx, created.ID, testStudentID, testOrgID)
	require.ErrorIs(t, err, approval.ErrInvalidTransition)
}

func TestSubmitRequest_ValidationFailures(t *testing.T) {
	ctx := context.Background()
	f := newApprovalFixture()

	req := submitReq()
	req.Type = "vacation"
	_, err := f.service.SubmitRequest(ctx, req)
	require.Error(t, err)

	req = submitReq()
	req.Date = "03/02/2026"
	_, err = f.service.SubmitRequest(ctx, req)
	require.Error(t, err)

	req = submitReq()
	req.Reason = ""
	_, err = f.service.SubmitRequest(ctx, req)
	require.Error(t, err)
}
