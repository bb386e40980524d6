package security

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/shukketsu-app/backend-go/internal/domain/security"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testOrgID = "11111111-1111-1111-1111-111111111111"

type fakeRangeRepo struct {
	ranges  []security.IPRange
	listErr error
	nextID  int
}

func (f *fakeRangeRepo) ListActive(_ context.Context, orgID string) ([]security.IPRange, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []security.IPRange
	for _, r := range f.ranges {
		if r.OrgID == orgID && r.Active {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRangeRepo) List(_ context.Context, orgID string) ([]security.IPRange, error) {
	return f.ranges, nil
}

func (f *fakeRangeRepo) Create(_ context.Context, r security.IPRange) (security.IPRange, error) {
	f.nextID++
	r.ID = fmt.Sprintf("range-%d", f.nextID)
	r.CreatedAt = time.Now()
	r.UpdatedAt = r.CreatedAt
	f.ranges = append(f.ranges, r)
	return r, nil
}

func (f *fakeRangeRepo) GetByID(_ context.Context, id string, orgID string) (security.IPRange, error) {
	for _, r := range f.ranges {
		if r.ID == id && r.OrgID == orgID {
			return r, nil
		}
	}
	return security.IPRange{}, security.ErrRangeNotFound
}

func (f *fakeRangeRepo) Update(_ context.Context, req security.UpdateIPRangeRequest) (security.IPRange, error) {
	for i, r := range f.ranges {
		if r.ID == req.ID && r.OrgID == req.OrgID {
			if req.Start != nil {
				r.Start = *req.Start
			}
			if req.End != nil {
				r.End = *req.End
			}
			if req.Active != nil {
				r.Active = *req.Active
			}
			f.ranges[i] = r
			return r, nil
		}
	}
	return security.IPRange{}, security.ErrRangeNotFound
}

func (f *fakeRangeRepo) Delete(_ context.Context, id string, orgID string) error {
	for i, r := range f.ranges {
		if r.ID == id && r.OrgID == orgID {
			f.ranges = append(f.ranges[:i], f.ranges[i+1:]...)
			return nil
		}
	}
	return security.ErrRangeNotFound
}

type fakeLogRepo struct {
	logs []security.ScanLog
}

func (f *fakeLogRepo) Append(_ context.Context, log security.ScanLog) (security.ScanLog, error) {
	f.logs = append(f.logs, log)
	return log, nil
}

func (f *fakeLogRepo) List(_ context.Context, _ security.ScanLogFilter, _ string) ([]security.ScanLog, int64, error) {
	return f.logs, int64(len(f.logs)), nil
}

func newGate(ranges *fakeRangeRepo) security.Gate {
	return NewGate(ranges, &fakeLogRepo{}, slog.Default(), 5*time.Second)
}

func allowRange(start, end string) security.IPRange {
	return security.IPRange{
		OrgID:  testOrgID,
		Name:   "campus",
		Start:  start,
		End:    end,
		Active: true,
	}
}

func TestCheckOrigin_NoRangesMeansUnrestricted(t *testing.T) {
	gate := newGate(&fakeRangeRepo{})

	verdict := gate.CheckOrigin(context.Background(), testOrgID, "203.0.113.7")
	assert.True(t, verdict.Allowed)
	assert.Nil(t, verdict.MatchedRange)
}

func TestCheckOrigin_MatchInsideRange(t *testing.T) {
	repo := &fakeRangeRepo{}
	rg := allowRange("10.0.0.1", "10.0.0.100")
	rg.ID = "range-1"
	repo.ranges = append(repo.ranges, rg)
	gate := newGate(repo)

	verdict := gate.CheckOrigin(context.Background(), testOrgID, "10.0.0.50")
	assert.True(t, verdict.Allowed)
	require.NotNil(t, verdict.MatchedRange)
	assert.Equal(t, "range-1", verdict.MatchedRange.ID)
}

func TestCheckOrigin_BoundsInclusive(t *testing.T) {
	repo := &fakeRangeRepo{}
	repo.ranges = append(repo.ranges, allowRange("10.0.0.1", "10.0.0.100"))
	gate := newGate(repo)
	ctx := context.Background()

	assert.True(t, gate.CheckOrigin(ctx, testOrgID, "10.0.0.1").Allowed)
	assert.True(t, gate.CheckOrigin(ctx, testOrgID, "10.0.0.100").Allowed)
	assert.False(t, gate.CheckOrigin(ctx, testOrgID, "10.0.0.101").Allowed)
}

func TestCheckOrigin_InactiveRangeIgnored(t *testing.T) {
	repo := &fakeRangeRepo{}
	rg := allowRange("10.0.0.1", "10.0.0.100")
	rg.Active = false
	repo.ranges = append(repo.ranges, rg)
	gate := newGate(repo)

	// The only configured range is inactive, so no restriction applies.
	assert.True(t, gate.CheckOrigin(context.Background(), testOrgID, "192.168.1.1").Allowed)
}

func TestCheckOrigin_LookupFailureDenies(t *testing.T) {
	repo := &fakeRangeRepo{listErr: errors.New("connection refused")}
	gate := newGate(repo)

	verdict := gate.CheckOrigin(context.Background(), testOrgID, "10.0.0.50")
	assert.False(t, verdict.Allowed)
}

func TestCreateIPRange_Validation(t *testing.T) {
	gate := newGate(&fakeRangeRepo{})
	ctx := context.Background()

	_, err := gate.CreateIPRange(ctx, security.CreateIPRangeRequest{
		OrgID: testOrgID, Name: "bad", Start: "10.0.0.300", End: "10.0.0.5",
	})
	require.Error(t, err)

	_, err = gate.CreateIPRange(ctx, security.CreateIPRangeRequest{
		OrgID: testOrgID, Name: "inverted", Start: "10.0.0.100", End: "10.0.0.1",
	})
	require.Error(t, err)

	resp, err := gate.CreateIPRange(ctx, security.CreateIPRangeRequest{
		OrgID: testOrgID, Name: "campus", Start: "10.0.0.1", End: "10.0.0.100",
	})
	require.NoError(t, err)
	assert.True(t, resp.Active)
}

func TestUpdateIPRange_RejectsInvertedBounds(t *testing.T) {
	repo := &fakeRangeRepo{}
	gate := newGate(repo)
	ctx := context.Background()

	created, err := gate.CreateIPRange(ctx, security.CreateIPRangeRequest{
		OrgID: testOrgID, Name: "campus", Start: "10.0.0.1", End: "10.0.0.100",
	})
	require.NoError(t, err)

	newEnd := "10.0.0.0"
	_, err = gate.UpdateIPRange(ctx, security.UpdateIPRangeRequest{
		ID: created.ID, OrgID: testOrgID, End: &newEnd,
	})
	require.ErrorIs(t, err, security.ErrRangeInverted)
}

func TestDeleteIPRange_UnknownID(t *testing.T) {
	gate := newGate(&fakeRangeRepo{})

	err := gate.DeleteIPRange(context.Background(), "missing", testOrgID)
	require.ErrorIs(t, err, security.ErrRangeNotFound)
}
