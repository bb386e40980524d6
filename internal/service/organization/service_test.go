package organization

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/shukketsu-app/backend-go/internal/domain/organization"
	"github.com/shukketsu-app/backend-go/internal/domain/schedule"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testOrgID = "11111111-1111-1111-1111-111111111111"

type fakePolicyRepo struct {
	orgs     map[string]bool
	policies map[string]organization.Policy
	getCalls int
}

func newFakePolicyRepo() *fakePolicyRepo {
	return &fakePolicyRepo{
		orgs:     map[string]bool{testOrgID: true},
		policies: map[string]organization.Policy{},
	}
}

func (f *fakePolicyRepo) Exists(_ context.Context, orgID string) (bool, error) {
	return f.orgs[orgID], nil
}

func (f *fakePolicyRepo) GetPolicy(_ context.Context, orgID string) (*organization.Policy, error) {
	f.getCalls++
	if p, ok := f.policies[orgID]; ok {
		return &p, nil
	}
	return nil, nil
}

func (f *fakePolicyRepo) UpsertPolicy(_ context.Context, policy organization.Policy) (organization.Policy, error) {
	policy.UpdatedAt = time.Now()
	f.policies[policy.OrgID] = policy
	return policy, nil
}

func newResolver(repo *fakePolicyRepo) organization.PolicyResolver {
	// nil redis wrapper: every cache call is a no-op miss.
	return NewPolicyResolver(repo, nil, time.Minute, slog.Default(), 5*time.Second)
}

func TestResolve_DefaultsWhenNoCustomPolicy(t *testing.T) {
	ctx := context.Background()
	repo := newFakePolicyRepo()

	policy, err := newResolver(repo).Resolve(ctx, testOrgID)
	require.NoError(t, err)

	assert.Equal(t, organization.DefaultGraceMinutes, policy.GraceMinutes)
	assert.Equal(t, organization.DefaultRolloverTime, policy.RolloverTime)
}

func TestResolve_CustomPolicy(t *testing.T) {
	ctx := context.Background()
	repo := newFakePolicyRepo()
	repo.policies[testOrgID] = organization.Policy{
		OrgID:        testOrgID,
		GraceMinutes: 5,
		RolloverTime: schedule.NewTimeOfDay(5, 30, 0),
	}

	policy, err := newResolver(repo).Resolve(ctx, testOrgID)
	require.NoError(t, err)

	assert.Equal(t, 5, policy.GraceMinutes)
	assert.Equal(t, schedule.NewTimeOfDay(5, 30, 0), policy.RolloverTime)
}

func TestResolve_UnknownOrganization(t *testing.T) {
	ctx := context.Background()
	repo := newFakePolicyRepo()

	_, err := newResolver(repo).Resolve(ctx, "99999999-9999-9999-9999-999999999999")
	require.ErrorIs(t, err, organization.ErrOrganizationNotFound)
}

func TestUpdate_PersistsAndResolves(t *testing.T) {
	ctx := context.Background()
	repo := newFakePolicyRepo()
	resolver := newResolver(repo)

	updated, err := resolver.Update(ctx, testOrgID, organization.UpdatePolicyRequest{
		GraceMinutes: 0,
		RolloverTime: "05:00",
	})
	require.NoError(t, err)
	assert.Equal(t, 0, updated.GraceMinutes)
	assert.Equal(t, schedule.NewTimeOfDay(5, 0, 0), updated.RolloverTime)

	resolved, err := resolver.Resolve(ctx, testOrgID)
	require.NoError(t, err)
	assert.Equal(t, 0, resolved.GraceMinutes)
}

func TestUpdate_Validation(t *testing.T) {
	ctx := context.Background()
	resolver := newResolver(newFakePolicyRepo())

	_, err := resolver.Update(ctx, testOrgID, organization.UpdatePolicyRequest{
		GraceMinutes: -1,
		RolloverTime: "04:00",
	})
	require.Error(t, err)

	_, err = resolver.Update(ctx, testOrgID, organization.UpdatePolicyRequest{
		GraceMinutes: 10,
		RolloverTime: "25:00",
	})
	require.Error(t, err)
}
