package organization

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/shukketsu-app/backend-go/internal/domain/organization"
	"github.com/shukketsu-app/backend-go/internal/domain/schedule"
	"github.com/shukketsu-app/backend-go/internal/pkg/cache"
)

type PolicyResolverImpl struct {
	organization.PolicyRepository
	cache        *cache.Redis
	cacheTTL     time.Duration
	logger       *slog.Logger
	queryTimeout time.Duration
}

func NewPolicyResolver(
	policyRepo organization.PolicyRepository,
	redis *cache.Redis,
	cacheTTL time.Duration,
	logger *slog.Logger,
	queryTimeout time.Duration,
) organization.PolicyResolver {
	return &PolicyResolverImpl{
		PolicyRepository: policyRepo,
		cache:            redis,
		cacheTTL:         cacheTTL,
		logger:           logger,
		queryTimeout:     queryTimeout,
	}
}

type cachedPolicy struct {
	GraceMinutes int    `json:"grace_minutes"`
	RolloverTime string `json:"rollover_time"`
}

func policyCacheKey(orgID string) string {
	return "policy:" + orgID
}

// Resolve implements organization.PolicyResolver. The cache is best-effort:
// a miss or a cache failure falls through to the store, and an organization
// without a custom policy resolves to the defaults.
func (s *PolicyResolverImpl) Resolve(ctx context.Context, orgID string) (organization.Policy, error) {
	if raw, ok := s.cache.Get(ctx, policyCacheKey(orgID)); ok {
		var cached cachedPolicy
		if err := json.Unmarshal([]byte(raw), &cached); err == nil {
			rollover, rErr := schedule.ParseTimeOfDay(cached.RolloverTime)
			if rErr == nil {
				return organization.Policy{
					OrgID:        orgID,
					GraceMinutes: cached.GraceMinutes,
					RolloverTime: rollover,
				}, nil
			}
		}
		s.cache.Delete(ctx, policyCacheKey(orgID))
	}

	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	exists, err := s.PolicyRepository.Exists(ctx, orgID)
	if err != nil {
		return organization.Policy{}, fmt.Errorf("failed to check organization: %w", err)
	}
	if !exists {
		return organization.Policy{}, organization.ErrOrganizationNotFound
	}

	policy, err := s.PolicyRepository.GetPolicy(ctx, orgID)
	if err != nil {
		return organization.Policy{}, fmt.Errorf("failed to get organization policy: %w", err)
	}

	resolved := organization.DefaultPolicy(orgID)
	if policy != nil {
		resolved = *policy
	}

	s.cachePolicy(ctx, resolved)
	return resolved, nil
}

// Update implements organization.PolicyResolver.
func (s *PolicyResolverImpl) Update(ctx context.Context, orgID string, req organization.UpdatePolicyRequest) (organization.Policy, error) {
	if err := req.Validate(); err != nil {
		return organization.Policy{}, err
	}

	rollover, err := schedule.ParseTimeOfDay(req.RolloverTime)
	if err != nil {
		return organization.Policy{}, fmt.Errorf("failed to parse rollover time: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	exists, err := s.PolicyRepository.Exists(ctx, orgID)
	if err != nil {
		return organization.Policy{}, fmt.Errorf("failed to check organization: %w", err)
	}
	if !exists {
		return organization.Policy{}, organization.ErrOrganizationNotFound
	}

	updated, err := s.PolicyRepository.UpsertPolicy(ctx, organization.Policy{
		OrgID:        orgID,
		GraceMinutes: req.GraceMinutes,
		RolloverTime: rollover,
	})
	if err != nil {
		return organization.Policy{}, fmt.Errorf("failed to upsert organization policy: %w", err)
	}

	// Stale entries would serve the old grace window until expiry.
	s.cache.Delete(ctx, policyCacheKey(orgID))
	s.cachePolicy(ctx, updated)

	return updated, nil
}

func (s *PolicyResolverImpl) cachePolicy(ctx context.Context, p organization.Policy) {
	raw, err := json.Marshal(cachedPolicy{
		GraceMinutes: p.GraceMinutes,
		RolloverTime: p.RolloverTime.String(),
	})
	if err != nil {
		return
	}
	s.cache.Set(ctx, policyCacheKey(p.OrgID), string(raw), s.cacheTTL)
}
