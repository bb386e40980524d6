package organization

import "context"

// PolicyResolver loads per-tenant attendance settings, applying defaults when
// the tenant has no custom policy.
type PolicyResolver interface {
	Resolve(ctx context.Context, orgID string) (Policy, error)
	Update(ctx context.Context, orgID string, req UpdatePolicyRequest) (Policy, error)
}
