package organization

import "context"

type PolicyRepository interface {
	// Exists reports whether the tenant exists at all.
	Exists(ctx context.Context, orgID string) (bool, error)

	// GetPolicy returns the tenant's custom policy, or nil when none is set.
	GetPolicy(ctx context.Context, orgID string) (*Policy, error)

	// UpsertPolicy creates or replaces the tenant's policy row.
	UpsertPolicy(ctx context.Context, policy Policy) (Policy, error)
}
