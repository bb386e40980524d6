package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shukketsu-app/backend-go/internal/domain/organization"
	"github.com/shukketsu-app/backend-go/internal/domain/schedule"
	"github.com/shukketsu-app/backend-go/internal/pkg/database"
)

type policyRepository struct {
	db *database.DB
}

func NewPolicyRepository(db *database.DB) organization.PolicyRepository {
	return &policyRepository{db: db}
}

// Exists implements organization.PolicyRepository.
func (r *policyRepository) Exists(ctx context.Context, orgID string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	err := q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM organizations WHERE id = $1)`, orgID).Scan(&exists)
	if err != nil {
		return false, wrapErr("check organization exists", err)
	}
	return exists, nil
}

// GetPolicy implements organization.PolicyRepository.
func (r *policyRepository) GetPolicy(ctx context.Context, orgID string) (*organization.Policy, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT organization_id, grace_minutes, rollover_time, updated_at
		FROM organization_policies
		WHERE organization_id = $1
	`

	var p organization.Policy
	var rollover string
	err := q.QueryRow(ctx, query, orgID).Scan(&p.OrgID, &p.GraceMinutes, &rollover, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr("get organization policy", err)
	}

	p.RolloverTime, err = schedule.ParseTimeOfDay(rollover)
	if err != nil {
		return nil, fmt.Errorf("malformed rollover_time for organization %s: %w", orgID, err)
	}

	return &p, nil
}

// UpsertPolicy implements organization.PolicyRepository.
func (r *policyRepository) UpsertPolicy(ctx context.Context, policy organization.Policy) (organization.Policy, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO organization_policies (organization_id, grace_minutes, rollover_time)
		VALUES ($1, $2, $3)
		ON CONFLICT (organization_id) DO UPDATE SET
			grace_minutes = EXCLUDED.grace_minutes,
			rollover_time = EXCLUDED.rollover_time,
			updated_at = NOW()
		RETURNING updated_at
	`

	err := q.QueryRow(ctx, query, policy.OrgID, policy.GraceMinutes, policy.RolloverTime.String()).Scan(&policy.UpdatedAt)
	if err != nil {
		return organization.Policy{}, wrapErr("upsert organization policy", err)
	}

	return policy, nil
}
