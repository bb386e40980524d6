package postgresql

import (
	"context"

	"github.com/google/uuid"
	"github.com/shukketsu-app/backend-go/internal/domain/approval"
	"github.com/shukketsu-app/backend-go/internal/pkg/database"
)

type decisionRepository struct {
	db *database.DB
}

func NewDecisionRepository(db *database.DB) approval.DecisionRepository {
	return &decisionRepository{db: db}
}

// Append implements approval.DecisionRepository.
func (r *decisionRepository) Append(ctx context.Context, d approval.Decision) (approval.Decision, error) {
	q := GetQuerier(ctx, r.db)

	if d.ID == "" {
		d.ID = uuid.NewString()
	}

	err := q.QueryRow(ctx, `
		INSERT INTO request_approvals (id, request_id, approver_id, action, comment)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING decided_at
	`, d.ID, d.RequestID, d.ApproverID, d.Action, d.Comment).Scan(&d.DecidedAt)
	if err != nil {
		return approval.Decision{}, wrapErr("append decision", err)
	}

	return d, nil
}

// ListByRequest implements approval.DecisionRepository.
func (r *decisionRepository) ListByRequest(ctx context.Context, requestID string) ([]approval.Decision, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT ra.id, ra.request_id, ra.approver_id, ra.action, ra.comment, ra.decided_at, u.name
		FROM request_approvals ra
		JOIN users u ON ra.approver_id = u.id
		WHERE ra.request_id = $1
		ORDER BY ra.decided_at ASC
	`, requestID)
	if err != nil {
		return nil, wrapErr("list decisions", err)
	}
	defer rows.Close()

	var decisions []approval.Decision
	for rows.Next() {
		var d approval.Decision
		if err := rows.Scan(&d.ID, &d.RequestID, &d.ApproverID, &d.Action, &d.Comment, &d.DecidedAt, &d.ApproverName); err != nil {
			return nil, wrapErr("scan decision", err)
		}
		decisions = append(decisions, d)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("list decisions", err)
	}

	return decisions, nil
}
