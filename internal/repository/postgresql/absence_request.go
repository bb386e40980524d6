package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shukketsu-app/backend-go/internal/domain/approval"
	"github.com/shukketsu-app/backend-go/internal/pkg/database"
)

type absenceRequestRepository struct {
	db *database.DB
}

func NewAbsenceRequestRepository(db *database.DB) approval.AbsenceRequestRepository {
	return &absenceRequestRepository{db: db}
}

const requestColumns = `ar.id, ar.org_id, ar.student_id, ar.session_id, ar.request_type,
	   ar.request_date, ar.reason, ar.attachment_url, ar.status, ar.submitted_at, ar.updated_at`

func scanRequest(row pgx.Row) (approval.AbsenceRequest, error) {
	var req approval.AbsenceRequest
	err := row.Scan(
		&req.ID, &req.OrgID, &req.StudentID, &req.SessionID, &req.Type,
		&req.Date, &req.Reason, &req.AttachmentURL, &req.Status, &req.SubmittedAt, &req.UpdatedAt,
	)
	return req, err
}

// Create implements approval.AbsenceRequestRepository.
func (r *absenceRequestRepository) Create(ctx context.Context, req approval.AbsenceRequest) (approval.AbsenceRequest, error) {
	q := GetQuerier(ctx, r.db)

	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	req.Status = approval.StatusPending

	query := `
		INSERT INTO absence_requests (id, org_id, student_id, session_id, request_type, request_date, reason, attachment_url, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING submitted_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		req.ID, req.OrgID, req.StudentID, req.SessionID, req.Type,
		req.Date, req.Reason, req.AttachmentURL, req.Status,
	).Scan(&req.SubmittedAt, &req.UpdatedAt)
	if err != nil {
		return approval.AbsenceRequest{}, wrapErr("create absence request", err)
	}

	return req, nil
}

// GetByID implements approval.AbsenceRequestRepository.
func (r *absenceRequestRepository) GetByID(ctx context.Context, id string, orgID string) (approval.AbsenceRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s, st.name, subj.subject_name
		FROM absence_requests ar
		JOIN students st ON ar.student_id = st.id
		LEFT JOIN class_sessions cs ON ar.session_id = cs.id
		LEFT JOIN subjects subj ON cs.subject_id = subj.id
		WHERE ar.id = $1 AND ar.org_id = $2
	`, requestColumns)

	var req approval.AbsenceRequest
	err := q.QueryRow(ctx, query, id, orgID).Scan(
		&req.ID, &req.OrgID, &req.StudentID, &req.SessionID, &req.Type,
		&req.Date, &req.Reason, &req.AttachmentURL, &req.Status, &req.SubmittedAt, &req.UpdatedAt,
		&req.StudentName, &req.SubjectName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return approval.AbsenceRequest{}, approval.ErrRequestNotFound
		}
		return approval.AbsenceRequest{}, wrapErr("get absence request", err)
	}
	return req, nil
}

// FindPendingByKey implements approval.AbsenceRequestRepository.
func (r *absenceRequestRepository) FindPendingByKey(ctx context.Context, orgID, studentID string, sessionID *string, date time.Time) (*approval.AbsenceRequest, error) {
	q := GetQuerier(ctx, r.db)

	var row pgx.Row
	if sessionID != nil {
		query := fmt.Sprintf(`
			SELECT %s FROM absence_requests ar
			WHERE ar.org_id = $1 AND ar.student_id = $2 AND ar.session_id = $3 AND ar.status = 'pending'
			LIMIT 1
		`, requestColumns)
		row = q.QueryRow(ctx, query, orgID, studentID, *sessionID)
	} else {
		query := fmt.Sprintf(`
			SELECT %s FROM absence_requests ar
			WHERE ar.org_id = $1 AND ar.student_id = $2 AND ar.session_id IS NULL AND ar.request_date = $3 AND ar.status = 'pending'
			LIMIT 1
		`, requestColumns)
		row = q.QueryRow(ctx, query, orgID, studentID, date)
	}

	req, err := scanRequest(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr("find pending absence request", err)
	}
	return &req, nil
}

// UpdateStatus implements approval.AbsenceRequestRepository.
//
// The transition guard lives in the statement itself: the row only changes
// while it is still in the expected state, so two racing deciders cannot both
// resolve the same request.
func (r *absenceRequestRepository) UpdateStatus(ctx context.Context, id string, from, to approval.RequestStatus) (bool, error) {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE absence_requests
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3
	`, to, id, from)
	if err != nil {
		return false, wrapErr("update absence request status", err)
	}
	return tag.RowsAffected() == 1, nil
}

// List implements approval.AbsenceRequestRepository.
func (r *absenceRequestRepository) List(ctx context.Context, filter approval.RequestFilter, orgID string) ([]approval.AbsenceRequest, int64, error) {
	q := GetQuerier(ctx, r.db)

	where := []string{"ar.org_id = $1"}
	args := []interface{}{orgID}

	if filter.StudentID != nil {
		args = append(args, *filter.StudentID)
		where = append(where, fmt.Sprintf("ar.student_id = $%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		where = append(where, fmt.Sprintf("ar.status = $%d", len(args)))
	}

	whereClause := strings.Join(where, " AND ")

	var total int64
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM absence_requests ar WHERE %s`, whereClause)
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, wrapErr("count absence requests", err)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	page := filter.Page
	if page <= 0 {
		page = 1
	}
	args = append(args, limit, (page-1)*limit)

	query := fmt.Sprintf(`
		SELECT %s, st.name, subj.subject_name
		FROM absence_requests ar
		JOIN students st ON ar.student_id = st.id
		LEFT JOIN class_sessions cs ON ar.session_id = cs.id
		LEFT JOIN subjects subj ON cs.subject_id = subj.id
		WHERE %s
		ORDER BY ar.submitted_at DESC
		LIMIT $%d OFFSET $%d
	`, requestColumns, whereClause, len(args)-1, len(args))

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, wrapErr("list absence requests", err)
	}
	defer rows.Close()

	var requests []approval.AbsenceRequest
	for rows.Next() {
		var req approval.AbsenceRequest
		err := rows.Scan(
			&req.ID, &req.OrgID, &req.StudentID, &req.SessionID, &req.Type,
			&req.Date, &req.Reason, &req.AttachmentURL, &req.Status, &req.SubmittedAt, &req.UpdatedAt,
			&req.StudentName, &req.SubjectName,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("scan absence request: %w", err)
		}
		requests = append(requests, req)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, wrapErr("list absence requests", err)
	}

	return requests, total, nil
}
