package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shukketsu-app/backend-go/internal/domain/attendance"
	"github.com/shukketsu-app/backend-go/internal/pkg/database"
)

type ledgerRepository struct {
	db *database.DB
}

func NewLedgerRepository(db *database.DB) attendance.LedgerRepository {
	return &ledgerRepository{db: db}
}

const recordColumns = `id, org_id, student_id, session_id, logical_date, status, origin,
	   check_in_time, check_out_time, notes, created_at, updated_at`

func scanRecord(row pgx.Row) (attendance.Record, error) {
	var rec attendance.Record
	err := row.Scan(
		&rec.ID, &rec.OrgID, &rec.StudentID, &rec.SessionID, &rec.LogicalDate,
		&rec.Status, &rec.Origin, &rec.CheckInTime, &rec.CheckOutTime, &rec.Notes,
		&rec.CreatedAt, &rec.UpdatedAt,
	)
	return rec, err
}

// Upsert implements attendance.LedgerRepository.
//
// The uniqueness key is (org, student, session) for session-bound records and
// (org, student, logical_date) for session-less ones; two partial unique
// indexes back the two conflict targets. The precedence rule from
// attendance.TakesPrecedence is enforced by the DO UPDATE condition: an
// automatic_scan write does not touch a row whose origin is approval. When
// the condition suppresses the update no row comes back, and the stored row
// is returned unchanged so both data-layer arrival orders converge.
func (r *ledgerRepository) Upsert(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	q := GetQuerier(ctx, r.db)

	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}

	conflict := `(org_id, student_id, logical_date) WHERE session_id IS NULL`
	if rec.SessionID != nil {
		conflict = `(org_id, student_id, session_id) WHERE session_id IS NOT NULL`
	}

	query := fmt.Sprintf(`
		INSERT INTO attendance_records (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
		ON CONFLICT %s DO UPDATE SET
			status = EXCLUDED.status,
			origin = EXCLUDED.origin,
			check_in_time = EXCLUDED.check_in_time,
			check_out_time = COALESCE(EXCLUDED.check_out_time, attendance_records.check_out_time),
			notes = EXCLUDED.notes,
			updated_at = NOW()
		WHERE attendance_records.origin <> 'approval' OR EXCLUDED.origin = 'approval'
		RETURNING %s
	`, recordColumns, conflict, recordColumns)

	stored, err := scanRecord(q.QueryRow(ctx, query,
		rec.ID, rec.OrgID, rec.StudentID, rec.SessionID, rec.LogicalDate,
		rec.Status, rec.Origin, rec.CheckInTime, rec.CheckOutTime, rec.Notes,
	))
	if err == nil {
		return stored, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return attendance.Record{}, wrapErr("upsert attendance record", err)
	}

	// Update suppressed by the precedence condition; hand back the row that won.
	existing, err := r.GetByKey(ctx, rec.OrgID, rec.StudentID, rec.SessionID, rec.LogicalDate)
	if err != nil {
		return attendance.Record{}, err
	}
	if existing == nil {
		return attendance.Record{}, fmt.Errorf("upsert attendance record: %w", attendance.ErrRecordNotFound)
	}
	return *existing, nil
}

// GetByKey implements attendance.LedgerRepository.
func (r *ledgerRepository) GetByKey(ctx context.Context, orgID, studentID string, sessionID *string, logicalDate time.Time) (*attendance.Record, error) {
	q := GetQuerier(ctx, r.db)

	var row pgx.Row
	if sessionID != nil {
		query := fmt.Sprintf(`SELECT %s FROM attendance_records WHERE org_id = $1 AND student_id = $2 AND session_id = $3`, recordColumns)
		row = q.QueryRow(ctx, query, orgID, studentID, *sessionID)
	} else {
		query := fmt.Sprintf(`SELECT %s FROM attendance_records WHERE org_id = $1 AND student_id = $2 AND session_id IS NULL AND logical_date = $3`, recordColumns)
		row = q.QueryRow(ctx, query, orgID, studentID, logicalDate)
	}

	rec, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr("get attendance record by key", err)
	}
	return &rec, nil
}

// GetByID implements attendance.LedgerRepository.
func (r *ledgerRepository) GetByID(ctx context.Context, id string, orgID string) (attendance.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`SELECT %s FROM attendance_records WHERE id = $1 AND org_id = $2`, recordColumns)
	rec, err := scanRecord(q.QueryRow(ctx, query, id, orgID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Record{}, attendance.ErrRecordNotFound
		}
		return attendance.Record{}, wrapErr("get attendance record", err)
	}
	return rec, nil
}

// List implements attendance.LedgerRepository.
func (r *ledgerRepository) List(ctx context.Context, filter attendance.ListFilter, orgID string) ([]attendance.Record, int64, error) {
	q := GetQuerier(ctx, r.db)

	where := []string{"org_id = $1"}
	args := []interface{}{orgID}

	if filter.StudentID != nil {
		args = append(args, *filter.StudentID)
		where = append(where, fmt.Sprintf("student_id = $%d", len(args)))
	}
	if filter.StartDate != nil {
		args = append(args, *filter.StartDate)
		where = append(where, fmt.Sprintf("logical_date >= $%d", len(args)))
	}
	if filter.EndDate != nil {
		args = append(args, *filter.EndDate)
		where = append(where, fmt.Sprintf("logical_date <= $%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}

	whereClause := strings.Join(where, " AND ")

	var total int64
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM attendance_records WHERE %s`, whereClause)
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, wrapErr("count attendance records", err)
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
		SELECT %s FROM attendance_records
		WHERE %s
		ORDER BY logical_date DESC, updated_at DESC
		LIMIT $%d OFFSET $%d
	`, recordColumns, whereClause, len(args)-1, len(args))

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, wrapErr("list attendance records", err)
	}
	defer rows.Close()

	var records []attendance.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan attendance record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, wrapErr("list attendance records", err)
	}

	return records, total, nil
}
