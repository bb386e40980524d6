package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shukketsu-app/backend-go/internal/domain/schedule"
	"github.com/shukketsu-app/backend-go/internal/pkg/database"
)

type classSessionRepository struct {
	db *database.DB
}

func NewClassSessionRepository(db *database.DB) schedule.ClassSessionRepository {
	return &classSessionRepository{db: db}
}

const sessionColumns = `cs.id, cs.org_id, cs.subject_id, s.subject_name, cs.teacher_name,
	   cs.room, cs.group_id, cs.class_date, cs.start_time, cs.end_time, cs.is_cancelled`

func scanSession(row pgx.Row) (schedule.ClassSession, error) {
	var cs schedule.ClassSession
	var start, end string
	err := row.Scan(
		&cs.ID, &cs.OrgID, &cs.SubjectID, &cs.SubjectName, &cs.TeacherName,
		&cs.Room, &cs.GroupID, &cs.Date, &start, &end, &cs.Cancelled,
	)
	if err != nil {
		return schedule.ClassSession{}, err
	}
	if cs.StartTime, err = schedule.ParseTimeOfDay(start); err != nil {
		return schedule.ClassSession{}, fmt.Errorf("malformed session start_time: %w", err)
	}
	if cs.EndTime, err = schedule.ParseTimeOfDay(end); err != nil {
		return schedule.ClassSession{}, fmt.Errorf("malformed session end_time: %w", err)
	}
	return cs, nil
}

// GetByID implements schedule.ClassSessionRepository.
func (r *classSessionRepository) GetByID(ctx context.Context, id string, orgID string) (schedule.ClassSession, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s
		FROM class_sessions cs
		JOIN subjects s ON cs.subject_id = s.id
		WHERE cs.id = $1 AND cs.org_id = $2
	`, sessionColumns)

	cs, err := scanSession(q.QueryRow(ctx, query, id, orgID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return schedule.ClassSession{}, schedule.ErrSessionNotFound
		}
		return schedule.ClassSession{}, wrapErr("get class session", err)
	}
	return cs, nil
}

// FindActive implements schedule.ClassSessionRepository.
//
// Slots should not overlap within a tenant, but tenants misconfigure;
// ordering by start_time makes the earliest session win deterministically.
func (r *classSessionRepository) FindActive(ctx context.Context, studentID, orgID string, date time.Time, t schedule.TimeOfDay) (*schedule.ClassSession, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s
		FROM class_sessions cs
		JOIN subjects s ON cs.subject_id = s.id
		JOIN group_members gm ON cs.group_id = gm.group_id
		WHERE gm.student_id = $1
		  AND cs.org_id = $2
		  AND cs.class_date = $3
		  AND cs.start_time <= $4
		  AND cs.end_time >= $4
		  AND cs.is_cancelled = FALSE
		  AND gm.status = 'active'
		ORDER BY cs.start_time ASC
		LIMIT 1
	`, sessionColumns)

	cs, err := scanSession(q.QueryRow(ctx, query, studentID, orgID, date, t.String()))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr("find active class session", err)
	}
	return &cs, nil
}

// IsStudentEnrolled implements schedule.ClassSessionRepository.
func (r *classSessionRepository) IsStudentEnrolled(ctx context.Context, studentID, sessionID string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS (
			SELECT 1
			FROM class_sessions cs
			JOIN group_members gm ON cs.group_id = gm.group_id
			WHERE cs.id = $1 AND gm.student_id = $2 AND gm.status = 'active'
		)
	`

	var enrolled bool
	if err := q.QueryRow(ctx, query, sessionID, studentID).Scan(&enrolled); err != nil {
		return false, wrapErr("check enrollment", err)
	}
	return enrolled, nil
}

// ListByDate implements schedule.ClassSessionRepository.
func (r *classSessionRepository) ListByDate(ctx context.Context, orgID string, date time.Time) ([]schedule.ClassSession, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s
		FROM class_sessions cs
		JOIN subjects s ON cs.subject_id = s.id
		WHERE cs.org_id = $1 AND cs.class_date = $2
		ORDER BY cs.start_time ASC
	`, sessionColumns)

	rows, err := q.Query(ctx, query, orgID, date)
	if err != nil {
		return nil, wrapErr("list class sessions", err)
	}
	defer rows.Close()

	var sessions []schedule.ClassSession
	for rows.Next() {
		cs, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan class session: %w", err)
		}
		sessions = append(sessions, cs)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("list class sessions", err)
	}
	return sessions, nil
}
