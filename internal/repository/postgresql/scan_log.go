package postgresql

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shukketsu-app/backend-go/internal/domain/security"
	"github.com/shukketsu-app/backend-go/internal/pkg/database"
)

type scanLogRepository struct {
	db *database.DB
}

func NewScanLogRepository(db *database.DB) security.ScanLogRepository {
	return &scanLogRepository{db: db}
}

// Append implements security.ScanLogRepository.
func (r *scanLogRepository) Append(ctx context.Context, log security.ScanLog) (security.ScanLog, error) {
	q := GetQuerier(ctx, r.db)

	if log.ID == "" {
		log.ID = uuid.NewString()
	}

	err := q.QueryRow(ctx, `
		INSERT INTO scan_logs (id, org_id, qr_code_id, student_id, ip_address, allowed, user_agent, result, error_message, scanned_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING scanned_at
	`, log.ID, log.OrgID, log.QRCodeID, log.StudentID, log.IPAddress, log.Allowed,
		log.UserAgent, log.Result, log.ErrorMessage, log.ScannedAt,
	).Scan(&log.ScannedAt)
	if err != nil {
		return security.ScanLog{}, wrapErr("append scan log", err)
	}

	return log, nil
}

// List implements security.ScanLogRepository.
func (r *scanLogRepository) List(ctx context.Context, filter security.ScanLogFilter, orgID string) ([]security.ScanLog, int64, error) {
	q := GetQuerier(ctx, r.db)

	where := []string{"org_id = $1"}
	args := []interface{}{orgID}

	if filter.StudentID != nil {
		args = append(args, *filter.StudentID)
		where = append(where, fmt.Sprintf("student_id = $%d", len(args)))
	}
	if filter.Result != nil {
		args = append(args, *filter.Result)
		where = append(where, fmt.Sprintf("result = $%d", len(args)))
	}
	if filter.StartDate != nil {
		args = append(args, *filter.StartDate)
		where = append(where, fmt.Sprintf("scanned_at >= $%d", len(args)))
	}
	if filter.EndDate != nil {
		args = append(args, *filter.EndDate)
		where = append(where, fmt.Sprintf("scanned_at <= $%d", len(args)))
	}

	whereClause := strings.Join(where, " AND ")

	var total int64
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM scan_logs WHERE %s`, whereClause)
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, wrapErr("count scan logs", err)
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
		SELECT id, org_id, qr_code_id, student_id, ip_address, allowed, user_agent, result, error_message, scanned_at
		FROM scan_logs
		WHERE %s
		ORDER BY scanned_at DESC
		LIMIT $%d OFFSET $%d
	`, whereClause, len(args)-1, len(args))

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, wrapErr("list scan logs", err)
	}
	defer rows.Close()

	var logs []security.ScanLog
	for rows.Next() {
		var log security.ScanLog
		err := rows.Scan(
			&log.ID, &log.OrgID, &log.QRCodeID, &log.StudentID, &log.IPAddress,
			&log.Allowed, &log.UserAgent, &log.Result, &log.ErrorMessage, &log.ScannedAt,
		)
		if err != nil {
			return nil, 0, wrapErr("scan scan log", err)
		}
		logs = append(logs, log)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, wrapErr("list scan logs", err)
	}

	return logs, total, nil
}
