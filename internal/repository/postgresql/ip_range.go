package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shukketsu-app/backend-go/internal/domain/security"
	"github.com/shukketsu-app/backend-go/internal/pkg/database"
)

type ipRangeRepository struct {
	db *database.DB
}

func NewIPRangeRepository(db *database.DB) security.IPRangeRepository {
	return &ipRangeRepository{db: db}
}

const ipRangeColumns = `id, org_id, name, ip_start, ip_end, description, is_active, created_at, updated_at`

func scanIPRange(row pgx.Row) (security.IPRange, error) {
	var r security.IPRange
	err := row.Scan(&r.ID, &r.OrgID, &r.Name, &r.Start, &r.End, &r.Description, &r.Active, &r.CreatedAt, &r.UpdatedAt)
	return r, err
}

// ListActive implements security.IPRangeRepository.
func (r *ipRangeRepository) ListActive(ctx context.Context, orgID string) ([]security.IPRange, error) {
	return r.list(ctx, orgID, true)
}

// List implements security.IPRangeRepository.
func (r *ipRangeRepository) List(ctx context.Context, orgID string) ([]security.IPRange, error) {
	return r.list(ctx, orgID, false)
}

func (r *ipRangeRepository) list(ctx context.Context, orgID string, activeOnly bool) ([]security.IPRange, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`SELECT %s FROM allowed_ip_ranges WHERE org_id = $1`, ipRangeColumns)
	if activeOnly {
		query += ` AND is_active = TRUE`
	}
	query += ` ORDER BY created_at ASC`

	rows, err := q.Query(ctx, query, orgID)
	if err != nil {
		return nil, wrapErr("list ip ranges", err)
	}
	defer rows.Close()

	var ranges []security.IPRange
	for rows.Next() {
		rg, err := scanIPRange(rows)
		if err != nil {
			return nil, wrapErr("scan ip range", err)
		}
		ranges = append(ranges, rg)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("list ip ranges", err)
	}

	return ranges, nil
}

// Create implements security.IPRangeRepository.
func (r *ipRangeRepository) Create(ctx context.Context, rg security.IPRange) (security.IPRange, error) {
	q := GetQuerier(ctx, r.db)

	if rg.ID == "" {
		rg.ID = uuid.NewString()
	}

	err := q.QueryRow(ctx, `
		INSERT INTO allowed_ip_ranges (id, org_id, name, ip_start, ip_end, description, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`, rg.ID, rg.OrgID, rg.Name, rg.Start, rg.End, rg.Description, rg.Active).Scan(&rg.CreatedAt, &rg.UpdatedAt)
	if err != nil {
		return security.IPRange{}, wrapErr("create ip range", err)
	}

	return rg, nil
}

// GetByID implements security.IPRangeRepository.
func (r *ipRangeRepository) GetByID(ctx context.Context, id string, orgID string) (security.IPRange, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`SELECT %s FROM allowed_ip_ranges WHERE id = $1 AND org_id = $2`, ipRangeColumns)
	rg, err := scanIPRange(q.QueryRow(ctx, query, id, orgID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return security.IPRange{}, security.ErrRangeNotFound
		}
		return security.IPRange{}, wrapErr("get ip range", err)
	}
	return rg, nil
}

// Update implements security.IPRangeRepository.
func (r *ipRangeRepository) Update(ctx context.Context, req security.UpdateIPRangeRequest) (security.IPRange, error) {
	q := GetQuerier(ctx, r.db)

	set := []string{"updated_at = NOW()"}
	args := []interface{}{req.ID, req.OrgID}

	if req.Name != nil {
		args = append(args, *req.Name)
		set = append(set, fmt.Sprintf("name = $%d", len(args)))
	}
	if req.Start != nil {
		args = append(args, *req.Start)
		set = append(set, fmt.Sprintf("ip_start = $%d", len(args)))
	}
	if req.End != nil {
		args = append(args, *req.End)
		set = append(set, fmt.Sprintf("ip_end = $%d", len(args)))
	}
	if req.Description != nil {
		args = append(args, *req.Description)
		set = append(set, fmt.Sprintf("description = $%d", len(args)))
	}
	if req.Active != nil {
		args = append(args, *req.Active)
		set = append(set, fmt.Sprintf("is_active = $%d", len(args)))
	}

	query := fmt.Sprintf(`
		UPDATE allowed_ip_ranges
		SET %s
		WHERE id = $1 AND org_id = $2
		RETURNING %s
	`, strings.Join(set, ", "), ipRangeColumns)

	rg, err := scanIPRange(q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return security.IPRange{}, security.ErrRangeNotFound
		}
		return security.IPRange{}, wrapErr("update ip range", err)
	}
	return rg, nil
}

// Delete implements security.IPRangeRepository.
func (r *ipRangeRepository) Delete(ctx context.Context, id string, orgID string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM allowed_ip_ranges WHERE id = $1 AND org_id = $2`, id, orgID)
	if err != nil {
		return wrapErr("delete ip range", err)
	}
	if tag.RowsAffected() == 0 {
		return security.ErrRangeNotFound
	}
	return nil
}
