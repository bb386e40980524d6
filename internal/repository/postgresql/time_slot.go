package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shukketsu-app/backend-go/internal/domain/schedule"
	"github.com/shukketsu-app/backend-go/internal/pkg/database"
)

type timeSlotRepository struct {
	db *database.DB
}

func NewTimeSlotRepository(db *database.DB) schedule.TimeSlotRepository {
	return &timeSlotRepository{db: db}
}

func scanTimeSlot(row pgx.Row) (schedule.TimeSlot, error) {
	var ts schedule.TimeSlot
	var start, end string
	err := row.Scan(&ts.ID, &ts.OrgID, &ts.PeriodNumber, &ts.PeriodName, &start, &end, &ts.CreatedAt, &ts.UpdatedAt)
	if err != nil {
		return schedule.TimeSlot{}, err
	}
	if ts.StartTime, err = schedule.ParseTimeOfDay(start); err != nil {
		return schedule.TimeSlot{}, fmt.Errorf("malformed slot start_time: %w", err)
	}
	if ts.EndTime, err = schedule.ParseTimeOfDay(end); err != nil {
		return schedule.TimeSlot{}, fmt.Errorf("malformed slot end_time: %w", err)
	}
	return ts, nil
}

// FindByTime implements schedule.TimeSlotRepository.
func (r *timeSlotRepository) FindByTime(ctx context.Context, orgID string, t schedule.TimeOfDay) (*schedule.TimeSlot, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, org_id, period_number, period_name, start_time, end_time, created_at, updated_at
		FROM organization_time_slots
		WHERE org_id = $1 AND start_time <= $2 AND end_time >= $2
		ORDER BY start_time ASC
		LIMIT 1
	`

	ts, err := scanTimeSlot(q.QueryRow(ctx, query, orgID, t.String()))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr("find time slot", err)
	}
	return &ts, nil
}

// ListByOrg implements schedule.TimeSlotRepository.
func (r *timeSlotRepository) ListByOrg(ctx context.Context, orgID string) ([]schedule.TimeSlot, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, org_id, period_number, period_name, start_time, end_time, created_at, updated_at
		FROM organization_time_slots
		WHERE org_id = $1
		ORDER BY period_number ASC
	`

	rows, err := q.Query(ctx, query, orgID)
	if err != nil {
		return nil, wrapErr("list time slots", err)
	}
	defer rows.Close()

	var slots []schedule.TimeSlot
	for rows.Next() {
		ts, err := scanTimeSlot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan time slot: %w", err)
		}
		slots = append(slots, ts)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("list time slots", err)
	}
	return slots, nil
}

// ReplaceForOrg implements schedule.TimeSlotRepository.
// The original system rewrites the whole period table on save; a delete plus
// re-insert inside one transaction keeps the non-overlap invariant atomic.
func (r *timeSlotRepository) ReplaceForOrg(ctx context.Context, orgID string, slots []schedule.TimeSlot) error {
	return WithTransaction(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM organization_time_slots WHERE org_id = $1`, orgID); err != nil {
			return wrapErr("clear time slots", err)
		}

		for _, s := range slots {
			id := s.ID
			if id == "" {
				id = uuid.NewString()
			}
			_, err := tx.Exec(ctx, `
				INSERT INTO organization_time_slots (id, org_id, period_number, period_name, start_time, end_time)
				VALUES ($1, $2, $3, $4, $5, $6)
			`, id, orgID, s.PeriodNumber, s.PeriodName, s.StartTime.String(), s.EndTime.String())
			if err != nil {
				return wrapErr("insert time slot", err)
			}
		}
		return nil
	})
}
