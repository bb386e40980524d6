package postgresql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/shukketsu-app/backend-go/internal/domain/qr"
	"github.com/shukketsu-app/backend-go/internal/pkg/database"
)

type qrCodeRepository struct {
	db *database.DB
}

func NewQRCodeRepository(db *database.DB) qr.CodeRepository {
	return &qrCodeRepository{db: db}
}

// GetActiveByCode implements qr.CodeRepository. It returns nil when no active
// code matches the value; expiry is the caller's call so expired codes can be
// told apart from unknown ones.
func (r *qrCodeRepository) GetActiveByCode(ctx context.Context, code string, orgID string) (*qr.Code, error) {
	q := GetQuerier(ctx, r.db)

	var c qr.Code
	err := q.QueryRow(ctx, `
		SELECT id, org_id, code, location_name, is_active, expires_at, created_by, created_at
		FROM qr_codes
		WHERE org_id = $1 AND code = $2 AND is_active = TRUE
	`, orgID, code).Scan(&c.ID, &c.OrgID, &c.Code, &c.LocationName, &c.Active, &c.ExpiresAt, &c.CreatedBy, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr("get qr code", err)
	}

	return &c, nil
}
