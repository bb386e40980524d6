package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shukketsu-app/backend-go/internal/domain/attendance"
)

// wrapErr classifies transient store failures as StoreUnavailable so callers
// know the operation is safe to retry; everything else is wrapped as-is.
func wrapErr(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) || pgconn.Timeout(err) {
		return fmt.Errorf("%s: %w", op, attendance.ErrStoreUnavailable)
	}
	return fmt.Errorf("%s: %w", op, err)
}
