package qr

import "context"

type CodeRepository interface {
	// GetActiveByCode looks up an active code by its scanned value, or nil
	// when unknown or deactivated. Expiry is the caller's check; an expired
	// code is logged differently from an unknown one.
	GetActiveByCode(ctx context.Context, code string, orgID string) (*Code, error)
}
