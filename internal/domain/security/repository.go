package security

import "context"

type IPRangeRepository interface {
	// ListActive returns the tenant's active allow-ranges. The gate treats
	// any error here as a denial.
	ListActive(ctx context.Context, orgID string) ([]IPRange, error)

	Create(ctx context.Context, r IPRange) (IPRange, error)
	GetByID(ctx context.Context, id string, orgID string) (IPRange, error)
	Update(ctx context.Context, req UpdateIPRangeRequest) (IPRange, error)
	Delete(ctx context.Context, id string, orgID string) error
	List(ctx context.Context, orgID string) ([]IPRange, error)
}

// ScanLogRepository appends to the security audit trail. Entries are never
// updated or deleted.
type ScanLogRepository interface {
	Append(ctx context.Context, log ScanLog) (ScanLog, error)
	List(ctx context.Context, filter ScanLogFilter, orgID string) ([]ScanLog, int64, error)
}
