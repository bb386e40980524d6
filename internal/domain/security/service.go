package security

import "context"

// Gate validates a scan's network origin before any classification or write
// happens. It fails closed: lookup errors deny.
type Gate interface {
	// CheckOrigin matches the source address against the tenant's active
	// allow-ranges, bounds inclusive.
	CheckOrigin(ctx context.Context, orgID, ip string) GateResult

	// LogScan appends one audit entry. Logging failures are reported but
	// must not abort the caller's soft-rejection path.
	LogScan(ctx context.Context, log ScanLog) error

	ListScanLogs(ctx context.Context, filter ScanLogFilter, orgID string) (ListScanLogsResponse, error)

	CreateIPRange(ctx context.Context, req CreateIPRangeRequest) (IPRangeResponse, error)
	UpdateIPRange(ctx context.Context, req UpdateIPRangeRequest) (IPRangeResponse, error)
	DeleteIPRange(ctx context.Context, id, orgID string) error
	ListIPRanges(ctx context.Context, orgID string) ([]IPRangeResponse, error)
}
