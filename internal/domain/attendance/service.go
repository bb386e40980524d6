package attendance

import (
	"context"
)

// ScanService turns raw attendance events into classified ledger records.
type ScanService interface {
	// ClassifyScan runs the full pipeline: network origin gate, QR checks,
	// session matching, logical date calculation, status classification and
	// the ledger upsert. Denials and soft conditions are audit-logged.
	ClassifyScan(ctx context.Context, req ScanRequest) (ScanResult, error)

	GetRecord(ctx context.Context, id string, orgID string) (RecordResponse, error)

	ListRecords(ctx context.Context, filter ListFilter, orgID string) (ListRecordsResponse, error)
}
