package approval

import "context"

// Service is the approval override engine: it resolves pending requests and
// projects accepted outcomes into the attendance ledger.
type Service interface {
	SubmitRequest(ctx context.Context, req SubmitRequestRequest) (RequestResponse, error)

	// Decide applies approve or reject to a pending request. On approve the
	// ledger is written with approval origin and a decision is appended, in
	// one transaction. On reject only the decision is appended.
	Decide(ctx context.Context, req DecideRequestRequest) (DecisionResponse, error)

	// CancelRequest withdraws a pending request; owner only.
	CancelRequest(ctx context.Context, requestID, studentID, orgID string) error

	GetRequest(ctx context.Context, requestID, orgID string) (RequestResponse, error)

	ListRequests(ctx context.Context, filter RequestFilter, orgID string) (ListRequestsResponse, error)

	ListDecisions(ctx context.Context, requestID, orgID string) ([]DecisionRecordResponse, error)
}
