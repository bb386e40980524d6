package approval

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shukketsu-app/backend-go/internal/domain/approval"
	"github.com/shukketsu-app/backend-go/internal/domain/attendance"
	"github.com/shukketsu-app/backend-go/internal/domain/notification"
	"github.com/shukketsu-app/backend-go/internal/domain/schedule"
	"github.com/shukketsu-app/backend-go/internal/pkg/database"
	"github.com/shukketsu-app/backend-go/internal/pkg/metrics"
	"github.com/shukketsu-app/backend-go/internal/repository/postgresql"
)

type ServiceImpl struct {
	db *database.DB
	approval.AbsenceRequestRepository
	approval.DecisionRepository
	ledger       attendance.LedgerRepository
	sessions     schedule.ClassSessionRepository
	dispatcher   notification.Dispatcher
	logger       *slog.Logger
	queryTimeout time.Duration
}

func NewService(
	db *database.DB,
	requestRepo approval.AbsenceRequestRepository,
	decisionRepo approval.DecisionRepository,
	ledger attendance.LedgerRepository,
	sessions schedule.ClassSessionRepository,
	dispatcher notification.Dispatcher,
	logger *slog.Logger,
	queryTimeout time.Duration,
) approval.Service {
	return &ServiceImpl{
		db:                       db,
		AbsenceRequestRepository: requestRepo,
		DecisionRepository:       decisionRepo,
		ledger:                   ledger,
		sessions:                 sessions,
		dispatcher:               dispatcher,
		logger:                   logger,
		queryTimeout:             queryTimeout,
	}
}

// SubmitRequest implements approval.Service.
func (s *ServiceImpl) SubmitRequest(ctx context.Context, req approval.SubmitRequestRequest) (approval.RequestResponse, error) {
	if err := req.Validate(); err != nil {
		return approval.RequestResponse{}, err
	}

	date, _ := time.Parse("2006-01-02", req.Date)

	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	if req.SessionID != nil {
		session, err := s.sessions.GetByID(ctx, *req.SessionID, req.OrgID)
		if err != nil {
			return approval.RequestResponse{}, err
		}
		enrolled, err := s.sessions.IsStudentEnrolled(ctx, req.StudentID, session.ID)
		if err != nil {
			return approval.RequestResponse{}, fmt.Errorf("failed to check enrollment: %w", err)
		}
		if !enrolled {
			return approval.RequestResponse{}, schedule.ErrNotEnrolled
		}
	}

	pending, err := s.AbsenceRequestRepository.FindPendingByKey(ctx, req.OrgID, req.StudentID, req.SessionID, date)
	if err != nil {
		return approval.RequestResponse{}, fmt.Errorf("failed to check for pending request: %w", err)
	}
	if pending != nil {
		return approval.RequestResponse{}, approval.ErrDuplicateRequest
	}

	created, err := s.AbsenceRequestRepository.Create(ctx, approval.AbsenceRequest{
		OrgID:     req.OrgID,
		StudentID: req.StudentID,
		SessionID: req.SessionID,
		Type:      approval.RequestType(req.Type),
		Date:      date,
		Reason:    req.Reason,
	})
	if err != nil {
		return approval.RequestResponse{}, fmt.Errorf("failed to create absence request: %w", err)
	}

	return toRequestResponse(created), nil
}

// Decide implements approval.Service. Approval projects into the attendance
// ledger with approval origin; the status flip, the ledger write and the
// decision entry commit or roll back together. The notification goes out
// only after commit.
func (s *ServiceImpl) Decide(ctx context.Context, req approval.DecideRequestRequest) (approval.DecisionResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	request, err := s.AbsenceRequestRepository.GetByID(ctx, req.RequestID, req.OrgID)
	if err != nil {
		return approval.DecisionResponse{}, err
	}
	if request.Status != approval.StatusPending {
		return approval.DecisionResponse{}, approval.ErrInvalidTransition
	}

	target := approval.StatusRejected
	if req.Action == approval.ActionApprove {
		target = approval.StatusApproved
	}

	var newStatus *attendance.Status

	err = s.runInTx(ctx, func(txCtx context.Context) error {
		moved, err := s.AbsenceRequestRepository.UpdateStatus(txCtx, request.ID, approval.StatusPending, target)
		if err != nil {
			return err
		}
		if !moved {
			return approval.ErrInvalidTransition
		}

		if req.Action == approval.ActionApprove {
			status := request.Type.AttendanceStatus()
			_, err := s.ledger.Upsert(txCtx, attendance.Record{
				OrgID:       request.OrgID,
				StudentID:   request.StudentID,
				SessionID:   request.SessionID,
				LogicalDate: request.Date,
				Status:      status,
				Origin:      attendance.OriginApproval,
				Notes:       &request.Reason,
			})
			if err != nil {
				return fmt.Errorf("failed to project approval into ledger: %w", err)
			}
			newStatus = &status
		}

		_, err = s.DecisionRepository.Append(txCtx, approval.Decision{
			RequestID:  request.ID,
			ApproverID: req.ApproverID,
			Action:     req.Action,
			Comment:    req.Comment,
		})
		if err != nil {
			return fmt.Errorf("failed to append decision: %w", err)
		}

		return nil
	})
	if err != nil {
		return approval.DecisionResponse{}, err
	}

	metrics.ApprovalDecisions.WithLabelValues(string(req.Action)).Inc()
	s.notifyDecision(ctx, request, req.Action)

	return approval.DecisionResponse{
		RequestID: request.ID,
		Status:    string(target),
		NewStatus: newStatus,
	}, nil
}

// runInTx wraps fn in a database transaction when a pool is wired. In-memory
// setups run fn directly; their repositories are their own unit of atomicity.
func (s *ServiceImpl) runInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.db == nil {
		return fn(ctx)
	}
	return postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		return fn(postgresql.WithTx(ctx, tx))
	})
}

// notifyDecision hands the outcome to the dispatcher. Fire and forget: the
// detached context survives the request ending, and nothing here can fail
// the already-committed decision.
func (s *ServiceImpl) notifyDecision(ctx context.Context, request approval.AbsenceRequest, action approval.DecisionAction) {
	event := notification.Event{
		RecipientID: request.StudentID,
		Type:        notification.TypeApproval,
		Title:       "Absence request approved",
		Body:        fmt.Sprintf("Your %s request for %s was approved.", request.Type, request.Date.Format("2006-01-02")),
		Priority:    notification.PriorityMedium,
	}
	if action == approval.ActionReject {
		event.Type = notification.TypeRejection
		event.Title = "Absence request rejected"
		event.Body = fmt.Sprintf("Your %s request for %s was rejected.", request.Type, request.Date.Format("2006-01-02"))
		event.Priority = notification.PriorityHigh
	}
	s.dispatcher.Dispatch(context.WithoutCancel(ctx), event)
}

// CancelRequest implements approval.Service.
func (s *ServiceImpl) CancelRequest(ctx context.Context, requestID, studentID, orgID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	request, err := s.AbsenceRequestRepository.GetByID(ctx, requestID, orgID)
	if err != nil {
		return err
	}
	if request.StudentID != studentID {
		return approval.ErrNotRequestOwner
	}

	moved, err := s.AbsenceRequestRepository.UpdateStatus(ctx, request.ID, approval.StatusPending, approval.StatusCancelled)
	if err != nil {
		return err
	}
	if !moved {
		return approval.ErrInvalidTransition
	}
	return nil
}

// GetRequest implements approval.Service.
func (s *ServiceImpl) GetRequest(ctx context.Context, requestID, orgID string) (approval.RequestResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	request, err := s.AbsenceRequestRepository.GetByID(ctx, requestID, orgID)
	if err != nil {
		return approval.RequestResponse{}, err
	}
	return toRequestResponse(request), nil
}

// ListRequests implements approval.Service.
func (s *ServiceImpl) ListRequests(ctx context.Context, filter approval.RequestFilter, orgID string) (approval.ListRequestsResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	requests, total, err := s.AbsenceRequestRepository.List(ctx, filter, orgID)
	if err != nil {
		return approval.ListRequestsResponse{}, err
	}

	page := filter.Page
	if page <= 0 {
		page = 1
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}

	resp := approval.ListRequestsResponse{
		TotalCount: total,
		Page:       page,
		Limit:      limit,
		Requests:   make([]approval.RequestResponse, 0, len(requests)),
	}
	for _, r := range requests {
		resp.Requests = append(resp.Requests, toRequestResponse(r))
	}
	return resp, nil
}

// ListDecisions implements approval.Service.
func (s *ServiceImpl) ListDecisions(ctx context.Context, requestID, orgID string) ([]approval.DecisionRecordResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	// Tenant check before exposing the trail.
	if _, err := s.AbsenceRequestRepository.GetByID(ctx, requestID, orgID); err != nil {
		return nil, err
	}

	decisions, err := s.DecisionRepository.ListByRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}

	resp := make([]approval.DecisionRecordResponse, 0, len(decisions))
	for _, d := range decisions {
		resp = append(resp, approval.DecisionRecordResponse{
			ID:           d.ID,
			RequestID:    d.RequestID,
			ApproverID:   d.ApproverID,
			ApproverName: d.ApproverName,
			Action:       string(d.Action),
			Comment:      d.Comment,
			DecidedAt:    d.DecidedAt.Format(time.RFC3339),
		})
	}
	return resp, nil
}

func toRequestResponse(r approval.AbsenceRequest) approval.RequestResponse {
	return approval.RequestResponse{
		ID:            r.ID,
		StudentID:     r.StudentID,
		StudentName:   r.StudentName,
		SessionID:     r.SessionID,
		SubjectName:   r.SubjectName,
		Type:          string(r.Type),
		Date:          r.Date.Format("2006-01-02"),
		Reason:        r.Reason,
		AttachmentURL: r.AttachmentURL,
		Status:        string(r.Status),
		SubmittedAt:   r.SubmittedAt.Format(time.RFC3339),
		UpdatedAt:     r.UpdatedAt.Format(time.RFC3339),
	}
}
