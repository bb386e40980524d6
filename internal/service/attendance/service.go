package attendance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shukketsu-app/backend-go/internal/domain/attendance"
	"github.com/shukketsu-app/backend-go/internal/domain/organization"
	"github.com/shukketsu-app/backend-go/internal/domain/qr"
	"github.com/shukketsu-app/backend-go/internal/domain/schedule"
	"github.com/shukketsu-app/backend-go/internal/domain/security"
	"github.com/shukketsu-app/backend-go/internal/pkg/metrics"
)

// Clock lets tests pin the event time; production wires time.Now.
type Clock func() time.Time

type ScanServiceImpl struct {
	attendance.LedgerRepository
	schedule.ClassSessionRepository
	schedule.TimeSlotRepository
	qr.CodeRepository
	policies     organization.PolicyResolver
	gate         security.Gate
	logger       *slog.Logger
	now          Clock
	queryTimeout time.Duration
}

func NewScanService(
	ledgerRepo attendance.LedgerRepository,
	sessionRepo schedule.ClassSessionRepository,
	slotRepo schedule.TimeSlotRepository,
	qrRepo qr.CodeRepository,
	policies organization.PolicyResolver,
	gate security.Gate,
	logger *slog.Logger,
	now Clock,
	queryTimeout time.Duration,
) attendance.ScanService {
	if now == nil {
		now = time.Now
	}
	return &ScanServiceImpl{
		LedgerRepository:       ledgerRepo,
		ClassSessionRepository: sessionRepo,
		TimeSlotRepository:     slotRepo,
		CodeRepository:         qrRepo,
		policies:               policies,
		gate:                   gate,
		logger:                 logger,
		now:                    now,
		queryTimeout:           queryTimeout,
	}
}

// ClassifyScan implements attendance.ScanService. The pipeline is ordered so
// that nothing touches the ledger until the origin gate and the QR checks
// pass; every outcome, including denials, lands in the audit trail.
func (s *ScanServiceImpl) ClassifyScan(ctx context.Context, req attendance.ScanRequest) (attendance.ScanResult, error) {
	if err := req.Validate(); err != nil {
		return attendance.ScanResult{}, err
	}

	eventTime := req.EventTime(s.now())

	policy, err := s.policies.Resolve(ctx, req.OrgID)
	if err != nil {
		return attendance.ScanResult{}, err
	}

	if verdict := s.gate.CheckOrigin(ctx, req.OrgID, req.SourceIP); !verdict.Allowed {
		s.audit(ctx, req, nil, eventTime, security.ResultIPDenied, nil)
		return attendance.ScanResult{}, security.ErrNetworkOriginDenied
	}

	var qrCodeID *string
	if req.QRCode != nil {
		code, err := s.checkQRCode(ctx, req, eventTime)
		if err != nil {
			return attendance.ScanResult{}, err
		}
		qrCodeID = &code.ID
	}

	session, slot, err := s.matchSession(ctx, req, eventTime)
	if err != nil {
		s.audit(ctx, req, qrCodeID, eventTime, security.ResultError, err)
		return attendance.ScanResult{}, err
	}

	logicalDate := attendance.LogicalDate(eventTime, policy.RolloverTime)

	status := attendance.StatusPresent
	var sessionInfo *attendance.SessionInfo
	var sessionID *string
	auditResult := security.ResultNoSession

	switch {
	case session != nil:
		sessionID = &session.ID
		status = attendance.ClassifyCheckIn(eventTime, session.StartTime.At(session.Date), policy.GraceMinutes)
		sessionInfo = &attendance.SessionInfo{
			SessionID:   &session.ID,
			SubjectName: session.SubjectName,
			TeacherName: session.TeacherName,
			Room:        session.Room,
			StartTime:   session.StartTime.String(),
		}
		auditResult = security.ResultSuccess
	case slot != nil:
		day := time.Date(eventTime.Year(), eventTime.Month(), eventTime.Day(), 0, 0, 0, 0, eventTime.Location())
		status = attendance.ClassifyCheckIn(eventTime, slot.StartTime.At(day), policy.GraceMinutes)
		sessionInfo = &attendance.SessionInfo{
			PeriodName: slot.PeriodName,
			StartTime:  slot.StartTime.String(),
		}
		auditResult = security.ResultSuccess
	}

	rec, err := s.upsertRecord(ctx, attendance.Record{
		OrgID:       req.OrgID,
		StudentID:   req.StudentID,
		SessionID:   sessionID,
		LogicalDate: logicalDate,
		Status:      status,
		Origin:      attendance.OriginAutomaticScan,
		CheckInTime: &eventTime,
	})
	if err != nil {
		s.audit(ctx, req, qrCodeID, eventTime, security.ResultError, err)
		return attendance.ScanResult{}, err
	}

	s.audit(ctx, req, qrCodeID, eventTime, auditResult, nil)

	return attendance.ScanResult{
		Status:      rec.Status,
		LogicalDate: logicalDate.Format("2006-01-02"),
		Session:     sessionInfo,
		Record:      toRecordResponse(rec),
	}, nil
}

func (s *ScanServiceImpl) checkQRCode(ctx context.Context, req attendance.ScanRequest, eventTime time.Time) (*qr.Code, error) {
	qctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	code, err := s.CodeRepository.GetActiveByCode(qctx, *req.QRCode, req.OrgID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up qr code: %w", err)
	}
	if code == nil {
		s.audit(ctx, req, nil, eventTime, security.ResultInvalidQR, nil)
		return nil, qr.ErrQRInvalid
	}
	if code.Expired(eventTime) {
		s.audit(ctx, req, &code.ID, eventTime, security.ResultExpiredQR, nil)
		return nil, qr.ErrQRExpired
	}
	return code, nil
}

// matchSession resolves the scan to a concrete session, or a time slot when
// no session covers the event, or neither. Session lookup uses the calendar
// date of the event itself; the rollover only shifts which attendance date
// the record is keyed under.
func (s *ScanServiceImpl) matchSession(ctx context.Context, req attendance.ScanRequest, eventTime time.Time) (*schedule.ClassSession, *schedule.TimeSlot, error) {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	if req.SessionID != nil {
		session, err := s.ClassSessionRepository.GetByID(ctx, *req.SessionID, req.OrgID)
		if err != nil {
			return nil, nil, err
		}
		if session.Cancelled {
			return nil, nil, schedule.ErrSessionCancelled
		}
		enrolled, err := s.ClassSessionRepository.IsStudentEnrolled(ctx, req.StudentID, session.ID)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to check enrollment: %w", err)
		}
		if !enrolled {
			return nil, nil, schedule.ErrNotEnrolled
		}
		return &session, nil, nil
	}

	day := time.Date(eventTime.Year(), eventTime.Month(), eventTime.Day(), 0, 0, 0, 0, eventTime.Location())
	tod := schedule.TimeOfDayOf(eventTime)

	session, err := s.ClassSessionRepository.FindActive(ctx, req.StudentID, req.OrgID, day, tod)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to find active session: %w", err)
	}
	if session != nil {
		return session, nil, nil
	}

	slot, err := s.TimeSlotRepository.FindByTime(ctx, req.OrgID, tod)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to find time slot: %w", err)
	}
	return nil, slot, nil
}

func (s *ScanServiceImpl) upsertRecord(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()
	return s.LedgerRepository.Upsert(ctx, rec)
}

// audit writes the scan log entry and bumps the decision counter. An audit
// failure is logged but never overrides the pipeline's own outcome.
func (s *ScanServiceImpl) audit(ctx context.Context, req attendance.ScanRequest, qrCodeID *string, eventTime time.Time, result security.ScanResult, cause error) {
	var errMsg *string
	if cause != nil {
		msg := cause.Error()
		errMsg = &msg
	}
	var userAgent *string
	if req.UserAgent != "" {
		userAgent = &req.UserAgent
	}

	log := security.ScanLog{
		OrgID:        req.OrgID,
		QRCodeID:     qrCodeID,
		StudentID:    req.StudentID,
		IPAddress:    req.SourceIP,
		Allowed:      result != security.ResultIPDenied,
		UserAgent:    userAgent,
		Result:       result,
		ErrorMessage: errMsg,
		ScannedAt:    eventTime,
	}
	if err := s.gate.LogScan(ctx, log); err != nil {
		s.logger.ErrorContext(ctx, "failed to append scan audit entry",
			slog.String("student_id", req.StudentID), slog.Any("error", err))
	}
	metrics.ScanDecisions.WithLabelValues(string(result)).Inc()
}

// GetRecord implements attendance.ScanService.
func (s *ScanServiceImpl) GetRecord(ctx context.Context, id string, orgID string) (attendance.RecordResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	rec, err := s.LedgerRepository.GetByID(ctx, id, orgID)
	if err != nil {
		return attendance.RecordResponse{}, err
	}
	return toRecordResponse(rec), nil
}

// ListRecords implements attendance.ScanService.
func (s *ScanServiceImpl) ListRecords(ctx context.Context, filter attendance.ListFilter, orgID string) (attendance.ListRecordsResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	records, total, err := s.LedgerRepository.List(ctx, filter, orgID)
	if err != nil {
		return attendance.ListRecordsResponse{}, err
	}

	page := filter.Page
	if page <= 0 {
		page = 1
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}

	resp := attendance.ListRecordsResponse{
		TotalCount: total,
		Page:       page,
		Limit:      limit,
		Records:    make([]attendance.RecordResponse, 0, len(records)),
	}
	for _, rec := range records {
		resp.Records = append(resp.Records, toRecordResponse(rec))
	}
	return resp, nil
}

func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}

func toRecordResponse(rec attendance.Record) attendance.RecordResponse {
	return attendance.RecordResponse{
		ID:           rec.ID,
		StudentID:    rec.StudentID,
		SessionID:    rec.SessionID,
		LogicalDate:  rec.LogicalDate.Format("2006-01-02"),
		Status:       string(rec.Status),
		Origin:       string(rec.Origin),
		CheckInTime:  timePtrToString(rec.CheckInTime),
		CheckOutTime: timePtrToString(rec.CheckOutTime),
		Notes:        rec.Notes,
		CreatedAt:    rec.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    rec.UpdatedAt.Format(time.RFC3339),
	}
}
