package security

import (
	"context"
	"log/slog"
	"time"

	"github.com/shukketsu-app/backend-go/internal/domain/security"
)

type GateImpl struct {
	security.IPRangeRepository
	security.ScanLogRepository
	logger       *slog.Logger
	queryTimeout time.Duration
}

func NewGate(
	ipRangeRepo security.IPRangeRepository,
	scanLogRepo security.ScanLogRepository,
	logger *slog.Logger,
	queryTimeout time.Duration,
) security.Gate {
	return &GateImpl{
		IPRangeRepository: ipRangeRepo,
		ScanLogRepository: scanLogRepo,
		logger:            logger,
		queryTimeout:      queryTimeout,
	}
}

// CheckOrigin implements security.Gate. No configured ranges means no
// restriction; a lookup failure denies.
func (g *GateImpl) CheckOrigin(ctx context.Context, orgID, ip string) security.GateResult {
	ctx, cancel := context.WithTimeout(ctx, g.queryTimeout)
	defer cancel()

	ranges, err := g.IPRangeRepository.ListActive(ctx, orgID)
	if err != nil {
		g.logger.ErrorContext(ctx, "ip range lookup failed, denying scan",
			slog.String("org_id", orgID), slog.Any("error", err))
		return security.GateResult{Allowed: false}
	}

	if len(ranges) == 0 {
		return security.GateResult{Allowed: true}
	}

	for i := range ranges {
		if ranges[i].Contains(ip) {
			return security.GateResult{Allowed: true, MatchedRange: &ranges[i]}
		}
	}

	return security.GateResult{Allowed: false}
}

// LogScan implements security.Gate.
func (g *GateImpl) LogScan(ctx context.Context, log security.ScanLog) error {
	ctx, cancel := context.WithTimeout(ctx, g.queryTimeout)
	defer cancel()

	if log.ScannedAt.IsZero() {
		log.ScannedAt = time.Now().UTC()
	}

	if _, err := g.ScanLogRepository.Append(ctx, log); err != nil {
		g.logger.ErrorContext(ctx, "scan log append failed",
			slog.String("org_id", log.OrgID),
			slog.String("student_id", log.StudentID),
			slog.Any("error", err))
		return err
	}
	return nil
}

// ListScanLogs implements security.Gate.
func (g *GateImpl) ListScanLogs(ctx context.Context, filter security.ScanLogFilter, orgID string) (security.ListScanLogsResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, g.queryTimeout)
	defer cancel()

	logs, total, err := g.ScanLogRepository.List(ctx, filter, orgID)
	if err != nil {
		return security.ListScanLogsResponse{}, err
	}

	page := filter.Page
	if page <= 0 {
		page = 1
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}

	resp := security.ListScanLogsResponse{
		TotalCount: total,
		Page:       page,
		Limit:      limit,
		Logs:       make([]security.ScanLogResponse, 0, len(logs)),
	}
	for _, l := range logs {
		resp.Logs = append(resp.Logs, toScanLogResponse(l))
	}
	return resp, nil
}

// CreateIPRange implements security.Gate.
func (g *GateImpl) CreateIPRange(ctx context.Context, req security.CreateIPRangeRequest) (security.IPRangeResponse, error) {
	if err := req.Validate(); err != nil {
		return security.IPRangeResponse{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, g.queryTimeout)
	defer cancel()

	rg, err := g.IPRangeRepository.Create(ctx, security.IPRange{
		OrgID:       req.OrgID,
		Name:        req.Name,
		Start:       req.Start,
		End:         req.End,
		Description: req.Description,
		Active:      true,
	})
	if err != nil {
		return security.IPRangeResponse{}, err
	}
	return toIPRangeResponse(rg), nil
}

// UpdateIPRange implements security.Gate.
func (g *GateImpl) UpdateIPRange(ctx context.Context, req security.UpdateIPRangeRequest) (security.IPRangeResponse, error) {
	if err := req.Validate(); err != nil {
		return security.IPRangeResponse{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, g.queryTimeout)
	defer cancel()

	current, err := g.IPRangeRepository.GetByID(ctx, req.ID, req.OrgID)
	if err != nil {
		return security.IPRangeResponse{}, err
	}

	lo := current.Start
	hi := current.End
	if req.Start != nil {
		lo = *req.Start
	}
	if req.End != nil {
		hi = *req.End
	}
	loV, _ := security.IPv4ToUint32(lo)
	hiV, _ := security.IPv4ToUint32(hi)
	if loV > hiV {
		return security.IPRangeResponse{}, security.ErrRangeInverted
	}

	rg, err := g.IPRangeRepository.Update(ctx, req)
	if err != nil {
		return security.IPRangeResponse{}, err
	}
	return toIPRangeResponse(rg), nil
}

// DeleteIPRange implements security.Gate.
func (g *GateImpl) DeleteIPRange(ctx context.Context, id, orgID string) error {
	ctx, cancel := context.WithTimeout(ctx, g.queryTimeout)
	defer cancel()

	return g.IPRangeRepository.Delete(ctx, id, orgID)
}

// ListIPRanges implements security.Gate.
func (g *GateImpl) ListIPRanges(ctx context.Context, orgID string) ([]security.IPRangeResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, g.queryTimeout)
	defer cancel()

	ranges, err := g.IPRangeRepository.List(ctx, orgID)
	if err != nil {
		return nil, err
	}

	resp := make([]security.IPRangeResponse, 0, len(ranges))
	for _, rg := range ranges {
		resp = append(resp, toIPRangeResponse(rg))
	}
	return resp, nil
}

func toIPRangeResponse(rg security.IPRange) security.IPRangeResponse {
	return security.IPRangeResponse{
		ID:          rg.ID,
		Name:        rg.Name,
		Start:       rg.Start,
		End:         rg.End,
		Description: rg.Description,
		Active:      rg.Active,
		CreatedAt:   rg.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   rg.UpdatedAt.Format(time.RFC3339),
	}
}

func toScanLogResponse(l security.ScanLog) security.ScanLogResponse {
	return security.ScanLogResponse{
		ID:           l.ID,
		QRCodeID:     l.QRCodeID,
		StudentID:    l.StudentID,
		IPAddress:    l.IPAddress,
		Allowed:      l.Allowed,
		UserAgent:    l.UserAgent,
		Result:       string(l.Result),
		ErrorMessage: l.ErrorMessage,
		ScannedAt:    l.ScannedAt.Format(time.RFC3339),
	}
}
