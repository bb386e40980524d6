package http

import (
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shukketsu-app/backend-go/internal/domain/attendance"
	"github.com/shukketsu-app/backend-go/internal/handler/http/response"
	"github.com/shukketsu-app/backend-go/internal/pkg/jwt"
)

type AttendanceHandler interface {
	Scan(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	ListMy(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	scanService attendance.ScanService
}

func NewAttendanceHandler(scanService attendance.ScanService) AttendanceHandler {
	return &attendanceHandlerImpl{
		scanService: scanService,
	}
}

// clientIP returns the remote address with the port stripped. The router's
// RealIP middleware already resolved forwarding headers.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// Scan implements AttendanceHandler.
func (h *attendanceHandlerImpl) Scan(w http.ResponseWriter, r *http.Request) {
	identity, err := jwt.IdentityFromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	var req attendance.ScanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	req.OrgID = identity.OrgID
	req.SourceIP = clientIP(r)
	req.UserAgent = r.UserAgent()

	// Students can only scan for themselves; scanning devices carry a
	// device identity and name the student in the body.
	if identity.StudentID != "" {
		req.StudentID = identity.StudentID
	}

	result, err := h.scanService.ClassifyScan(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Scan classified", result)
}

// Get implements AttendanceHandler.
func (h *attendanceHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	identity, err := jwt.IdentityFromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	record, err := h.scanService.GetRecord(r.Context(), chi.URLParam(r, "id"), identity.OrgID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, record)
}

// List implements AttendanceHandler.
func (h *attendanceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	identity, err := jwt.IdentityFromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	filter := recordFilterFromQuery(r)
	h.listRecords(w, r, filter, identity.OrgID)
}

// ListMy implements AttendanceHandler.
func (h *attendanceHandlerImpl) ListMy(w http.ResponseWriter, r *http.Request) {
	identity, err := jwt.IdentityFromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}
	if identity.StudentID == "" {
		response.Forbidden(w, "Only students have their own attendance")
		return
	}

	filter := recordFilterFromQuery(r)
	filter.StudentID = &identity.StudentID
	h.listRecords(w, r, filter, identity.OrgID)
}

func (h *attendanceHandlerImpl) listRecords(w http.ResponseWriter, r *http.Request, filter attendance.ListFilter, orgID string) {
	resp, err := h.scanService.ListRecords(r.Context(), filter, orgID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, resp.Records, &response.Meta{
		Page:       resp.Page,
		Limit:      resp.Limit,
		TotalItems: resp.TotalCount,
		TotalPages: totalPages(resp.TotalCount, resp.Limit),
	})
}

func recordFilterFromQuery(r *http.Request) attendance.ListFilter {
	q := r.URL.Query()
	filter := attendance.ListFilter{
		Page:  queryInt(q.Get("page")),
		Limit: queryInt(q.Get("limit")),
	}
	if v := q.Get("student_id"); v != "" {
		filter.StudentID = &v
	}
	if v := q.Get("status"); v != "" {
		status := attendance.Status(v)
		filter.Status = &status
	}
	if v := q.Get("start_date"); v != "" {
		if d, err := time.Parse("2006-01-02", v); err == nil {
			filter.StartDate = &d
		}
	}
	if v := q.Get("end_date"); v != "" {
		if d, err := time.Parse("2006-01-02", v); err == nil {
			filter.EndDate = &d
		}
	}
	return filter
}

func queryInt(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

func totalPages(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	pages := total / int64(limit)
	if total%int64(limit) != 0 {
		pages++
	}
	return int(pages)
}
