package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shukketsu-app/backend-go/internal/domain/security"
	"github.com/shukketsu-app/backend-go/internal/handler/http/response"
	"github.com/shukketsu-app/backend-go/internal/pkg/jwt"
)

type SecurityHandler interface {
	ListScanLogs(w http.ResponseWriter, r *http.Request)
	ListIPRanges(w http.ResponseWriter, r *http.Request)
	CreateIPRange(w http.ResponseWriter, r *http.Request)
	UpdateIPRange(w http.ResponseWriter, r *http.Request)
	DeleteIPRange(w http.ResponseWriter, r *http.Request)
}

type securityHandlerImpl struct {
	gate security.Gate
}

func NewSecurityHandler(gate security.Gate) SecurityHandler {
	return &securityHandlerImpl{
		gate: gate,
	}
}

// ListScanLogs implements SecurityHandler.
func (h *securityHandlerImpl) ListScanLogs(w http.ResponseWriter, r *http.Request) {
	identity, err := jwt.IdentityFromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	q := r.URL.Query()
	filter := security.ScanLogFilter{
		Page:  queryInt(q.Get("page")),
		Limit: queryInt(q.Get("limit")),
	}
	if v := q.Get("student_id"); v != "" {
		filter.StudentID = &v
	}
	if v := q.Get("result"); v != "" {
		result := security.ScanResult(v)
		filter.Result = &result
	}
	if v := q.Get("start_date"); v != "" {
		if d, err := time.Parse("2006-01-02", v); err == nil {
			filter.StartDate = &d
		}
	}
	if v := q.Get("end_date"); v != "" {
		if d, err := time.Parse("2006-01-02", v); err == nil {
			end := d.Add(24*time.Hour - time.Nanosecond)
			filter.EndDate = &end
		}
	}

	resp, err := h.gate.ListScanLogs(r.Context(), filter, identity.OrgID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, resp.Logs, &response.Meta{
		Page:       resp.Page,
		Limit:      resp.Limit,
		TotalItems: resp.TotalCount,
		TotalPages: totalPages(resp.TotalCount, resp.Limit),
	})
}

// ListIPRanges implements SecurityHandler.
func (h *securityHandlerImpl) ListIPRanges(w http.ResponseWriter, r *http.Request) {
	identity, err := jwt.IdentityFromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	ranges, err := h.gate.ListIPRanges(r.Context(), identity.OrgID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, ranges)
}

// CreateIPRange implements SecurityHandler.
func (h *securityHandlerImpl) CreateIPRange(w http.ResponseWriter, r *http.Request) {
	identity, err := jwt.IdentityFromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	var req security.CreateIPRangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.OrgID = identity.OrgID

	created, err := h.gate.CreateIPRange(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "IP range created", created)
}

// UpdateIPRange implements SecurityHandler.
func (h *securityHandlerImpl) UpdateIPRange(w http.ResponseWriter, r *http.Request) {
	identity, err := jwt.IdentityFromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	var req security.UpdateIPRangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")
	req.OrgID = identity.OrgID

	updated, err := h.gate.UpdateIPRange(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "IP range updated", updated)
}

// DeleteIPRange implements SecurityHandler.
func (h *securityHandlerImpl) DeleteIPRange(w http.ResponseWriter, r *http.Request) {
	identity, err := jwt.IdentityFromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	if err := h.gate.DeleteIPRange(r.Context(), chi.URLParam(r, "id"), identity.OrgID); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "IP range deleted", nil)
}
