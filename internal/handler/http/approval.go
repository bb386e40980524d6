package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shukketsu-app/backend-go/internal/domain/approval"
	"github.com/shukketsu-app/backend-go/internal/handler/http/response"
	"github.com/shukketsu-app/backend-go/internal/pkg/jwt"
)

type ApprovalHandler interface {
	Submit(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	ListMy(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Reject(w http.ResponseWriter, r *http.Request)
	Cancel(w http.ResponseWriter, r *http.Request)
	ListDecisions(w http.ResponseWriter, r *http.Request)
}

type approvalHandlerImpl struct {
	approvalService approval.Service
}

func NewApprovalHandler(approvalService approval.Service) ApprovalHandler {
	return &approvalHandlerImpl{
		approvalService: approvalService,
	}
}

// Submit implements ApprovalHandler.
func (h *approvalHandlerImpl) Submit(w http.ResponseWriter, r *http.Request) {
	identity, err := jwt.IdentityFromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}
	if identity.StudentID == "" {
		response.Forbidden(w, "Only students submit absence requests")
		return
	}

	var req approval.SubmitRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.OrgID = identity.OrgID
	req.StudentID = identity.StudentID

	created, err := h.approvalService.SubmitRequest(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Absence request submitted", created)
}

// Get implements ApprovalHandler.
func (h *approvalHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	identity, err := jwt.IdentityFromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	req, err := h.approvalService.GetRequest(r.Context(), chi.URLParam(r, "id"), identity.OrgID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, req)
}

// List implements ApprovalHandler.
func (h *approvalHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	identity, err := jwt.IdentityFromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	h.listRequests(w, r, requestFilterFromQuery(r), identity.OrgID)
}

// ListMy implements ApprovalHandler.
func (h *approvalHandlerImpl) ListMy(w http.ResponseWriter, r *http.Request) {
	identity, err := jwt.IdentityFromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}
	if identity.StudentID == "" {
		response.Forbidden(w, "Only students have their own requests")
		return
	}

	filter := requestFilterFromQuery(r)
	filter.StudentID = &identity.StudentID
	h.listRequests(w, r, filter, identity.OrgID)
}

func (h *approvalHandlerImpl) listRequests(w http.ResponseWriter, r *http.Request, filter approval.RequestFilter, orgID string) {
	resp, err := h.approvalService.ListRequests(r.Context(), filter, orgID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, resp.Requests, &response.Meta{
		Page:       resp.Page,
		Limit:      resp.Limit,
		TotalItems: resp.TotalCount,
		TotalPages: totalPages(resp.TotalCount, resp.Limit),
	})
}

// Approve implements ApprovalHandler.
func (h *approvalHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, approval.ActionApprove)
}

// Reject implements ApprovalHandler.
func (h *approvalHandlerImpl) Reject(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, approval.ActionReject)
}

func (h *approvalHandlerImpl) decide(w http.ResponseWriter, r *http.Request, action approval.DecisionAction) {
	identity, err := jwt.IdentityFromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	var req approval.DecideRequestRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.BadRequest(w, "Invalid request format", nil)
			return
		}
	}
	req.RequestID = chi.URLParam(r, "id")
	req.OrgID = identity.OrgID
	req.ApproverID = identity.UserID
	req.Action = action

	decided, err := h.approvalService.Decide(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Request "+decided.Status, decided)
}

// Cancel implements ApprovalHandler.
func (h *approvalHandlerImpl) Cancel(w http.ResponseWriter, r *http.Request) {
	identity, err := jwt.IdentityFromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}
	if identity.StudentID == "" {
		response.Forbidden(w, "Only the requesting student may cancel")
		return
	}

	err = h.approvalService.CancelRequest(r.Context(), chi.URLParam(r, "id"), identity.StudentID, identity.OrgID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Request cancelled", nil)
}

// ListDecisions implements ApprovalHandler.
func (h *approvalHandlerImpl) ListDecisions(w http.ResponseWriter, r *http.Request) {
	identity, err := jwt.IdentityFromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	decisions, err := h.approvalService.ListDecisions(r.Context(), chi.URLParam(r, "id"), identity.OrgID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, decisions)
}

func requestFilterFromQuery(r *http.Request) approval.RequestFilter {
	q := r.URL.Query()
	filter := approval.RequestFilter{
		Page:  queryInt(q.Get("page")),
		Limit: queryInt(q.Get("limit")),
	}
	if v := q.Get("student_id"); v != "" {
		filter.StudentID = &v
	}
	if v := q.Get("status"); v != "" {
		status := approval.RequestStatus(v)
		filter.Status = &status
	}
	return filter
}
