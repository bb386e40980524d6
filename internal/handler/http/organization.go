package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/shukketsu-app/backend-go/internal/domain/organization"
	"github.com/shukketsu-app/backend-go/internal/domain/schedule"
	"github.com/shukketsu-app/backend-go/internal/handler/http/response"
	"github.com/shukketsu-app/backend-go/internal/pkg/jwt"
)

type OrganizationHandler interface {
	GetPolicy(w http.ResponseWriter, r *http.Request)
	UpdatePolicy(w http.ResponseWriter, r *http.Request)
	ListTimeSlots(w http.ResponseWriter, r *http.Request)
	ReplaceTimeSlots(w http.ResponseWriter, r *http.Request)
	ListSessions(w http.ResponseWriter, r *http.Request)
}

type organizationHandlerImpl struct {
	policyResolver  organization.PolicyResolver
	timeSlotService schedule.TimeSlotService
}

func NewOrganizationHandler(policyResolver organization.PolicyResolver, timeSlotService schedule.TimeSlotService) OrganizationHandler {
	return &organizationHandlerImpl{
		policyResolver:  policyResolver,
		timeSlotService: timeSlotService,
	}
}

func toPolicyResponse(p organization.Policy) organization.PolicyResponse {
	return organization.PolicyResponse{
		OrgID:        p.OrgID,
		GraceMinutes: p.GraceMinutes,
		RolloverTime: p.RolloverTime.String(),
	}
}

// GetPolicy implements OrganizationHandler.
func (h *organizationHandlerImpl) GetPolicy(w http.ResponseWriter, r *http.Request) {
	identity, err := jwt.IdentityFromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	policy, err := h.policyResolver.Resolve(r.Context(), identity.OrgID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, toPolicyResponse(policy))
}

// UpdatePolicy implements OrganizationHandler.
func (h *organizationHandlerImpl) UpdatePolicy(w http.ResponseWriter, r *http.Request) {
	identity, err := jwt.IdentityFromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	var req organization.UpdatePolicyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	policy, err := h.policyResolver.Update(r.Context(), identity.OrgID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Policy updated", toPolicyResponse(policy))
}

// ListTimeSlots implements OrganizationHandler.
func (h *organizationHandlerImpl) ListTimeSlots(w http.ResponseWriter, r *http.Request) {
	identity, err := jwt.IdentityFromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	slots, err := h.timeSlotService.ListTimeSlots(r.Context(), identity.OrgID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, slots)
}

// ReplaceTimeSlots implements OrganizationHandler.
func (h *organizationHandlerImpl) ReplaceTimeSlots(w http.ResponseWriter, r *http.Request) {
	identity, err := jwt.IdentityFromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	var req schedule.ReplaceTimeSlotsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.OrgID = identity.OrgID

	slots, err := h.timeSlotService.ReplaceTimeSlots(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Time slots replaced", slots)
}

// ListSessions implements OrganizationHandler.
func (h *organizationHandlerImpl) ListSessions(w http.ResponseWriter, r *http.Request) {
	identity, err := jwt.IdentityFromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	date := time.Now().UTC()
	if v := r.URL.Query().Get("date"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			response.BadRequest(w, "date must be YYYY-MM-DD", nil)
			return
		}
		date = parsed
	}
	date = time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)

	sessions, err := h.timeSlotService.ListSessionsByDate(r.Context(), identity.OrgID, date)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, sessions)
}
