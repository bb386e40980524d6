package response

import (
	"errors"
	"net/http"

	"github.com/shukketsu-app/backend-go/internal/domain/approval"
	"github.com/shukketsu-app/backend-go/internal/domain/attendance"
	"github.com/shukketsu-app/backend-go/internal/domain/organization"
	"github.com/shukketsu-app/backend-go/internal/domain/qr"
	"github.com/shukketsu-app/backend-go/internal/domain/schedule"
	"github.com/shukketsu-app/backend-go/internal/domain/security"
	"github.com/shukketsu-app/backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Organization domain errors
	case errors.Is(err, organization.ErrOrganizationNotFound):
		NotFound(w, "Organization not found")

	// Attendance domain errors
	case errors.Is(err, attendance.ErrRecordNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, attendance.ErrStoreUnavailable):
		ServiceUnavailable(w, "Attendance store unavailable, retry later")

	// Schedule domain errors
	case errors.Is(err, schedule.ErrSessionNotFound):
		NotFound(w, "Class session not found")
	case errors.Is(err, schedule.ErrSessionCancelled):
		Conflict(w, "Class session is cancelled")
	case errors.Is(err, schedule.ErrNotEnrolled):
		Forbidden(w, "Student is not enrolled in this session")
	case errors.Is(err, schedule.ErrSlotOverlap):
		Conflict(w, "Time slots must not overlap")

	// Security domain errors
	case errors.Is(err, security.ErrNetworkOriginDenied):
		Forbidden(w, "Scan origin is not on an allowed network")
	case errors.Is(err, security.ErrRangeNotFound):
		NotFound(w, "IP range not found")
	case errors.Is(err, security.ErrRangeInverted):
		BadRequest(w, "IP range end is below its start", nil)

	// QR code errors
	case errors.Is(err, qr.ErrQRInvalid):
		BadRequest(w, "QR code is unknown or inactive", nil)
	case errors.Is(err, qr.ErrQRExpired):
		BadRequest(w, "QR code has expired", nil)

	// Approval domain errors
	case errors.Is(err, approval.ErrRequestNotFound):
		NotFound(w, "Absence request not found")
	case errors.Is(err, approval.ErrDuplicateRequest):
		Conflict(w, "A pending request already exists for this session or date")
	case errors.Is(err, approval.ErrInvalidTransition):
		Conflict(w, "Request has already been resolved")
	case errors.Is(err, approval.ErrNotRequestOwner):
		Forbidden(w, "Only the requesting student may cancel")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
