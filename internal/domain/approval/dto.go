package approval

import (
	"github.com/shukketsu-app/backend-go/internal/domain/attendance"
	"github.com/shukketsu-app/backend-go/internal/pkg/validator"
)

type SubmitRequestRequest struct {
	OrgID     string  `json:"-"`
	StudentID string  `json:"-"`
	SessionID *string `json:"session_id,omitempty"`
	Type      string  `json:"type"`
	Date      string  `json:"date"`
	Reason    string  `json:"reason"`
}

func (r SubmitRequestRequest) Validate() error {
	var errs validator.ValidationErrors
	if !RequestType(r.Type).Valid() {
		errs = append(errs, validator.ValidationError{Field: "type", Message: "must be absence, official_absence, official_late or early_departure"})
	}
	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{Field: "date", Message: "must be YYYY-MM-DD"})
	}
	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{Field: "reason", Message: "required"})
	}
	if len(r.Reason) > 500 {
		errs = append(errs, validator.ValidationError{Field: "reason", Message: "must be at most 500 characters"})
	}
	if r.SessionID != nil && !validator.IsValidUUID(*r.SessionID) {
		errs = append(errs, validator.ValidationError{Field: "session_id", Message: "must be a UUID"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type DecideRequestRequest struct {
	RequestID  string         `json:"-"`
	OrgID      string         `json:"-"`
	ApproverID string         `json:"-"`
	Action     DecisionAction `json:"-"`
	Comment    *string        `json:"comment,omitempty"`
}

type RequestResponse struct {
	ID            string  `json:"id"`
	StudentID     string  `json:"student_id"`
	StudentName   *string `json:"student_name,omitempty"`
	SessionID     *string `json:"session_id,omitempty"`
	SubjectName   *string `json:"subject_name,omitempty"`
	Type          string  `json:"type"`
	Date          string  `json:"date"`
	Reason        string  `json:"reason"`
	AttachmentURL *string `json:"attachment_url,omitempty"`
	Status        string  `json:"status"`
	SubmittedAt   string  `json:"submitted_at"`
	UpdatedAt     string  `json:"updated_at"`
}

type DecisionResponse struct {
	RequestID string             `json:"request_id"`
	Status    string             `json:"status"`
	NewStatus *attendance.Status `json:"new_attendance_status,omitempty"`
}

type DecisionRecordResponse struct {
	ID           string  `json:"id"`
	RequestID    string  `json:"request_id"`
	ApproverID   string  `json:"approver_id"`
	ApproverName *string `json:"approver_name,omitempty"`
	Action       string  `json:"action"`
	Comment      *string `json:"comment,omitempty"`
	DecidedAt    string  `json:"decided_at"`
}

type RequestFilter struct {
	StudentID *string
	Status    *RequestStatus
	Page      int
	Limit     int
}

type ListRequestsResponse struct {
	TotalCount int64             `json:"total_count"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	Requests   []RequestResponse `json:"requests"`
}
