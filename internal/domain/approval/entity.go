package approval

import (
	"time"

	"github.com/shukketsu-app/backend-go/internal/domain/attendance"
)

// RequestType is the student's declared reason category.
type RequestType string

const (
	TypeAbsence         RequestType = "absence"
	TypeOfficialAbsence RequestType = "official_absence"
	TypeOfficialLate    RequestType = "official_late"
	TypeEarlyDeparture  RequestType = "early_departure"
)

// AttendanceStatus maps the request type to the ledger status written when
// the request is approved.
func (t RequestType) AttendanceStatus() attendance.Status {
	switch t {
	case TypeOfficialAbsence:
		return attendance.StatusExcused
	case TypeOfficialLate:
		return attendance.StatusLate
	case TypeEarlyDeparture:
		return attendance.StatusEarlyDeparture
	case TypeAbsence:
		return attendance.StatusAbsent
	default:
		return attendance.StatusExcused
	}
}

func (t RequestType) Valid() bool {
	switch t {
	case TypeAbsence, TypeOfficialAbsence, TypeOfficialLate, TypeEarlyDeparture:
		return true
	}
	return false
}

// RequestStatus is the request lifecycle state. pending is the only state
// that accepts transitions; approved and rejected are terminal, cancelled is
// reachable only by the owning student while pending.
type RequestStatus string

const (
	StatusPending   RequestStatus = "pending"
	StatusApproved  RequestStatus = "approved"
	StatusRejected  RequestStatus = "rejected"
	StatusCancelled RequestStatus = "cancelled"
)

// DecisionAction is what the approver did.
type DecisionAction string

const (
	ActionApprove DecisionAction = "approve"
	ActionReject  DecisionAction = "reject"
)

// AbsenceRequest is a student's pending/approved/rejected request referencing
// an optional session. Immutable once resolved; re-submission requires a new
// request.
type AbsenceRequest struct {
	ID            string
	OrgID         string
	StudentID     string
	SessionID     *string
	Type          RequestType
	Date          time.Time
	Reason        string
	AttachmentURL *string
	Status        RequestStatus
	SubmittedAt   time.Time
	UpdatedAt     time.Time

	// DTO
	StudentName *string
	SubjectName *string
}

// Decision is the append-only audit record of who decided a request.
type Decision struct {
	ID         string
	RequestID  string
	ApproverID string
	Action     DecisionAction
	Comment    *string
	DecidedAt  time.Time

	// DTO
	ApproverName *string
}
