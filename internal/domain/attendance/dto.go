package attendance

import (
	"time"

	"github.com/shukketsu-app/backend-go/internal/pkg/validator"
)

// ScanRequest is the transient attendance event. It is never persisted
// itself; classification produces a Record.
type ScanRequest struct {
	OrgID     string  `json:"-"`
	StudentID string  `json:"student_id"`
	Timestamp string  `json:"timestamp,omitempty"`
	QRCode    *string `json:"qr_code,omitempty"`
	SessionID *string `json:"session_id,omitempty"`

	// Filled from the HTTP request, not the body.
	SourceIP  string `json:"-"`
	UserAgent string `json:"-"`
}

func (r ScanRequest) Validate() error {
	var errs validator.ValidationErrors
	if validator.IsEmpty(r.StudentID) {
		errs = append(errs, validator.ValidationError{Field: "student_id", Message: "required"})
	}
	if r.Timestamp != "" {
		if _, err := time.Parse(time.RFC3339, r.Timestamp); err != nil {
			errs = append(errs, validator.ValidationError{Field: "timestamp", Message: "must be RFC3339"})
		}
	}
	if !validator.IsValidIPv4(r.SourceIP) {
		errs = append(errs, validator.ValidationError{Field: "source_ip", Message: "must be a valid IPv4 address"})
	}
	if r.SessionID != nil && !validator.IsValidUUID(*r.SessionID) {
		errs = append(errs, validator.ValidationError{Field: "session_id", Message: "must be a UUID"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// EventTime returns the parsed timestamp, or now when the scan carried none.
func (r ScanRequest) EventTime(now time.Time) time.Time {
	if r.Timestamp == "" {
		return now
	}
	t, err := time.Parse(time.RFC3339, r.Timestamp)
	if err != nil {
		return now
	}
	return t
}

// SessionInfo labels a scan result with the matched session or period. A
// TimeSlot fallback match carries no session id.
type SessionInfo struct {
	SessionID   *string `json:"session_id,omitempty"`
	SubjectName string  `json:"subject_name,omitempty"`
	TeacherName string  `json:"teacher_name,omitempty"`
	Room        string  `json:"room,omitempty"`
	PeriodName  string  `json:"period_name,omitempty"`
	StartTime   string  `json:"start_time,omitempty"`
}

type ScanResult struct {
	Status      Status       `json:"status"`
	LogicalDate string       `json:"logical_date"`
	Session     *SessionInfo `json:"session,omitempty"`
	Record      RecordResponse `json:"record"`
}

type RecordResponse struct {
	ID           string  `json:"id"`
	StudentID    string  `json:"student_id"`
	SessionID    *string `json:"session_id,omitempty"`
	LogicalDate  string  `json:"logical_date"`
	Status       string  `json:"status"`
	Origin       string  `json:"origin"`
	CheckInTime  *string `json:"check_in_time,omitempty"`
	CheckOutTime *string `json:"check_out_time,omitempty"`
	Notes        *string `json:"notes,omitempty"`
	CreatedAt    string  `json:"created_at"`
	UpdatedAt    string  `json:"updated_at"`
}

type ListFilter struct {
	StudentID *string
	StartDate *time.Time
	EndDate   *time.Time
	Status    *Status
	Page      int
	Limit     int
}

type ListRecordsResponse struct {
	TotalCount int64            `json:"total_count"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
	Records    []RecordResponse `json:"records"`
}
