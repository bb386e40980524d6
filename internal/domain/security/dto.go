package security

import (
	"time"

	"github.com/shukketsu-app/backend-go/internal/pkg/validator"
)

type CreateIPRangeRequest struct {
	OrgID       string  `json:"-"`
	Name        string  `json:"name"`
	Start       string  `json:"ip_start"`
	End         string  `json:"ip_end"`
	Description *string `json:"description,omitempty"`
}

func (r CreateIPRangeRequest) Validate() error {
	var errs validator.ValidationErrors
	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "required"})
	}
	if !validator.IsValidIPv4(r.Start) {
		errs = append(errs, validator.ValidationError{Field: "ip_start", Message: "must be a valid IPv4 address"})
	}
	if !validator.IsValidIPv4(r.End) {
		errs = append(errs, validator.ValidationError{Field: "ip_end", Message: "must be a valid IPv4 address"})
	}
	if len(errs) == 0 {
		lo, _ := IPv4ToUint32(r.Start)
		hi, _ := IPv4ToUint32(r.End)
		if lo > hi {
			errs = append(errs, validator.ValidationError{Field: "ip_end", Message: "must not be below ip_start"})
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateIPRangeRequest struct {
	ID          string  `json:"-"`
	OrgID       string  `json:"-"`
	Name        *string `json:"name,omitempty"`
	Start       *string `json:"ip_start,omitempty"`
	End         *string `json:"ip_end,omitempty"`
	Description *string `json:"description,omitempty"`
	Active      *bool   `json:"is_active,omitempty"`
}

func (r UpdateIPRangeRequest) Validate() error {
	var errs validator.ValidationErrors
	if r.Start != nil && !validator.IsValidIPv4(*r.Start) {
		errs = append(errs, validator.ValidationError{Field: "ip_start", Message: "must be a valid IPv4 address"})
	}
	if r.End != nil && !validator.IsValidIPv4(*r.End) {
		errs = append(errs, validator.ValidationError{Field: "ip_end", Message: "must be a valid IPv4 address"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type IPRangeResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Start       string  `json:"ip_start"`
	End         string  `json:"ip_end"`
	Description *string `json:"description,omitempty"`
	Active      bool    `json:"is_active"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

type ScanLogFilter struct {
	StudentID *string
	Result    *ScanResult
	StartDate *time.Time
	EndDate   *time.Time
	Page      int
	Limit     int
}

type ScanLogResponse struct {
	ID           string  `json:"id"`
	QRCodeID     *string `json:"qr_code_id,omitempty"`
	StudentID    string  `json:"student_id"`
	IPAddress    string  `json:"ip_address"`
	Allowed      bool    `json:"allowed"`
	UserAgent    *string `json:"user_agent,omitempty"`
	Result       string  `json:"result"`
	ErrorMessage *string `json:"error_message,omitempty"`
	ScannedAt    string  `json:"scanned_at"`
}

type ListScanLogsResponse struct {
	TotalCount int64             `json:"total_count"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	Logs       []ScanLogResponse `json:"logs"`
}
