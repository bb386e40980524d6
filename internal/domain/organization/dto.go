package organization

import (
	"github.com/shukketsu-app/backend-go/internal/pkg/validator"
)

type UpdatePolicyRequest struct {
	GraceMinutes int    `json:"grace_minutes"`
	RolloverTime string `json:"rollover_time"`
}

func (r UpdatePolicyRequest) Validate() error {
	var errs validator.ValidationErrors
	if r.GraceMinutes < 0 {
		errs = append(errs, validator.ValidationError{Field: "grace_minutes", Message: "must be non-negative"})
	}
	if !validator.IsValidTimeOfDay(r.RolloverTime) {
		errs = append(errs, validator.ValidationError{Field: "rollover_time", Message: "must be HH:MM or HH:MM:SS"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type PolicyResponse struct {
	OrgID        string `json:"org_id"`
	GraceMinutes int    `json:"grace_minutes"`
	RolloverTime string `json:"rollover_time"`
}
