package schedule

import (
	"github.com/shukketsu-app/backend-go/internal/pkg/validator"
)

type TimeSlotRequest struct {
	PeriodNumber int    `json:"period_number"`
	PeriodName   string `json:"period_name"`
	StartTime    string `json:"start_time"`
	EndTime      string `json:"end_time"`
}

type ReplaceTimeSlotsRequest struct {
	OrgID string            `json:"-"`
	Slots []TimeSlotRequest `json:"slots"`
}

func (r ReplaceTimeSlotsRequest) Validate() error {
	var errs validator.ValidationErrors
	for _, s := range r.Slots {
		if s.PeriodNumber <= 0 {
			errs = append(errs, validator.ValidationError{Field: "slots", Message: "period_number must be positive"})
		}
		if validator.IsEmpty(s.PeriodName) {
			errs = append(errs, validator.ValidationError{Field: "slots", Message: "period_name required"})
		}
		if !validator.IsValidTimeOfDay(s.StartTime) || !validator.IsValidTimeOfDay(s.EndTime) {
			errs = append(errs, validator.ValidationError{Field: "slots", Message: "start_time and end_time must be HH:MM or HH:MM:SS"})
			continue
		}
		start, _ := ParseTimeOfDay(s.StartTime)
		end, _ := ParseTimeOfDay(s.EndTime)
		if end < start {
			errs = append(errs, validator.ValidationError{Field: "slots", Message: "end_time must not be before start_time"})
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type TimeSlotResponse struct {
	ID           string `json:"id"`
	PeriodNumber int    `json:"period_number"`
	PeriodName   string `json:"period_name"`
	StartTime    string `json:"start_time"`
	EndTime      string `json:"end_time"`
}

type SessionResponse struct {
	ID          string `json:"id"`
	SubjectName string `json:"subject_name"`
	TeacherName string `json:"teacher_name"`
	Room        string `json:"room"`
	Date        string `json:"date"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	Cancelled   bool   `json:"is_cancelled"`
}
