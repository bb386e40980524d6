package schedule

import "errors"

var (
	ErrSessionNotFound  = errors.New("class session not found")
	ErrSessionCancelled = errors.New("class session is cancelled")
	ErrNotEnrolled      = errors.New("student is not enrolled in this session")
	ErrSlotOverlap      = errors.New("time slots must not overlap")
)
