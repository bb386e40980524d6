package approval

import "errors"

var (
	ErrRequestNotFound = errors.New("absence request not found")

	// ErrDuplicateRequest means an unresolved request already exists for the
	// same (student, session-or-date) key.
	ErrDuplicateRequest = errors.New("a pending request already exists for this session or date")

	// ErrInvalidTransition means the request is no longer pending.
	ErrInvalidTransition = errors.New("request has already been resolved")

	ErrNotRequestOwner = errors.New("only the submitting student may cancel this request")
)
