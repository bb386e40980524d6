package attendance

import "errors"

var (
	ErrRecordNotFound = errors.New("attendance record not found")

	// ErrStoreUnavailable marks a transient store failure. It is the only
	// error in the core a caller may retry.
	ErrStoreUnavailable = errors.New("attendance store unavailable")
)
