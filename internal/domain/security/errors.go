package security

import "errors"

var (
	// ErrNetworkOriginDenied is a soft rejection: logged to the audit trail,
	// no ledger write, surfaced to the caller as a structured error.
	ErrNetworkOriginDenied = errors.New("request origin is not on an allowed network")

	ErrRangeNotFound = errors.New("ip range not found")

	// ErrRangeInverted rejects an update that would leave ip_end below
	// ip_start.
	ErrRangeInverted = errors.New("ip range end is below its start")
)
