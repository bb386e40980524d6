package organization

import "errors"

var (
	// ErrOrganizationNotFound means the tenant itself does not exist. A tenant
	// without a custom policy row is not an error; defaults apply.
	ErrOrganizationNotFound = errors.New("organization not found")
)
