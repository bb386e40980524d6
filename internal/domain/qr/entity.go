package qr

import "time"

// Code is a scannable location code. Expired or deactivated codes are soft
// rejections on the scan path.
type Code struct {
	ID           string
	OrgID        string
	Code         string
	LocationName string
	Active       bool
	ExpiresAt    *time.Time
	CreatedBy    string
	CreatedAt    time.Time
}

// Expired reports whether the code's validity window has passed at t.
func (c Code) Expired(t time.Time) bool {
	return c.ExpiresAt != nil && c.ExpiresAt.Before(t)
}
