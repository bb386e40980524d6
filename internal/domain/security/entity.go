package security

import (
	"encoding/binary"
	"net/netip"
	"time"
)

// IPRange is an inclusive IPv4 allow-range owned by the tenant.
type IPRange struct {
	ID          string
	OrgID       string
	Name        string
	Start       string
	End         string
	Description *string
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Contains reports whether ip falls inside the range, bounds inclusive,
// compared numerically over the 32-bit address space. Malformed range bounds
// never match.
func (r IPRange) Contains(ip string) bool {
	v, ok := IPv4ToUint32(ip)
	if !ok {
		return false
	}
	lo, ok := IPv4ToUint32(r.Start)
	if !ok {
		return false
	}
	hi, ok := IPv4ToUint32(r.End)
	if !ok {
		return false
	}
	return lo <= v && v <= hi
}

// IPv4ToUint32 converts a dotted-quad address to its numeric value.
func IPv4ToUint32(s string) (uint32, bool) {
	addr, err := netip.ParseAddr(s)
	if err != nil || !addr.Is4() {
		return 0, false
	}
	b := addr.As4()
	return binary.BigEndian.Uint32(b[:]), true
}

// ScanResult labels a scan log entry for the security audit trail.
type ScanResult string

const (
	ResultSuccess   ScanResult = "success"
	ResultIPDenied  ScanResult = "ip_denied"
	ResultInvalidQR ScanResult = "invalid_qr"
	ResultExpiredQR ScanResult = "expired_qr"
	ResultNoSession ScanResult = "no_session"
	ResultError     ScanResult = "error"
)

// ScanLog is one append-only audit entry. Every gate decision, including
// denials, produces one.
type ScanLog struct {
	ID           string
	OrgID        string
	QRCodeID     *string
	StudentID    string
	IPAddress    string
	Allowed      bool
	UserAgent    *string
	Result       ScanResult
	ErrorMessage *string
	ScannedAt    time.Time
}

// GateResult is the origin gate's verdict; the matched range is kept for
// audit.
type GateResult struct {
	Allowed      bool
	MatchedRange *IPRange
}
