package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ScanDecisions counts every scan outcome written to the audit trail,
// labeled by result (success, ip_denied, invalid_qr, expired_qr, no_session, error).
var ScanDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "shukketsu",
	Name:      "scan_decisions_total",
	Help:      "Attendance scan outcomes by audit result.",
}, []string{"result"})

// ApprovalDecisions counts resolved absence requests by decision.
var ApprovalDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "shukketsu",
	Name:      "approval_decisions_total",
	Help:      "Absence request decisions by action.",
}, []string{"decision"})
