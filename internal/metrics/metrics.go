// Package metrics defines the Prometheus counters for authentication decisions.
//
// All collectors are registered with the default registry and served by
// promhttp on /metrics.
package metrics

import "github.com/prometheus/client_golang/prometheus"

const (
	ResultSuccess            = "success"
	ResultInvalidCredentials = "invalid_credentials"
	ResultInvalidRequest     = "invalid_request"
	ResultError              = "error"

	DecisionAllowed   = "allowed"
	DecisionDenied    = "denied"
	DecisionNoSession = "no_session"
	DecisionInvalid   = "invalid_session"
	DecisionExpired   = "session_expired"
)

var (
	// LoginsTotal counts login attempts by result.
	LoginsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dojo_auth_logins_total",
			Help: "Total login attempts by result.",
		},
		[]string{"result"},
	)

	// GateDecisionsTotal counts session gate outcomes by capability and decision.
	GateDecisionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dojo_auth_gate_decisions_total",
			Help: "Total session gate decisions by capability and decision.",
		},
		[]string{"capability", "decision"},
	)

	// SessionsPurgedTotal counts expired sessions removed from the store.
	SessionsPurgedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dojo_auth_sessions_purged_total",
			Help: "Total expired sessions deleted, by trigger.",
		},
		[]string{"trigger"},
	)

	// AccountChangesTotal counts account mutations by operation.
	AccountChangesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dojo_auth_account_changes_total",
			Help: "Total successful account mutations by operation.",
		},
		[]string{"operation"},
	)
)

func init() {
	prometheus.MustRegister(LoginsTotal, GateDecisionsTotal, SessionsPurgedTotal, AccountChangesTotal)
}

func RecordLogin(result string) {
	LoginsTotal.WithLabelValues(result).Inc()
}

func RecordGateDecision(capability, decision string) {
	GateDecisionsTotal.WithLabelValues(capability, decision).Inc()
}

// RecordPurge adds n deleted sessions. trigger is "lazy" or "scheduled".
func RecordPurge(trigger string, n int64) {
	if n <= 0 {
		return
	}
	SessionsPurgedTotal.WithLabelValues(trigger).Add(float64(n))
}

func RecordAccountChange(operation string) {
	AccountChangesTotal.WithLabelValues(operation).Inc()
}
