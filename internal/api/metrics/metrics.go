// Package metrics defines and registers all custom Prometheus metrics for
// the user portal. It is the single source of truth for metric names,
// labels, and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "user_portal"

// LoginAttemptsTotal counts login attempts by outcome.
// Label:
//   - result: "success", "invalid_credentials", "throttled", or "error"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of login attempts, labelled by result.",
	},
	[]string{"result"},
)

// AuthzDecisionsTotal counts access-policy decisions made by the gate
// middleware.
// Label:
//   - outcome: "allow", "deny_unauthorized", or "deny_forbidden"
var AuthzDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "authz_decisions_total",
		Help:      "Total number of access-policy decisions, labelled by outcome.",
	},
	[]string{"outcome"},
)

// RegistrationsTotal counts self-service account registrations by outcome.
// Label:
//   - result: "success", "duplicate", or "error"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of self-service registrations, labelled by result.",
	},
	[]string{"result"},
)

// HashDurationSeconds observes how long one password-hash computation
// takes. The KDF parameters are fixed, so drift here means host pressure.
var HashDurationSeconds = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "password_hash_duration_seconds",
		Help:      "Duration of a single password hash computation.",
		Buckets:   prometheus.DefBuckets,
	},
)

// BootstrapCreationsTotal counts rows the bootstrapper actually created.
// Stays flat on restarts of an already-seeded store.
// Label:
//   - kind: "role" or "account"
var BootstrapCreationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bootstrap_creations_total",
		Help:      "Total number of roles and accounts created during bootstrap.",
	},
	[]string{"kind"},
)
