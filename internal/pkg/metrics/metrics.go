// Package metrics defines the Prometheus collectors of the auth portal. All
// collectors are registered with the default registry on package init and
// exposed by the /metrics route.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "auth_portal"

// ── Authentication ──────────────────────────────────────────────────────────

// AuthAttemptsTotal counts login attempts.
// Labels:
//   - tenant: "student" or "company"
//   - result: "success", "invalid", "rejected" (validation) or "error"
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of login attempts, by tenant and result.",
	},
	[]string{"tenant", "result"},
)

// SessionsRevokedTotal counts successful logouts.
var SessionsRevokedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_revoked_total",
		Help:      "Total number of sessions revoked by logout.",
	},
)

// ── Storage ─────────────────────────────────────────────────────────────────

// StorageBackendSelectedTotal counts facade backend resolutions.
// Label:
//   - backend: "memory", "postgres" or "mongo"
var StorageBackendSelectedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "storage_backend_selected_total",
		Help:      "Total number of times the storage facade resolved a backend.",
	},
	[]string{"backend"},
)

// StorageOperationErrorsTotal counts backend calls that failed because the
// store was unreachable.
var StorageOperationErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "storage_operation_errors_total",
		Help:      "Total number of storage operations that failed with the backend unavailable.",
	},
	[]string{"backend", "operation"},
)

// StorageOperationDuration measures a single facade call end to end.
var StorageOperationDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "storage_operation_duration_seconds",
		Help:      "Duration of storage operations, by backend and operation.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"backend", "operation"},
)
