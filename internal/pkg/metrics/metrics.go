// Package metrics defines and registers the custom Prometheus collectors of the
// job board API. It is the single source of truth for metric names, labels and
// help strings.
//
// Collectors are registered with the default registry on import (promauto), so
// /metrics exposes them next to the HTTP metrics from echoprometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "jobboard"

// ── Integrity metrics ─────────────────────────────────────────────────────────

// CascadeDeletesTotal counts records removed by a cascading delete.
// Labels:
//   - entity: "user", "job" or "applicant"
//   - operation: the coordinator operation that removed them (e.g. "delete_user")
var CascadeDeletesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cascade_deletes_total",
		Help:      "Total number of records removed by cascading deletes.",
	},
	[]string{"entity", "operation"},
)

// CascadeFailuresTotal counts cascades aborted by a store failure.
// Label:
//   - step: the step that failed (e.g. "delete jobs")
var CascadeFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cascade_failures_total",
		Help:      "Total number of cascades aborted by a failing step.",
	},
	[]string{"step"},
)

// ApplicationsTotal counts job applications by outcome.
// Label:
//   - result: "applied", "duplicate", "job_not_found", "rejected_input" or "error"
var ApplicationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "applications_total",
		Help:      "Total number of job applications, by outcome.",
	},
	[]string{"result"},
)

// ApplicantDecisionsTotal counts provider decisions on applicants.
// Label:
//   - decision: "shortlisted" or "rejected"
var ApplicantDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "applicant_decisions_total",
		Help:      "Total number of shortlist and reject decisions.",
	},
	[]string{"decision"},
)

// ── Resume cleanup metrics ────────────────────────────────────────────────────

// ResumeCleanupTotal counts resume file removals.
// Label:
//   - result: "removed" or "failed"
var ResumeCleanupTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "resume_cleanup_total",
		Help:      "Total number of resume file removals, by result.",
	},
	[]string{"result"},
)

// CleanupQueueDepth tracks the files waiting in each cleanup worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var CleanupQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "cleanup_queue_depth",
		Help:      "Current number of resume files pending in each cleanup worker channel.",
	},
	[]string{"worker_id"},
)
