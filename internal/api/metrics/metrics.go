// Package metrics defines the custom Prometheus metrics of the invoicing API.
// They are registered with the default registry on package init.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "invoicing"

// ── Workflow metrics ──────────────────────────────────────────────────────────

// InvoicesGeneratedTotal counts invoices whose header and entries were saved.
var InvoicesGeneratedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "invoices_generated_total",
		Help:      "Total number of invoices generated.",
	},
)

// GenerateErrorsTotal counts failed generate requests.
// Label:
//   - reason: "validation", "in_progress", "persistence", "partial" or "internal"
var GenerateErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "generate_errors_total",
		Help:      "Total number of generate requests that failed, by reason.",
	},
	[]string{"reason"},
)

// GenerateDuration measures a generate request from lock to saved session.
var GenerateDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "generate_duration_seconds",
		Help:      "Duration of invoice generation.",
		Buckets:   prometheus.DefBuckets,
	},
)

// EntriesAddedTotal counts work entries added to drafts.
// Label:
//   - kind: "fixed_hourly" or "casual"
var EntriesAddedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "entries_added_total",
		Help:      "Total number of work entries added to drafts, by kind.",
	},
	[]string{"kind"},
)

// DocumentsRenderedTotal counts PDF documents served.
// Label:
//   - source: "draft" for the just generated invoice, "history" for re-renders
var DocumentsRenderedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "documents_rendered_total",
		Help:      "Total number of invoice documents rendered.",
	},
	[]string{"source"},
)

// ── Audit metrics ─────────────────────────────────────────────────────────────

// AuditQueueDepth tracks the events waiting in each audit worker channel.
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of audit events pending in each worker channel.",
	},
	[]string{"worker_id"},
)

// AuditDroppedTotal counts events discarded because a worker channel was full.
var AuditDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_dropped_total",
		Help:      "Total number of audit events dropped on a full queue.",
	},
)
