// Package metrics defines and registers the custom Prometheus metrics of the
// ScholarHub API. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics are registered with the default Prometheus registry at package
// initialisation; HTTP request metrics are added by echoprometheus in the
// router.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "scholarhub"

// ── Resource metrics ──────────────────────────────────────────────────────────

// DownloadsTotal counts successful file downloads.
var DownloadsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "downloads_total",
		Help:      "Total number of resource files served.",
	},
)

// UploadsTotal counts created resources.
// Label:
//   - kind: "file" or "link"
var UploadsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "uploads_total",
		Help:      "Total number of resources created, by payload kind.",
	},
	[]string{"kind"},
)

// BookmarkTogglesTotal counts bookmark toggles.
// Label:
//   - action: "added" or "removed"
var BookmarkTogglesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bookmark_toggles_total",
		Help:      "Total number of bookmark toggles, by resulting action.",
	},
	[]string{"action"},
)

// ── User metrics ──────────────────────────────────────────────────────────────

// RegistrationsTotal counts new accounts.
// Label:
//   - role: the role assigned at registration
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of registered users, by assigned role.",
	},
	[]string{"role"},
)

// ── Infrastructure metrics ────────────────────────────────────────────────────

// StoreReconnectsTotal counts connections opened by the persistence gateway
// after the first one.
var StoreReconnectsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "store_reconnects_total",
		Help:      "Total number of document store reconnections.",
	},
)

// AuditQueueDepth tracks the number of download events waiting in each
// audit worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of download events pending in each audit worker channel.",
	},
	[]string{"worker_id"},
)
