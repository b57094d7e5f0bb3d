// Package metrics defines and registers all custom Prometheus metrics for
// the Paquexpress client core. It is the single source of truth for metric
// names, labels, and help strings.
//
// Metrics register with the default registry at import time via promauto;
// the devserver exposes them on /metrics alongside its own.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "paquexpress_client"

// GatewayRequestsTotal counts outbound API requests by outcome.
// Labels:
//   - outcome: "ok", "unauthorized", "network_error", "server_error", "client_error"
var GatewayRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "gateway_requests_total",
		Help:      "Total number of outbound API requests, by outcome.",
	},
	[]string{"outcome"},
)

// GatewayRetriesTotal counts the single post-renewal replays performed after
// an unauthorized response.
var GatewayRetriesTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "gateway_retries_total",
		Help:      "Total number of requests replayed once after credential renewal.",
	},
)

// RenewalsTotal counts credential renewals by result.
// Label:
//   - result: "ok", "rejected", "network_error"
var RenewalsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "renewals_total",
		Help:      "Total number of access-token renewal attempts, by result.",
	},
	[]string{"result"},
)

// TenantResolutionsTotal counts tenant resolutions by the step that won.
// Label:
//   - step: "host", "cache", "default", "redirect", "unresolved"
var TenantResolutionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tenant_resolutions_total",
		Help:      "Total number of tenant resolution passes, by resolving step.",
	},
	[]string{"step"},
)

// GatewayRequestDuration measures outbound request latency end-to-end,
// including the one post-renewal replay when it happens.
var GatewayRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "gateway_request_duration_seconds",
		Help:      "Duration of outbound API requests.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"outcome"},
)
