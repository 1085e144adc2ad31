// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package metrics defines the Prometheus collectors exported on /metrics.
// Collectors register with the default registry at package init.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "portfolio"

// HTTPRequestsTotal counts handled requests.
// Labels:
//   - method: HTTP method
//   - route: chi route pattern, e.g. "/projects/{slug}"
//   - status: response status code
var HTTPRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests, by method, route and status.",
	},
	[]string{"method", "route", "status"},
)

// HTTPRequestDuration measures request latency per route.
var HTTPRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests, by method and route.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method", "route"},
)

// PageCacheTotal counts page cache lookups.
// Label:
//   - result: "hit" or "miss"
var PageCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "page_cache_lookups_total",
		Help:      "Total number of page cache lookups, labelled by result (hit/miss).",
	},
	[]string{"result"},
)

// PagesRevalidatedTotal counts page paths dropped from the cache after a write.
var PagesRevalidatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "pages_revalidated_total",
		Help:      "Total number of cached page paths invalidated, by triggering action.",
	},
	[]string{"action"},
)

// ProjectMutationsTotal counts workflow outcomes.
// Labels:
//   - action: "create", "update" or "delete"
//   - outcome: "ok" or the error kind, e.g. "conflict"
var ProjectMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "project_mutations_total",
		Help:      "Total number of project mutations, by action and outcome.",
	},
	[]string{"action", "outcome"},
)

// LoginAttemptsTotal counts login attempts.
// Label:
//   - result: "success", "fallback" (environment credentials), "failure" or "limited"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of admin login attempts, by result.",
	},
	[]string{"result"},
)

// DegradedReadsTotal counts public reads that fell back to an empty result.
var DegradedReadsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "degraded_reads_total",
		Help:      "Total number of repository reads answered with a fallback, by operation.",
	},
	[]string{"operation"},
)
