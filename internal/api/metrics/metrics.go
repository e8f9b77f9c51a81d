// Package metrics defines and registers the custom Prometheus metrics of the
// clubhub API. HTTP request metrics come from echoprometheus; the counters
// here describe what happened in the domain.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const Namespace = "clubhub"

// EntitiesCreatedTotal counts created documents.
// Label:
//   - entity: "club", "post", "comment" or "user"
var EntitiesCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "entities_created_total",
		Help:      "Total number of documents created, by entity.",
	},
	[]string{"entity"},
)

// RelationUpdatesTotal counts two-sided reference updates.
// Labels:
//   - relation: e.g. "club_follow", "post_like", "club_executive"
//   - action: "add" or "remove"
//   - result: "ok" or the error_name returned to the client
var RelationUpdatesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "relation_updates_total",
		Help:      "Total number of relationship updates, by relation, action and result.",
	},
	[]string{"relation", "action", "result"},
)

// ErrorsTotal counts error responses.
// Labels:
//   - error_name: the machine-readable name in the error envelope
//   - status: the HTTP status code
var ErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "errors_total",
		Help:      "Total number of error responses, by error name and status.",
	},
	[]string{"error_name", "status"},
)

// AuthFailuresTotal counts rejected credentials.
// Label:
//   - reason: "missing", "invalid", "domain_not_allowed"
var AuthFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "auth_failures_total",
		Help:      "Total number of requests rejected by authentication, by reason.",
	},
	[]string{"reason"},
)

// RateLimitedTotal counts requests rejected by the per-IP limiter.
var RateLimitedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "rate_limited_total",
		Help:      "Total number of requests rejected by the rate limiter.",
	},
)
