// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package twitter

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts upstream traffic for one client.
type Metrics struct {
	Requests         *prometheus.CounterVec
	Fallbacks        *prometheus.CounterVec
	QueryIDRefreshes prometheus.Counter
}

// NewMetrics builds the client collectors and registers them with reg when
// reg is non-nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "chirp",
			Name:      "upstream_requests_total",
			Help:      "Upstream requests by operation and HTTP status (or error/timeout).",
		}, []string{"operation", "status"}),
		Fallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "chirp",
			Name:      "posting_fallbacks_total",
			Help:      "Posting fallback tiers entered, by tier.",
		}, []string{"tier"}),
		QueryIDRefreshes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "chirp",
			Name:      "query_id_refreshes_total",
			Help:      "Query id refreshes triggered by HTTP 404.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.Requests, m.Fallbacks, m.QueryIDRefreshes)
	}
	return m
}
