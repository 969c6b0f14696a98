package handler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trackforever_http_requests_total",
		Help: "HTTP requests by route pattern and status code.",
	}, []string{"route", "code"})

	rateLimitedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "trackforever_http_rate_limited_total",
		Help: "Requests rejected by the per-client rate limiter.",
	})
)
