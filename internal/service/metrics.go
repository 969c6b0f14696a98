package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/trackforever/backend/internal/outcome"
)

var (
	mergeKeysTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trackforever_merge_keys_total",
		Help: "Batch merge keys by entity and result (ok, unknown_project, malformed_entity).",
	}, []string{"entity", "result"})

	mergeBatchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trackforever_merge_batches_total",
		Help: "Batch merges by entity and aggregate status.",
	}, []string{"entity", "status"})

	lookupRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trackforever_lookup_requests_total",
		Help: "Requested-entity lookups by entity and aggregate status.",
	}, []string{"entity", "status"})
)

func recordMerge(entity string, r *outcome.Report) {
	for _, o := range r.Outcomes {
		result := "ok"
		if !o.OK() {
			result = string(o.Reason)
		}
		mergeKeysTotal.WithLabelValues(entity, result).Inc()
	}
	mergeBatchesTotal.WithLabelValues(entity, r.Status().String()).Inc()
}
