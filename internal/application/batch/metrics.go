package batch

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	domain "github.com/mohammadpnp/rendimientos-admin/internal/domain/batch"
)

var (
	recordsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "rendimientos",
		Subsystem: "batch",
		Name:      "records_total",
		Help:      "Rows processed by batch imports, by entity and outcome.",
	}, []string{"entity", "outcome"})

	runsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "rendimientos",
		Subsystem: "batch",
		Name:      "runs_total",
		Help:      "Finished batch imports, by entity and result.",
	}, []string{"entity", "result"})
)

func observeSummary(summary domain.Summary) {
	entity := string(summary.Entity)
	recordsTotal.WithLabelValues(entity, string(domain.OutcomeCreated)).Add(float64(summary.CreatedCount))
	recordsTotal.WithLabelValues(entity, string(domain.OutcomeSkippedDuplicate)).Add(float64(summary.SkippedCount))
	recordsTotal.WithLabelValues(entity, string(domain.OutcomeFailed)).Add(float64(summary.FailedCount))
	recordsTotal.WithLabelValues(entity, "rejected").Add(float64(summary.RejectedCount))
}

func observeRun(entity domain.Entity, summary domain.Summary, err error) {
	runsTotal.WithLabelValues(string(entity), domain.StatusOf(summary, err)).Inc()
}
