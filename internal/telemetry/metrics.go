// Package telemetry exposes prometheus collectors for submissions, ranking and
// the text service.
package telemetry

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "roomfinder"

// Metrics groups every collector the service records. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	gatherer prometheus.Gatherer

	submissions  *prometheus.CounterVec
	rankings     *prometheus.CounterVec
	textService  *prometheus.HistogramVec
	corpusSize   prometheus.Gauge
	enrichFailed prometheus.Counter
}

// New registers the collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return NewWith(reg, reg)
}

// NewWith registers the collectors on reg and serves them from g.
func NewWith(reg prometheus.Registerer, g prometheus.Gatherer) *Metrics {
	m := &Metrics{
		gatherer: g,
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submissions_total",
			Help:      "Form submissions by schema, operation and status.",
		}, []string{"schema", "operation", "status"}),
		rankings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ranking_requests_total",
			Help:      "Ranking requests by outcome.",
		}, []string{"outcome"}),
		textService: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "text_service_duration_seconds",
			Help:      "Latency of text service calls by task and result.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		}, []string{"task", "result"}),
		corpusSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "corpus_rooms",
			Help:      "Rooms currently in the corpus.",
		}),
		enrichFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "enrichment_failures_total",
			Help:      "Create submissions rejected because description enrichment failed.",
		}),
	}
	reg.MustRegister(m.submissions, m.rankings, m.textService, m.corpusSize, m.enrichFailed)
	return m
}

// Handler serves the registry in the prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil || m.gatherer == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

func (m *Metrics) Submission(schema, operation, status string) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(schema, operation, status).Inc()
}

func (m *Metrics) Ranking(outcome string) {
	if m == nil {
		return
	}
	m.rankings.WithLabelValues(outcome).Inc()
}

// TextServiceCall records one call of task that started at start.
func (m *Metrics) TextServiceCall(task string, start time.Time, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.textService.WithLabelValues(task, result).Observe(time.Since(start).Seconds())
}

func (m *Metrics) CorpusSize(n int) {
	if m == nil {
		return
	}
	m.corpusSize.Set(float64(n))
}

func (m *Metrics) EnrichmentFailed() {
	if m == nil {
		return
	}
	m.enrichFailed.Inc()
}
