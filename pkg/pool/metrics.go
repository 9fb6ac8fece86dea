package pool

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors for one or more pools. Every series
// carries a "pool" label with the pool name. A nil *Metrics records nothing.
type Metrics struct {
	jobsSubmitted *prometheus.CounterVec
	jobsCompleted *prometheus.CounterVec
	jobsPanicked  *prometheus.CounterVec
	jobsRejected  *prometheus.CounterVec
	jobsAbandoned *prometheus.CounterVec
	queueDepth    *prometheus.GaugeVec
	busyWorkers   *prometheus.GaugeVec
	jobDuration   *prometheus.HistogramVec
}

// NewMetrics creates the pool collectors under namespace and registers them
// with reg.
func NewMetrics(namespace string, reg prometheus.Registerer) (*Metrics, error) {
	labels := []string{"pool"}
	m := &Metrics{
		jobsSubmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "jobs_submitted_total",
			Help:      "Total number of jobs accepted by the pool.",
		}, labels),
		jobsCompleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "jobs_completed_total",
			Help:      "Total number of jobs that finished executing, including panicked ones.",
		}, labels),
		jobsPanicked: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "jobs_panicked_total",
			Help:      "Total number of jobs that panicked.",
		}, labels),
		jobsRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "jobs_rejected_total",
			Help:      "Total number of jobs rejected because the queue was full.",
		}, labels),
		jobsAbandoned: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "jobs_abandoned_total",
			Help:      "Total number of queued jobs dropped at shutdown.",
		}, labels),
		queueDepth: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "queue_depth",
			Help:      "Number of jobs waiting in the queue.",
		}, labels),
		busyWorkers: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "busy_workers",
			Help:      "Number of workers currently executing a job.",
		}, labels),
		jobDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "job_duration_seconds",
			Help:      "Job execution time.",
			Buckets:   prometheus.DefBuckets,
		}, labels),
	}

	collectors := []prometheus.Collector{
		m.jobsSubmitted,
		m.jobsCompleted,
		m.jobsPanicked,
		m.jobsRejected,
		m.jobsAbandoned,
		m.queueDepth,
		m.busyWorkers,
		m.jobDuration,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) submitted(pool string, queued int) {
	if m == nil {
		return
	}
	m.jobsSubmitted.WithLabelValues(pool).Inc()
	m.queueDepth.WithLabelValues(pool).Set(float64(queued))
}

func (m *Metrics) rejected(pool string) {
	if m == nil {
		return
	}
	m.jobsRejected.WithLabelValues(pool).Inc()
}

func (m *Metrics) started(pool string, queued, busy int) {
	if m == nil {
		return
	}
	m.queueDepth.WithLabelValues(pool).Set(float64(queued))
	m.busyWorkers.WithLabelValues(pool).Set(float64(busy))
}

func (m *Metrics) finished(pool string, busy int, elapsed time.Duration, panicked bool) {
	if m == nil {
		return
	}
	m.jobsCompleted.WithLabelValues(pool).Inc()
	if panicked {
		m.jobsPanicked.WithLabelValues(pool).Inc()
	}
	m.busyWorkers.WithLabelValues(pool).Set(float64(busy))
	m.jobDuration.WithLabelValues(pool).Observe(elapsed.Seconds())
}

func (m *Metrics) abandoned(pool string, n int) {
	if m == nil {
		return
	}
	m.jobsAbandoned.WithLabelValues(pool).Add(float64(n))
	m.queueDepth.WithLabelValues(pool).Set(0)
}
