package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Queue names reported by SetQueueSize.
const (
	QueuePendingKyc          = "pending_kyc"
	QueuePendingTransactions = "pending_transactions"
	QueueOpenTickets         = "open_tickets"
)

var (
	registerOnce          sync.Once
	httpDurationHistogram *prometheus.HistogramVec
	idempotencyCounter    *prometheus.CounterVec
	mutationCounter       *prometheus.CounterVec
	queueGauge            *prometheus.GaugeVec
	danglingRefGauge      *prometheus.GaugeVec
	workerRunCounter      *prometheus.CounterVec
)

// Init registers all Prometheus collectors.
func Init() {
	registerOnce.Do(func() {
		httpDurationHistogram = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "status"})

		idempotencyCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "idempotency_events_total",
			Help: "Idempotency middleware outcomes",
		}, []string{"outcome"})

		mutationCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "admin_mutations_total",
			Help: "Admin mutations by entity, action and outcome",
		}, []string{"entity", "action", "outcome"})

		queueGauge = prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "admin_queue_size",
			Help: "Records waiting for an admin decision",
		}, []string{"queue"})

		danglingRefGauge = prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "admin_dangling_user_references",
			Help: "Records referencing a user id missing from the user collection",
		}, []string{"collection"})

		workerRunCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "worker_runs_total",
			Help: "Background worker run outcomes",
		}, []string{"worker", "result"})

		prometheus.MustRegister(
			httpDurationHistogram,
			idempotencyCounter,
			mutationCounter,
			queueGauge,
			danglingRefGauge,
			workerRunCounter,
		)
	})
}

func ObserveHTTP(method, path string, status int, duration time.Duration) {
	if httpDurationHistogram == nil {
		return
	}
	httpDurationHistogram.WithLabelValues(method, path, strconv.Itoa(status)).Observe(duration.Seconds())
}

func IncrementIdempotencyEvent(outcome string) {
	if idempotencyCounter == nil {
		return
	}
	idempotencyCounter.WithLabelValues(outcome).Inc()
}

func IncrementMutation(entity, action, outcome string) {
	if mutationCounter == nil {
		return
	}
	mutationCounter.WithLabelValues(entity, action, outcome).Inc()
}

func SetQueueSize(queue string, size int) {
	if queueGauge == nil {
		return
	}
	queueGauge.WithLabelValues(queue).Set(float64(size))
}

func SetDanglingReferences(collection string, count int) {
	if danglingRefGauge == nil {
		return
	}
	danglingRefGauge.WithLabelValues(collection).Set(float64(count))
}

func IncrementWorkerRun(worker, result string) {
	if workerRunCounter == nil {
		return
	}
	workerRunCounter.WithLabelValues(worker, result).Inc()
}
