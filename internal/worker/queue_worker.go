package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/ayo6706/brokerage-admin/internal/observability"
	"github.com/ayo6706/brokerage-admin/internal/service"
	"go.uber.org/zap"
)

// StatsSource computes dashboard statistics without simulated latency.
type StatsSource interface {
	Snapshot(ctx context.Context) (service.Stats, error)
}

// QueueWorker publishes the sizes of the admin review queues as gauges.
// It polls the stats service at regular intervals.
type QueueWorker struct {
	stats        StatsSource
	logger       *zap.Logger
	pollInterval time.Duration
	stopCh       chan struct{}
}

// NewQueueWorker creates a new QueueWorker instance.
func NewQueueWorker(stats StatsSource, logger *zap.Logger) *QueueWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QueueWorker{
		stats:        stats,
		logger:       logger,
		pollInterval: 30 * time.Second,
		stopCh:       make(chan struct{}),
	}
}

// WithPollInterval sets the poll interval for the worker.
func (w *QueueWorker) WithPollInterval(interval time.Duration) *QueueWorker {
	if interval > 0 {
		w.pollInterval = interval
	}
	return w
}

// Start runs in a loop until Stop is called or the context is canceled.
func (w *QueueWorker) Start(ctx context.Context) {
	w.logger.Info("queue worker starting", zap.Duration("interval", w.pollInterval))

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.poll(ctx)
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("queue worker context canceled")
			return
		case <-w.stopCh:
			w.logger.Info("queue worker stop signal received")
			return
		case <-ticker.C:
			w.poll(ctx)
		}
	}
}

// Stop signals the worker to stop. It must be called at most once.
func (w *QueueWorker) Stop() {
	close(w.stopCh)
}

func (w *QueueWorker) poll(ctx context.Context) {
	if _, err := w.RunOnce(ctx); err != nil {
		w.logger.Error("queue snapshot failed", zap.Error(err))
	}
}

// RunOnce refreshes the queue gauges immediately.
func (w *QueueWorker) RunOnce(ctx context.Context) (service.Stats, error) {
	stats, err := w.stats.Snapshot(ctx)
	if err != nil {
		observability.IncrementWorkerRun("queues", "failed")
		return service.Stats{}, fmt.Errorf("snapshot stats: %w", err)
	}
	observability.SetQueueSize(observability.QueuePendingKyc, stats.PendingKyc)
	observability.SetQueueSize(observability.QueuePendingTransactions, stats.PendingTransactions)
	observability.SetQueueSize(observability.QueueOpenTickets, stats.OpenTickets)
	observability.IncrementWorkerRun("queues", "success")
	w.logger.Debug("queue sizes refreshed",
		zap.Int("pending_kyc", stats.PendingKyc),
		zap.Int("pending_transactions", stats.PendingTransactions),
		zap.Int("open_tickets", stats.OpenTickets))
	return stats, nil
}

// Run starts the worker and returns a function that stops it.
func (w *QueueWorker) Run(ctx context.Context) func() {
	go w.Start(ctx)
	return w.Stop
}

func (w *QueueWorker) String() string {
	return fmt.Sprintf("QueueWorker(interval=%v)", w.pollInterval)
}
