package worker

import (
	"context"
	"sync"
	"time"

	"github.com/ayo6706/brokerage-admin/internal/observability"
	"github.com/ayo6706/brokerage-admin/internal/service"
	"go.uber.org/zap"
)

// ReferenceScanner finds records pointing at users that do not exist.
type ReferenceScanner interface {
	Scan(ctx context.Context) (service.ReferenceReport, error)
}

// ReferenceWorker runs periodic dangling user reference checks.
type ReferenceWorker struct {
	scanner  ReferenceScanner
	logger   *zap.Logger
	interval time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewReferenceWorker constructs a worker with a default hourly interval.
func NewReferenceWorker(scanner ReferenceScanner, logger *zap.Logger) *ReferenceWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReferenceWorker{
		scanner:  scanner,
		logger:   logger,
		interval: time.Hour,
		stopCh:   make(chan struct{}),
	}
}

// WithInterval updates the run interval.
func (w *ReferenceWorker) WithInterval(interval time.Duration) *ReferenceWorker {
	if interval > 0 {
		w.interval = interval
	}
	return w
}

// Start blocks and runs the check at the configured interval.
func (w *ReferenceWorker) Start(ctx context.Context) {
	w.logger.Info("reference worker starting", zap.Duration("interval", w.interval))
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.runOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("reference worker context canceled")
			return
		case <-w.stopCh:
			w.logger.Info("reference worker stop signal received")
			return
		case <-ticker.C:
			w.runOnce(ctx)
		}
	}
}

// Stop stops the running worker loop.
func (w *ReferenceWorker) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
	})
}

// Run starts the worker in a goroutine and returns a stop function.
func (w *ReferenceWorker) Run(ctx context.Context) func() {
	go w.Start(ctx)
	return w.Stop
}

func (w *ReferenceWorker) runOnce(ctx context.Context) {
	if _, err := w.RunOnce(ctx); err != nil {
		w.logger.Error("reference check failed", zap.Error(err))
	}
}

// RunOnce scans once and publishes the per-collection counts.
func (w *ReferenceWorker) RunOnce(ctx context.Context) (service.ReferenceReport, error) {
	report, err := w.scanner.Scan(ctx)
	if err != nil {
		observability.IncrementWorkerRun("references", "failed")
		return service.ReferenceReport{}, err
	}
	observability.SetDanglingReferences("transactions", len(report.Transactions))
	observability.SetDanglingReferences("kyc_requests", len(report.KycRequests))
	observability.SetDanglingReferences("tickets", len(report.Tickets))
	observability.IncrementWorkerRun("references", "success")
	if report.Total > 0 {
		w.logger.Warn("dangling user references found",
			zap.Int("total", report.Total),
			zap.Int("transactions", len(report.Transactions)),
			zap.Int("kyc_requests", len(report.KycRequests)),
			zap.Int("tickets", len(report.Tickets)))
	}
	return report, nil
}
