// Package worker runs periodic background maintenance alongside the API
// server.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Sweeper is the maintenance task run on each tick.
type Sweeper interface {
	PurgeExpiredSessions(ctx context.Context) (int64, error)
}

// Config holds worker configuration.
type Config struct {
	// WorkerID uniquely identifies this worker instance in logs.
	WorkerID string

	// Interval is how often the sweep runs.
	Interval time.Duration
}

// Worker periodically purges expired sessions.
type Worker struct {
	config  Config
	sweeper Sweeper
	logger  *slog.Logger
}

// NewWorker creates a session sweep worker.
func NewWorker(sweeper Sweeper, config Config, logger *slog.Logger) *Worker {
	if config.WorkerID == "" {
		config.WorkerID = fmt.Sprintf("worker-%s", uuid.New().String()[:8])
	}
	if config.Interval == 0 {
		config.Interval = 15 * time.Minute
	}
	return &Worker{config: config, sweeper: sweeper, logger: logger}
}

// Start runs the sweep loop until the context is cancelled. One sweep
// runs immediately so expired sessions left over from a previous run do
// not linger for a full interval.
func (w *Worker) Start(ctx context.Context) error {
	w.logger.Info("worker starting",
		"worker_id", w.config.WorkerID,
		"interval", w.config.Interval,
	)

	w.sweep(ctx)

	ticker := time.NewTicker(w.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("worker shutting down", "worker_id", w.config.WorkerID)
			return ctx.Err()
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *Worker) sweep(ctx context.Context) {
	if _, err := w.sweeper.PurgeExpiredSessions(ctx); err != nil {
		w.logger.Error("session sweep failed",
			"worker_id", w.config.WorkerID,
			"error", err,
		)
	}
}
