package scheduler

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/iaintshootinmis/MeshWttr/internal/observability"
	"github.com/iaintshootinmis/MeshWttr/internal/pipeline"
)

// Runner is the broadcast cycle the scheduler drives on each tick.
type Runner interface {
	Run(ctx context.Context, location string) error
}

var _ Runner = (*pipeline.Pipeline)(nil)

// Scheduler runs the broadcast pipeline on a fixed interval. It tracks
// whether the most recent cycle delivered, which backs the daemon's
// readiness endpoint.
type Scheduler struct {
	scheduler *gocron.Scheduler
	runner    Runner
	logger    *slog.Logger
	metrics   *observability.Metrics

	location string
	interval time.Duration
	timeout  time.Duration

	lastOK atomic.Bool
}

// New creates a Scheduler that broadcasts for location every interval.
// Each cycle runs under its own context bounded by timeout.
func New(runner Runner, location string, interval, timeout time.Duration,
	logger *slog.Logger, metrics *observability.Metrics) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		runner:    runner,
		logger:    logger,
		metrics:   metrics,
		location:  location,
		interval:  interval,
		timeout:   timeout,
	}
}

// Start schedules the broadcast job and starts the underlying scheduler.
// The first cycle fires immediately rather than one interval from now.
func (s *Scheduler) Start() error {
	_, err := s.scheduler.Every(s.interval).StartImmediately().Do(s.runOnce)
	if err != nil {
		return err
	}
	s.scheduler.StartAsync()
	s.logger.Info("broadcast scheduler started",
		"location", s.location, "interval", s.interval)
	return nil
}

// Stop halts the scheduler. A cycle already in flight finishes.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}

// Ready reports whether the most recent broadcast cycle delivered in
// full. It is false until the first cycle completes.
func (s *Scheduler) Ready() bool {
	return s.lastOK.Load()
}

func (s *Scheduler) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if err := s.runner.Run(ctx, s.location); err != nil {
		s.logger.Error("scheduled broadcast failed", "location", s.location, "error", err)
		s.metrics.BroadcastsTotal.WithLabelValues("error").Inc()
		s.lastOK.Store(false)
		return
	}

	s.metrics.BroadcastsTotal.WithLabelValues("success").Inc()
	s.metrics.LastBroadcastSuccess.SetToCurrentTime()
	s.lastOK.Store(true)
}
