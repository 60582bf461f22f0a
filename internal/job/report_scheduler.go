// Package job provides background job schedulers.
package job

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"media-fetch-bot/internal/app/service"
	"media-fetch-bot/internal/metrics"
	"media-fetch-bot/pkg/locker"
)

const reportLockKey = "usage-report"

// Reporter builds usage reports.
type Reporter interface {
	Report(ctx context.Context, window time.Duration) (*service.UsageReport, error)
}

// ReportConfig holds report scheduler configuration.
type ReportConfig struct {
	Interval  time.Duration
	Window    time.Duration
	OnStartup bool
}

// ReportScheduler periodically logs windowed usage per platform and publishes
// it as gauges. A distributed lock keeps the job to one instance per interval.
type ReportScheduler struct {
	reporter Reporter
	cfg      ReportConfig
	metrics  *metrics.Metrics
	locker   locker.DistributedLocker
	logger   *zap.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewReportScheduler creates a new ReportScheduler.
func NewReportScheduler(
	reporter Reporter,
	cfg ReportConfig,
	m *metrics.Metrics,
	l locker.DistributedLocker,
	logger *zap.Logger,
) *ReportScheduler {
	return &ReportScheduler{
		reporter: reporter,
		cfg:      cfg,
		metrics:  m,
		locker:   l,
		logger:   logger,
	}
}

// Start begins the background job.
func (s *ReportScheduler) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	s.logger.Info("starting report scheduler",
		zap.Duration("interval", s.cfg.Interval),
		zap.Duration("window", s.cfg.Window),
		zap.Bool("run_on_startup", s.cfg.OnStartup),
	)

	s.wg.Add(1)
	go s.run(ctx)
}

// Stop stops the job and waits for a running report to finish.
func (s *ReportScheduler) Stop() {
	if s.cancel == nil {
		return
	}

	s.logger.Info("stopping report scheduler")
	s.cancel()
	s.wg.Wait()
	s.logger.Info("report scheduler stopped")
}

func (s *ReportScheduler) run(ctx context.Context) {
	defer s.wg.Done()

	if s.cfg.OnStartup {
		s.RunOnce(ctx)
	}

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}

// RunOnce builds and publishes one report if no other instance did so within
// the current interval. It returns whether the report ran.
//
// The lock TTL equals the interval: after a successful report the lock is
// left to expire so other instances skip the same period. On failure the lock
// is released at once so another instance can retry.
func (s *ReportScheduler) RunOnce(ctx context.Context) bool {
	acquired, err := s.locker.Acquire(ctx, reportLockKey, s.cfg.Interval)
	if err != nil {
		s.logger.Error("failed to acquire report lock", zap.Error(err))
		return false
	}
	if !acquired {
		s.logger.Debug("another instance produced the usage report, skipping")
		return false
	}

	report, err := s.reporter.Report(ctx, s.cfg.Window)
	if err != nil {
		s.logger.Error("usage report failed", zap.Error(err))
		if err := s.locker.Release(ctx, reportLockKey); err != nil {
			s.logger.Error("failed to release report lock", zap.Error(err))
		}
		return true
	}

	var total int64
	for _, p := range report.Platforms {
		total += p.Window
		s.metrics.SetWindowRequests(string(p.Platform), p.Window)
		s.logger.Info("platform usage",
			zap.String("platform", string(p.Platform)),
			zap.Int64("window_requests", p.Window),
			zap.Int64("total_requests", p.Total),
		)
	}

	s.logger.Info("usage report completed",
		zap.Time("since", report.Since),
		zap.Int64("window_requests", total),
	)

	return true
}
