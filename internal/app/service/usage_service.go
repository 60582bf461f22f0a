package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"media-fetch-bot/internal/domain"
)

// PlatformUsage is the usage of one platform.
type PlatformUsage struct {
	Platform domain.Platform
	Total    int64
	Window   int64
}

// UsageReport summarizes successful resolutions.
type UsageReport struct {
	Since     time.Time
	Platforms []PlatformUsage
}

// UsageService builds usage reports from the ledger.
type UsageService struct {
	ledger domain.UsageLedger
	logger *zap.Logger
	now    func() time.Time
}

// NewUsageService creates a new UsageService.
func NewUsageService(ledger domain.UsageLedger, logger *zap.Logger) *UsageService {
	return &UsageService{
		ledger: ledger,
		logger: logger,
		now:    time.Now,
	}
}

// Report returns all-time totals and the counts within the trailing window
// for every platform, in domain.Platforms order.
func (s *UsageService) Report(ctx context.Context, window time.Duration) (*UsageReport, error) {
	counters, err := s.ledger.Counters(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading counters: %w", err)
	}

	totals := make(map[domain.Platform]int64, len(counters))
	for _, c := range counters {
		totals[c.Platform] = c.Count
	}

	report := &UsageReport{
		Since:     s.now().Add(-window).UTC(),
		Platforms: make([]PlatformUsage, 0, len(domain.Platforms)),
	}

	for _, p := range domain.Platforms {
		n, err := s.ledger.CountSince(ctx, p, report.Since)
		if err != nil {
			return nil, fmt.Errorf("counting %s requests: %w", p, err)
		}

		report.Platforms = append(report.Platforms, PlatformUsage{
			Platform: p,
			Total:    totals[p],
			Window:   n,
		})
	}

	s.logger.Debug("usage report built",
		zap.Time("since", report.Since),
		zap.Int("platforms", len(report.Platforms)),
	)

	return report, nil
}
