package job

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"media-fetch-bot/internal/app/service"
	"media-fetch-bot/internal/domain"
	"media-fetch-bot/internal/metrics"
	"media-fetch-bot/pkg/locker"
)

type stubReporter struct {
	mu     sync.Mutex
	calls  int
	report *service.UsageReport
	err    error
}

func (r *stubReporter) Report(ctx context.Context, window time.Duration) (*service.UsageReport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.calls++

	return r.report, r.err
}

func (r *stubReporter) Calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.calls
}

func newLocker(t *testing.T, mr *miniredis.Miniredis) locker.DistributedLocker {
	t.Helper()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return locker.NewRedisLocker(client, "test", zap.NewNop())
}

func sampleReport() *service.UsageReport {
	return &service.UsageReport{
		Since: time.Now().Add(-7 * 24 * time.Hour),
		Platforms: []service.PlatformUsage{
			{Platform: domain.PlatformTikTok, Total: 40, Window: 12},
			{Platform: domain.PlatformFacebook, Total: 3, Window: 1},
		},
	}
}

func TestReportScheduler_RunOncePublishesGauges(t *testing.T) {
	mr := miniredis.RunT(t)
	m := metrics.New()
	reporter := &stubReporter{report: sampleReport()}
	s := NewReportScheduler(reporter, ReportConfig{Interval: time.Minute, Window: 7 * 24 * time.Hour}, m, newLocker(t, mr), zap.NewNop())

	ran := s.RunOnce(context.Background())

	require.True(t, ran)
	assert.Equal(t, 1, reporter.Calls())

	count, err := testutil.GatherAndCount(m.Registry(), "mediafetch_window_requests")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestReportScheduler_SecondInstanceSkipsInterval(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := ReportConfig{Interval: time.Minute, Window: time.Hour}
	first := &stubReporter{report: sampleReport()}
	second := &stubReporter{report: sampleReport()}

	a := NewReportScheduler(first, cfg, metrics.New(), newLocker(t, mr), zap.NewNop())
	b := NewReportScheduler(second, cfg, metrics.New(), newLocker(t, mr), zap.NewNop())

	assert.True(t, a.RunOnce(context.Background()))
	assert.False(t, b.RunOnce(context.Background()))
	assert.Equal(t, 0, second.Calls())

	mr.FastForward(2 * time.Minute)

	assert.True(t, b.RunOnce(context.Background()))
}

func TestReportScheduler_FailureReleasesLock(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := ReportConfig{Interval: time.Minute, Window: time.Hour}
	failing := &stubReporter{err: errors.New("db down")}
	healthy := &stubReporter{report: sampleReport()}

	a := NewReportScheduler(failing, cfg, metrics.New(), newLocker(t, mr), zap.NewNop())
	b := NewReportScheduler(healthy, cfg, metrics.New(), newLocker(t, mr), zap.NewNop())

	assert.True(t, a.RunOnce(context.Background()))
	assert.True(t, b.RunOnce(context.Background()))
	assert.Equal(t, 1, healthy.Calls())
}

func TestReportScheduler_StartStop(t *testing.T) {
	mr := miniredis.RunT(t)
	reporter := &stubReporter{report: sampleReport()}
	s := NewReportScheduler(reporter, ReportConfig{Interval: time.Hour, Window: time.Hour, OnStartup: true},
		metrics.New(), newLocker(t, mr), zap.NewNop())

	s.Start()
	require.Eventually(t, func() bool { return reporter.Calls() == 1 }, time.Second, 10*time.Millisecond)
	s.Stop()
}
