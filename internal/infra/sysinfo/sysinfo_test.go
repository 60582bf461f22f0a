package sysinfo

import (
	"context"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCollector_Collect(t *testing.T) {
	c := NewCollector(0)
	c.started = time.Now().Add(-time.Minute)

	s := c.Collect(context.Background())

	assert.Equal(t, runtime.NumCPU(), s.CPUCores)
	assert.Positive(t, s.Goroutines)
	assert.GreaterOrEqual(t, s.ProcessUptime, time.Minute)
	assert.GreaterOrEqual(t, s.MemPercent, 0.0)
}

func TestCollector_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := NewCollector(0).Collect(ctx)

	// Runtime values do not depend on gopsutil.
	assert.Equal(t, runtime.NumCPU(), s.CPUCores)
}
