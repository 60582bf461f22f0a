// Package sysinfo collects host and process statistics for the admin API.
package sysinfo

import (
	"context"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
)

// Snapshot is a point-in-time view of the host and this process.
type Snapshot struct {
	Hostname      string
	OS            string
	HostUptime    time.Duration
	ProcessUptime time.Duration
	CPUCores      int
	CPUPercent    float64
	MemTotal      uint64
	MemUsed       uint64
	MemPercent    float64
	Goroutines    int
}

// Collector reads host statistics. Sources that fail are left zero.
type Collector struct {
	started time.Time
	sample  time.Duration
}

// NewCollector creates a Collector. sample is the CPU measurement window;
// zero compares against the previous call instead of blocking.
func NewCollector(sample time.Duration) *Collector {
	return &Collector{started: time.Now(), sample: sample}
}

// Collect takes a snapshot.
func (c *Collector) Collect(ctx context.Context) *Snapshot {
	s := &Snapshot{
		ProcessUptime: time.Since(c.started),
		CPUCores:      runtime.NumCPU(),
		Goroutines:    runtime.NumGoroutine(),
	}

	if info, err := host.InfoWithContext(ctx); err == nil {
		s.Hostname = info.Hostname
		s.OS = info.OS
		s.HostUptime = time.Duration(info.Uptime) * time.Second
	}

	if percent, err := cpu.PercentWithContext(ctx, c.sample, false); err == nil && len(percent) > 0 {
		s.CPUPercent = percent[0]
	}

	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		s.MemTotal = vm.Total
		s.MemUsed = vm.Used
		s.MemPercent = vm.UsedPercent
	}

	return s
}
