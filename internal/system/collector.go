// Package system collects host metrics (CPU, memory, disk, network) and
// provides threshold alerts, a live refresh loop and CSV history recording.
package system

import (
	"context"
	"fmt"
	"time"

	"github.com/devdash-cli/devdash/internal/apierr"
)

const (
	RootPath        = "/"
	TimestampLayout = "2006-01-02 15:04:05"

	gib = 1 << 30
	mib = 1 << 20
)

// Collector reads metrics from a Source, mapping failures to TransportError.
type Collector struct {
	src Source
	now func() time.Time
}

func NewCollector(src Source) *Collector {
	return &Collector{src: src, now: time.Now}
}

// NewHostCollector collects metrics of the local host.
func NewHostCollector() *Collector {
	return NewCollector(HostSource{})
}

func failed(op string, err error) error {
	return &apierr.TransportError{Service: "system", Op: op, Err: err}
}

func (c *Collector) CPUUsage(ctx context.Context) (float64, error) {
	v, err := c.src.CPUPercent(ctx)
	if err != nil {
		return 0, failed("read cpu usage", err)
	}
	return v, nil
}

func (c *Collector) MemoryUsage(ctx context.Context) (*MemoryUsage, error) {
	v, err := c.src.Memory(ctx)
	if err != nil {
		return nil, failed("read memory usage", err)
	}
	return v, nil
}

// DiskUsage reports the usage of the root filesystem.
func (c *Collector) DiskUsage(ctx context.Context) (*DiskUsage, error) {
	v, err := c.src.Disk(ctx, RootPath)
	if err != nil {
		return nil, failed("read disk usage", err)
	}
	return v, nil
}

func (c *Collector) NetworkStats(ctx context.Context) (*NetworkStats, error) {
	v, err := c.src.Network(ctx)
	if err != nil {
		return nil, failed("read network counters", err)
	}
	return v, nil
}

func (c *Collector) SystemInfo(ctx context.Context) (*Info, error) {
	v, err := c.src.Info(ctx)
	if err != nil {
		return nil, failed("read system info", err)
	}
	return v, nil
}

func (c *Collector) BootTime(ctx context.Context) (time.Time, error) {
	v, err := c.src.BootTime(ctx)
	if err != nil {
		return time.Time{}, failed("read boot time", err)
	}
	return v, nil
}

// Snapshot groups every metric read at once.
type Snapshot struct {
	Info     *Info
	BootTime time.Time
	CPU      float64
	Memory   *MemoryUsage
	Disk     *DiskUsage
	Network  *NetworkStats
}

// Usage reads only the metrics shown by the live screen and CSV history.
func (c *Collector) Usage(ctx context.Context) (*Snapshot, error) {
	var (
		s   = &Snapshot{}
		err error
	)
	if s.CPU, err = c.CPUUsage(ctx); err != nil {
		return nil, err
	}
	if s.Memory, err = c.MemoryUsage(ctx); err != nil {
		return nil, err
	}
	if s.Disk, err = c.DiskUsage(ctx); err != nil {
		return nil, err
	}
	if s.Network, err = c.NetworkStats(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Snapshot reads every metric including host info and boot time.
func (c *Collector) Snapshot(ctx context.Context) (*Snapshot, error) {
	s, err := c.Usage(ctx)
	if err != nil {
		return nil, err
	}
	if s.Info, err = c.SystemInfo(ctx); err != nil {
		return nil, err
	}
	if s.BootTime, err = c.BootTime(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (m *MemoryUsage) String() string {
	return fmt.Sprintf("%.1f%% (Used: %.2f GB / Total: %.2f GB)", m.Percent, float64(m.Used)/gib, float64(m.Total)/gib)
}

func (d *DiskUsage) String() string {
	return fmt.Sprintf("%.1f%% (Used: %.2f GB / Total: %.2f GB)", d.Percent, float64(d.Used)/gib, float64(d.Total)/gib)
}

func (n *NetworkStats) String() string {
	return fmt.Sprintf("Sent %.2f MB, Received %.2f MB", float64(n.BytesSent)/mib, float64(n.BytesRecv)/mib)
}
