package system

import (
	"context"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/net"
)

// cpuSampleInterval is the window used to measure CPU utilisation.
const cpuSampleInterval = time.Second

// Source reads raw host metrics.
type Source interface {
	CPUPercent(ctx context.Context) (float64, error)
	Memory(ctx context.Context) (*MemoryUsage, error)
	Disk(ctx context.Context, path string) (*DiskUsage, error)
	Network(ctx context.Context) (*NetworkStats, error)
	Info(ctx context.Context) (*Info, error)
	BootTime(ctx context.Context) (time.Time, error)
}

type MemoryUsage struct {
	Total     uint64  `json:"total"`
	Available uint64  `json:"available"`
	Used      uint64  `json:"used"`
	Free      uint64  `json:"free"`
	Percent   float64 `json:"percent"`
}

type DiskUsage struct {
	Total   uint64  `json:"total"`
	Used    uint64  `json:"used"`
	Free    uint64  `json:"free"`
	Percent float64 `json:"percent"`
}

type NetworkStats struct {
	BytesSent   uint64 `json:"bytes_sent"`
	BytesRecv   uint64 `json:"bytes_recv"`
	PacketsSent uint64 `json:"packets_sent"`
	PacketsRecv uint64 `json:"packets_recv"`
}

type Info struct {
	System   string `json:"system"`
	NodeName string `json:"node_name"`
	Release  string `json:"release"`
	Version  string `json:"version"`
	Machine  string `json:"machine"`
	Platform string `json:"platform"`
}

// HostSource reads metrics of the local host through gopsutil.
type HostSource struct{}

func (HostSource) CPUPercent(ctx context.Context) (float64, error) {
	p, err := cpu.PercentWithContext(ctx, cpuSampleInterval, false)
	if err != nil {
		return 0, err
	}
	if len(p) == 0 {
		return 0, nil
	}
	return p[0], nil
}

func (HostSource) Memory(ctx context.Context) (*MemoryUsage, error) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return nil, err
	}
	return &MemoryUsage{
		Total:     vm.Total,
		Available: vm.Available,
		Used:      vm.Used,
		Free:      vm.Free,
		Percent:   vm.UsedPercent,
	}, nil
}

func (HostSource) Disk(ctx context.Context, path string) (*DiskUsage, error) {
	du, err := disk.UsageWithContext(ctx, path)
	if err != nil {
		return nil, err
	}
	return &DiskUsage{Total: du.Total, Used: du.Used, Free: du.Free, Percent: du.UsedPercent}, nil
}

func (HostSource) Network(ctx context.Context) (*NetworkStats, error) {
	counters, err := net.IOCountersWithContext(ctx, false)
	if err != nil {
		return nil, err
	}
	if len(counters) == 0 {
		return &NetworkStats{}, nil
	}
	c := counters[0]
	return &NetworkStats{
		BytesSent:   c.BytesSent,
		BytesRecv:   c.BytesRecv,
		PacketsSent: c.PacketsSent,
		PacketsRecv: c.PacketsRecv,
	}, nil
}

func (HostSource) Info(ctx context.Context) (*Info, error) {
	hi, err := host.InfoWithContext(ctx)
	if err != nil {
		return nil, err
	}
	return &Info{
		System:   hi.OS,
		NodeName: hi.Hostname,
		Release:  hi.KernelVersion,
		Version:  hi.PlatformVersion,
		Machine:  hi.KernelArch,
		Platform: hi.Platform,
	}, nil
}

func (HostSource) BootTime(ctx context.Context) (time.Time, error) {
	bt, err := host.BootTimeWithContext(ctx)
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(int64(bt), 0), nil
}
