package system

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devdash-cli/devdash/internal/apierr"
	"github.com/devdash-cli/devdash/internal/system"
)

type fakeSource struct {
	cpu    float64
	mem    float64
	cpuErr error
}

func (f *fakeSource) CPUPercent(context.Context) (float64, error) { return f.cpu, f.cpuErr }

func (f *fakeSource) Memory(context.Context) (*system.MemoryUsage, error) {
	return &system.MemoryUsage{Total: 8 << 30, Used: 4 << 30, Percent: f.mem}, nil
}

func (f *fakeSource) Disk(context.Context, string) (*system.DiskUsage, error) {
	return &system.DiskUsage{Total: 100 << 30, Used: 25 << 30, Percent: 25}, nil
}

func (f *fakeSource) Network(context.Context) (*system.NetworkStats, error) {
	return &system.NetworkStats{BytesSent: 1024, BytesRecv: 2048, PacketsSent: 3, PacketsRecv: 4}, nil
}

func (f *fakeSource) Info(context.Context) (*system.Info, error) {
	return &system.Info{System: "linux", NodeName: "devbox", Release: "6.1", Machine: "x86_64"}, nil
}

func (f *fakeSource) BootTime(context.Context) (time.Time, error) {
	return time.Date(2024, 1, 2, 3, 4, 5, 0, time.Local), nil
}

func run(t *testing.T, src *fakeSource, args ...string) (string, error) {
	t.Helper()
	orig := newCollector
	newCollector = func() *system.Collector { return system.NewCollector(src) }
	t.Cleanup(func() { newCollector = orig })

	cmd := NewCmdSystem()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCPUUsage(t *testing.T) {
	out, err := run(t, &fakeSource{cpu: 12.34}, "cpu-usage")
	require.NoError(t, err)
	assert.Equal(t, "CPU Usage: 12.3%\n", out)
}

func TestCPUUsageFailure(t *testing.T) {
	_, err := run(t, &fakeSource{cpuErr: errors.New("no /proc")}, "cpu-usage")
	var te *apierr.TransportError
	assert.True(t, errors.As(err, &te))
}

func TestBootTime(t *testing.T) {
	out, err := run(t, &fakeSource{}, "boot-time")
	require.NoError(t, err)
	assert.Equal(t, "Boot Time: 2024-01-02 03:04:05\n", out)
}

func TestAllMetrics(t *testing.T) {
	out, err := run(t, &fakeSource{cpu: 50, mem: 40}, "all-metrics")
	require.NoError(t, err)
	assert.Contains(t, out, "linux 6.1 (x86_64)")
	assert.Contains(t, out, "50.0%")
	assert.Contains(t, out, "25.0% (Used: 25.00 GB / Total: 100.00 GB)")
}

func TestThresholdAlerts(t *testing.T) {
	out, err := run(t, &fakeSource{cpu: 95, mem: 10}, "threshold-alerts", "--cpu-threshold", "90", "--memory-threshold", "80")
	require.NoError(t, err)
	assert.Contains(t, out, "High CPU Usage Alert: 95.0% (Threshold: 90.0%)")
	assert.NotContains(t, out, "High Memory Usage Alert")
}

func TestRecordMetrics(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.csv")
	_, err := run(t, &fakeSource{cpu: 10, mem: 20}, "record-metrics", "--file", path)
	require.NoError(t, err)
	_, err = run(t, &fakeSource{cpu: 11, mem: 21}, "record-metrics", "--file", path)
	require.NoError(t, err)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "timestamp,cpu_usage"))
}

func TestLiveMetricsStopsWithContext(t *testing.T) {
	orig := newCollector
	newCollector = func() *system.Collector { return system.NewCollector(&fakeSource{cpu: 1}) }
	defer func() { newCollector = orig }()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	cmd := NewCmdSystem()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"live-metrics", "--interval", "10ms", "--no-clear"})
	require.NoError(t, cmd.ExecuteContext(ctx))
	assert.Contains(t, out.String(), "=== Live System Metrics ===")
	assert.Contains(t, out.String(), "Stopped live metrics.")
}
