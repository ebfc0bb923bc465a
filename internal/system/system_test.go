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

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devdash-cli/devdash/internal/apierr"
)

type fakeSource struct {
	cpu    float64
	mem    float64
	cpuErr error
}

func (f *fakeSource) CPUPercent(context.Context) (float64, error) { return f.cpu, f.cpuErr }

func (f *fakeSource) Memory(context.Context) (*MemoryUsage, error) {
	return &MemoryUsage{Total: 8 * gib, Used: 4 * gib, Percent: f.mem}, nil
}

func (f *fakeSource) Disk(_ context.Context, path string) (*DiskUsage, error) {
	return &DiskUsage{Total: 100 * gib, Used: 25 * gib, Percent: 25}, nil
}

func (f *fakeSource) Network(context.Context) (*NetworkStats, error) {
	return &NetworkStats{BytesSent: 2 * mib, BytesRecv: 3 * mib}, nil
}

func (f *fakeSource) Info(context.Context) (*Info, error) {
	return &Info{System: "linux", NodeName: "devbox"}, nil
}

func (f *fakeSource) BootTime(context.Context) (time.Time, error) {
	return time.Date(2024, 1, 2, 3, 4, 5, 0, time.Local), nil
}

func newFakeCollector(src *fakeSource) *Collector {
	c := NewCollector(src)
	c.now = func() time.Time { return time.Date(2024, 5, 6, 7, 8, 9, 0, time.Local) }
	return c
}

func TestCheckThresholds(t *testing.T) {
	tests := []struct {
		name   string
		cpu    float64
		memory float64
		want   int
	}{
		{name: "cpu above", cpu: 95, memory: 10, want: 1},
		{name: "both above", cpu: 95, memory: 91, want: 2},
		{name: "below", cpu: 50, memory: 50, want: 0},
		{name: "equal is not above", cpu: 90, memory: 90, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, CheckThresholds(tt.cpu, tt.memory, 90, 90), tt.want)
		})
	}
}

func TestAlertOnThresholds(t *testing.T) {
	color.NoColor = true

	var buf bytes.Buffer
	alerted, err := newFakeCollector(&fakeSource{cpu: 95, mem: 40}).AlertOnThresholds(context.Background(), &buf, 90, 90)
	require.NoError(t, err)
	assert.True(t, alerted)
	assert.Equal(t, "ALERT: High CPU Usage Alert: 95.0% (Threshold: 90.0%)\n", buf.String())

	buf.Reset()
	alerted, err = newFakeCollector(&fakeSource{cpu: 50, mem: 40}).AlertOnThresholds(context.Background(), &buf, 90, 90)
	require.NoError(t, err)
	assert.False(t, alerted)
	assert.Equal(t, "CPU Usage: 50.0% (Threshold: 90.0%)\nMemory Usage: 40.0% (Threshold: 90.0%)\n", buf.String())
	assert.NotContains(t, buf.String(), "ALERT")
}

func TestCollectorErrors(t *testing.T) {
	c := newFakeCollector(&fakeSource{cpuErr: errors.New("no /proc")})
	_, err := c.Snapshot(context.Background())
	var te *apierr.TransportError
	require.True(t, errors.As(err, &te))
	assert.Contains(t, err.Error(), "no /proc")
}

func TestSnapshot(t *testing.T) {
	s, err := newFakeCollector(&fakeSource{cpu: 12.5, mem: 50}).Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 12.5, s.CPU)
	assert.Equal(t, "devbox", s.Info.NodeName)
	assert.Equal(t, "50.0% (Used: 4.00 GB / Total: 8.00 GB)", s.Memory.String())
	assert.Equal(t, "Sent 2.00 MB, Received 3.00 MB", s.Network.String())
}

func TestRecordCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.csv")
	c := newFakeCollector(&fakeSource{cpu: 12.5, mem: 50})

	ts, err := c.RecordCSV(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "2024-05-06 07:08:09", ts)
	_, err = c.RecordCSV(context.Background(), path)
	require.NoError(t, err)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "timestamp,cpu_usage,memory_usage,disk_usage,network_sent,network_recv", lines[0])
	assert.Equal(t, "2024-05-06 07:08:09,12.5,50,25,2097152,3145728", lines[1])
}

func TestLiveStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Millisecond)
	defer cancel()

	var buf bytes.Buffer
	err := newFakeCollector(&fakeSource{cpu: 33, mem: 20}).Live(ctx, &buf, 10*time.Millisecond, false)
	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "=== Live System Metrics ===")
	assert.Contains(t, out, "CPU Usage: 33.0%")
	assert.NotContains(t, out, clearScreen)
}
