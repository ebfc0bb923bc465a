package system

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"
)

const DefaultThreshold = 90.0

// CheckThresholds returns one alert per metric strictly above its threshold.
func CheckThresholds(cpu, memory, cpuThreshold, memoryThreshold float64) []string {
	var alerts []string
	if cpu > cpuThreshold {
		alerts = append(alerts, fmt.Sprintf("High CPU Usage Alert: %.1f%% (Threshold: %.1f%%)", cpu, cpuThreshold))
	}
	if memory > memoryThreshold {
		alerts = append(alerts, fmt.Sprintf("High Memory Usage Alert: %.1f%% (Threshold: %.1f%%)", memory, memoryThreshold))
	}
	return alerts
}

// WriteThresholdReport prints the alerts for the given readings, or the plain
// status lines when nothing is above threshold. It reports whether an alert
// was emitted.
func WriteThresholdReport(w io.Writer, cpu, memory, cpuThreshold, memoryThreshold float64) bool {
	alerts := CheckThresholds(cpu, memory, cpuThreshold, memoryThreshold)
	if len(alerts) == 0 {
		fmt.Fprintf(w, "CPU Usage: %.1f%% (Threshold: %.1f%%)\n", cpu, cpuThreshold)
		fmt.Fprintf(w, "Memory Usage: %.1f%% (Threshold: %.1f%%)\n", memory, memoryThreshold)
		return false
	}
	red := color.New(color.FgRed, color.Bold)
	for _, a := range alerts {
		red.Fprintf(w, "ALERT: %s\n", a)
	}
	return true
}

// AlertOnThresholds samples CPU and memory and reports them against the
// thresholds.
func (c *Collector) AlertOnThresholds(ctx context.Context, w io.Writer, cpuThreshold, memoryThreshold float64) (bool, error) {
	cpu, err := c.CPUUsage(ctx)
	if err != nil {
		return false, err
	}
	memory, err := c.MemoryUsage(ctx)
	if err != nil {
		return false, err
	}
	return WriteThresholdReport(w, cpu, memory.Percent, cpuThreshold, memoryThreshold), nil
}
