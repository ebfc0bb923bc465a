package system

import (
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/devdash-cli/devdash/internal/system"
	"github.com/devdash-cli/devdash/pkg"
	"github.com/devdash-cli/devdash/pkg/cmd/cmdutil"
)

// newCollector is replaced in tests.
var newCollector = system.NewHostCollector

func NewCmdSystem() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "system",
		Short: "Metrics of the local host.",
	}
	cmd.AddCommand(
		newCmdCPUUsage(),
		newCmdMemoryUsage(),
		newCmdDiskUsage(),
		newCmdNetworkStats(),
		newCmdSystemInfo(),
		newCmdBootTime(),
		newCmdAllMetrics(),
		newCmdLiveMetrics(),
		newCmdThresholdAlerts(),
		newCmdRecordMetrics(),
	)
	return cmd
}

func newCmdCPUUsage() *cobra.Command {
	return &cobra.Command{
		Use:   "cpu-usage",
		Short: "Show the CPU usage.",
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := newCollector().CPUUsage(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "CPU Usage: %.1f%%\n", v)
			return nil
		},
	}
}

func newCmdMemoryUsage() *cobra.Command {
	return &cobra.Command{
		Use:   "memory-usage",
		Short: "Show the memory usage.",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := newCollector().MemoryUsage(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Memory Usage: %s\n", m)
			return nil
		},
	}
}

func newCmdDiskUsage() *cobra.Command {
	return &cobra.Command{
		Use:   "disk-usage",
		Short: "Show the usage of the root filesystem.",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := newCollector().DiskUsage(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Disk Usage: %s\n", d)
			return nil
		},
	}
}

func newCmdNetworkStats() *cobra.Command {
	return &cobra.Command{
		Use:   "network-stats",
		Short: "Show the network I/O counters.",
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := newCollector().NetworkStats(cmd.Context())
			if err != nil {
				return err
			}
			tb := cmdutil.NewTable(cmd.OutOrStdout(), "Bytes Sent", "Bytes Received", "Packets Sent", "Packets Received")
			tb.AppendRow(table.Row{n.BytesSent, n.BytesRecv, n.PacketsSent, n.PacketsRecv})
			tb.Render()
			return nil
		},
	}
}

func newCmdSystemInfo() *cobra.Command {
	return &cobra.Command{
		Use:   "system-info",
		Short: "Show the operating system and host details.",
		RunE: func(cmd *cobra.Command, args []string) error {
			i, err := newCollector().SystemInfo(cmd.Context())
			if err != nil {
				return err
			}
			tb := cmdutil.NewTable(cmd.OutOrStdout())
			tb.AppendRows([]table.Row{
				{"System", i.System},
				{"Node Name", i.NodeName},
				{"Release", i.Release},
				{"Version", i.Version},
				{"Machine", i.Machine},
				{"Platform", i.Platform},
			})
			tb.Render()
			return nil
		},
	}
}

func newCmdBootTime() *cobra.Command {
	return &cobra.Command{
		Use:   "boot-time",
		Short: "Show when the host booted.",
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := newCollector().BootTime(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Boot Time: %s\n", t.Format(system.TimestampLayout))
			return nil
		},
	}
}

func newCmdAllMetrics() *cobra.Command {
	return &cobra.Command{
		Use:   "all-metrics",
		Short: "Show every metric at once.",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newCollector().Snapshot(cmd.Context())
			if err != nil {
				return err
			}
			tb := cmdutil.NewTable(cmd.OutOrStdout(), "Metric", "Value")
			tb.AppendRows([]table.Row{
				{"System", fmt.Sprintf("%s %s (%s)", s.Info.System, s.Info.Release, s.Info.Machine)},
				{"Boot Time", s.BootTime.Format(system.TimestampLayout)},
				{"CPU Usage", fmt.Sprintf("%.1f%%", s.CPU)},
				{"Memory Usage", s.Memory.String()},
				{"Disk Usage", s.Disk.String()},
				{"Network", s.Network.String()},
			})
			tb.Render()
			return nil
		},
	}
}

func newCmdLiveMetrics() *cobra.Command {
	var (
		interval time.Duration
		noClear  bool
	)
	cmd := &cobra.Command{
		Use:   "live-metrics",
		Short: "Refresh the metrics until interrupted.",
		RunE: func(cmd *cobra.Command, args []string) error {
			log.Debugf("refreshing live metrics every %s", interval)
			if err := newCollector().Live(cmd.Context(), cmd.OutOrStdout(), interval, !noClear); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Stopped live metrics.")
			return nil
		},
	}
	cmd.Flags().DurationVar(&interval, "interval", system.DefaultRefreshInterval, "Refresh interval")
	cmd.Flags().BoolVar(&noClear, "no-clear", false, "Do not clear the screen between refreshes")
	return cmd
}

func newCmdThresholdAlerts() *cobra.Command {
	var cpuThreshold, memThreshold float64
	cmd := &cobra.Command{
		Use:   "threshold-alerts",
		Short: "Alert when CPU or memory usage is above a threshold.",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := newCollector().AlertOnThresholds(cmd.Context(), cmd.OutOrStdout(), cpuThreshold, memThreshold)
			return err
		},
	}
	cmd.Flags().Float64Var(&cpuThreshold, "cpu-threshold", system.DefaultThreshold, "CPU usage threshold (%)")
	cmd.Flags().Float64Var(&memThreshold, "memory-threshold", system.DefaultThreshold, "Memory usage threshold (%)")
	return cmd
}

func newCmdRecordMetrics() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "record-metrics",
		Short: "Append the current metrics to a CSV history file.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ts, err := newCollector().RecordCSV(cmd.Context(), file)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Metrics recorded to %s at %s\n", file, ts)
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", pkg.MetricsRecordFile, "CSV history file")
	return cmd
}
