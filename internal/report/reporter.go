package report

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/montanaflynn/stats"
)

const NoResults = "No results to display."

// Render prints the normalized rows as a table, or NoResults when there are
// no rows.
func Render(w io.Writer, headers []string, rows []Row) {
	if len(rows) == 0 {
		fmt.Fprintln(w, NoResults)
		return
	}
	tb := table.NewWriter()
	tb.SetOutputMirror(w)
	hdr := make(table.Row, len(headers))
	for i, h := range headers {
		hdr[i] = h
	}
	tb.AppendHeader(hdr)
	for _, r := range rows {
		tr := make(table.Row, len(headers))
		for i, h := range headers {
			v, _ := r.Get(h)
			tr[i] = v
		}
		tb.AppendRow(tr)
	}
	tb.Render()
}

// MetricSummary aggregates the samples of one metric.
type MetricSummary struct {
	Metric  string
	Samples int
	Min     float64
	Max     float64
	Mean    float64
	Median  float64
	P90     float64
}

// Summarize computes the statistics of every non-empty bucket.
func Summarize(s *Series) []MetricSummary {
	var out []MetricSummary
	for _, name := range s.Names() {
		data := stats.Float64Data(s.Samples(name))
		if len(data) == 0 {
			continue
		}
		min, _ := stats.Min(data)
		max, _ := stats.Max(data)
		mean, _ := stats.Mean(data)
		median, _ := stats.Median(data)
		p90, _ := stats.Percentile(data, 90)
		out = append(out, MetricSummary{
			Metric:  name,
			Samples: len(data),
			Min:     min,
			Max:     max,
			Mean:    mean,
			Median:  median,
			P90:     p90,
		})
	}
	return out
}

// RenderSummary prints the metric statistics table. Nothing is printed when
// no metric was collected.
func RenderSummary(w io.Writer, s *Series) {
	summary := Summarize(s)
	if len(summary) == 0 {
		return
	}
	tb := table.NewWriter()
	tb.SetOutputMirror(w)
	tb.SetTitle("Metrics")
	tb.AppendHeader(table.Row{"Metric", "Samples", "Min", "Max", "Mean", "Median", "P90"})
	for _, m := range summary {
		tb.AppendRow(table.Row{
			m.Metric, m.Samples,
			fmt.Sprintf("%.2f", m.Min),
			fmt.Sprintf("%.2f", m.Max),
			fmt.Sprintf("%.2f", m.Mean),
			fmt.Sprintf("%.2f", m.Median),
			fmt.Sprintf("%.2f", m.P90),
		})
	}
	tb.Render()
}
