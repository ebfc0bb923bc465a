package report

import (
	"os"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const chartTitle = "Resource Metrics Overview"

// newResourceChart plots every non-empty bucket against the sample index.
func newResourceChart(s *Series) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    chartTitle,
			Subtitle: "samples by task order",
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: true, Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: true, Top: "bottom"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Command #"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Usage"}),
	)

	longest := 0
	for _, name := range s.Names() {
		if n := len(s.Samples(name)); n > longest {
			longest = n
		}
	}
	xAxis := make([]string, longest)
	for i := range xAxis {
		xAxis[i] = strconv.Itoa(i)
	}
	line.SetXAxis(xAxis)

	for _, name := range s.Names() {
		samples := s.Samples(name)
		if len(samples) == 0 {
			continue
		}
		data := make([]opts.LineData, 0, len(samples))
		for _, v := range samples {
			data = append(data, opts.LineData{Value: v})
		}
		line.AddSeries(name, data)
	}
	return line
}

// RenderChart writes the metrics chart as an HTML page at path. When every
// bucket is empty nothing is written and false is returned.
func RenderChart(s *Series, path string) (bool, error) {
	if s == nil || s.Empty() {
		log.Debug("no metrics collected, skipping chart")
		return false, nil
	}
	page := components.NewPage()
	page.PageTitle = "devdash report metrics"
	page.AddCharts(newResourceChart(s))

	f, err := os.Create(path)
	if err != nil {
		return false, errors.Wrapf(err, "unable to create chart %s", path)
	}
	defer f.Close()
	if err := page.Render(f); err != nil {
		return false, errors.Wrap(err, "unable to render chart")
	}
	return true, nil
}
