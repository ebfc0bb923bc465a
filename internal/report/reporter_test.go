package report

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestRenderEmpty(t *testing.T) {
	var buf bytes.Buffer
	Render(&buf, nil, nil)
	assert.Equal(t, NoResults+"\n", buf.String())
}

func TestRenderTable(t *testing.T) {
	headers, rows := Normalize([]Row{
		NewRow("Command", "GitHub PR", "PRs", 3),
		NewRow("Command", "CPU Usage", "Usage (%)", "12.5%"),
	})
	var buf bytes.Buffer
	Render(&buf, headers, rows)
	out := buf.String()
	for _, s := range []string{"COMMAND", "PRS", "USAGE (%)", "GitHub PR", "12.5%"} {
		assert.Contains(t, out, s)
	}
	// header, two rows and the borders
	assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 6)
}

func TestRenderChartNoop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chart.html")
	written, err := RenderChart(NewSeries(), path)
	require.NoError(t, err)
	assert.False(t, written)
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestRenderChart(t *testing.T) {
	s := NewSeries()
	s.Append(MetricCPU, 10)
	s.Append(MetricCPU, 30)
	s.Append(MetricDocker, 5000)

	path := filepath.Join(t.TempDir(), "chart.html")
	written, err := RenderChart(s, path)
	require.NoError(t, err)
	assert.True(t, written)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	html := string(raw)
	assert.Contains(t, html, chartTitle)
	assert.Contains(t, html, MetricCPU)
	assert.Contains(t, html, MetricDocker)
	assert.NotContains(t, html, MetricMemory)
}

func TestSummarize(t *testing.T) {
	s := NewSeries()
	for _, v := range []float64{10, 20, 30, 40} {
		s.Append(MetricMemory, v)
	}
	summary := Summarize(s)
	require.Len(t, summary, 1)
	assert.Equal(t, MetricMemory, summary[0].Metric)
	assert.Equal(t, 4, summary[0].Samples)
	assert.Equal(t, 10.0, summary[0].Min)
	assert.Equal(t, 40.0, summary[0].Max)
	assert.Equal(t, 25.0, summary[0].Mean)
	assert.Equal(t, 25.0, summary[0].Median)

	var buf bytes.Buffer
	RenderSummary(&buf, s)
	assert.Contains(t, buf.String(), "25.00")

	buf.Reset()
	RenderSummary(&buf, NewSeries())
	assert.Empty(t, buf.String())
}

func TestSaveXLSX(t *testing.T) {
	headers, rows := Normalize([]Row{
		NewRow("Command", "GitHub PR", "PRs", 3),
		NewRow("Command", "CPU Usage", "Usage (%)", "12.5%"),
	})
	s := NewSeries()
	s.Append(MetricCPU, 12.5)

	path := filepath.Join(t.TempDir(), "report.xlsx")
	require.NoError(t, SaveXLSX(path, headers, rows, s))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	cells := map[string]string{
		"A1": "Command", "B1": "PRs", "C1": "Usage (%)",
		"A2": "GitHub PR", "B2": "3", "C2": "",
		"A3": "CPU Usage", "B3": "", "C3": "12.5%",
	}
	for cell, want := range cells {
		got, err := f.GetCellValue(sheetResults, cell)
		require.NoError(t, err)
		assert.Equal(t, want, got, cell)
	}

	got, err := f.GetCellValue(sheetMetrics, "B1")
	require.NoError(t, err)
	assert.Equal(t, MetricCPU, got)
	got, err = f.GetCellValue(sheetMetrics, "B2")
	require.NoError(t, err)
	assert.Equal(t, "12.5", got)
}

func TestSetCellErrors(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	assert.Error(t, setCell(f, "Sheet1", 0, 1, "x"))
	assert.Error(t, setCell(f, "Missing", 1, 1, "x"))
	assert.NoError(t, setCell(f, "Sheet1", 1, 1, "x"))
}

func TestSaveXLSXTooManyColumns(t *testing.T) {
	headers := make([]string, excelize.MaxColumns+1)
	for i := range headers {
		headers[i] = "h"
	}
	path := filepath.Join(t.TempDir(), "report.xlsx")
	assert.Error(t, SaveXLSX(path, headers, nil, nil))
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}
