package report

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devdash-cli/devdash/internal/apierr"
)

type fakeAdapter struct {
	calls []string
	fn    func(task string, p Params) (*Outcome, error)
}

func (f *fakeAdapter) Label(task string) string { return "Fake " + task }

func (f *fakeAdapter) Execute(_ context.Context, task string, p Params) (*Outcome, error) {
	f.calls = append(f.calls, task)
	return f.fn(task, p)
}

func TestRunOneRowPerSpec(t *testing.T) {
	fake := &fakeAdapter{fn: func(task string, p Params) (*Outcome, error) {
		switch task {
		case "down":
			return nil, &apierr.UpstreamError{Service: "ci", Op: "list jobs", StatusCode: 503, Message: "Service Unavailable"}
		case "cpu":
			return &Outcome{Row: NewRow("Usage (%)", "95.0%"), Samples: []Sample{{Metric: MetricCPU, Value: 95}}}, nil
		default:
			return &Outcome{Row: NewRow("Items", 2)}, nil
		}
	}}
	r := NewRunner(map[Integration]Adapter{IntegrationCI: fake})
	specs := []TaskSpec{
		{Integration: IntegrationCI, Task: "down"},
		{Integration: IntegrationCI, Task: "list"},
		{Integration: "ftp", Task: "ls"},
		{Integration: IntegrationCI, Task: "cpu"},
	}

	rows := r.Run(context.Background(), specs)
	require.Len(t, rows, len(specs))

	// the failing upstream does not stop the next task
	assert.Equal(t, []string{"down", "list", "cpu"}, fake.calls)

	v, _ := rows[0].Get(ColumnError)
	assert.True(t, strings.HasPrefix(v.(string), "ERROR: "))
	assert.Contains(t, v.(string), "503")
	cmd, _ := rows[0].Get(ColumnCommand)
	assert.Equal(t, "Fake down", cmd)

	assert.Equal(t, NewRow(ColumnCommand, "Fake list", "Items", 2), rows[1])

	v, _ = rows[2].Get(ColumnError)
	assert.Contains(t, v.(string), `unknown integration "ftp"`)

	assert.Equal(t, []float64{95}, r.Series.Samples(MetricCPU))
	assert.Empty(t, r.Series.Samples(MetricMemory))
	assert.NotEmpty(t, r.ID)
	assert.Len(t, r.Timers.Keys(), len(specs))
}

func TestRunEveryTaskFails(t *testing.T) {
	fake := &fakeAdapter{fn: func(string, Params) (*Outcome, error) {
		return nil, &apierr.TransportError{Service: "github", Op: "list pulls", Err: errors.New("dial tcp: refused")}
	}}
	r := NewRunner(map[Integration]Adapter{IntegrationGithub: fake})
	rows := r.Run(context.Background(), []TaskSpec{
		{Integration: IntegrationGithub, Task: "pr"},
		{Integration: IntegrationGithub, Task: "issues"},
	})
	require.Len(t, rows, 2)
	headers, normalized := Normalize(rows)
	assert.Equal(t, []string{ColumnCommand, ColumnError}, headers)
	for _, row := range normalized {
		v, _ := row.Get(ColumnError)
		assert.Contains(t, v, "refused")
	}
	assert.True(t, r.Series.Empty())
}

func TestRunProgressCallback(t *testing.T) {
	fake := &fakeAdapter{fn: func(string, Params) (*Outcome, error) { return nil, nil }}
	r := NewRunner(map[Integration]Adapter{IntegrationSystem: fake})
	var seen []int
	r.OnTask = func(i int, _ TaskSpec) { seen = append(seen, i) }
	rows := r.Run(context.Background(), []TaskSpec{{Integration: IntegrationSystem, Task: "a"}, {Integration: IntegrationSystem, Task: "b"}})
	assert.Equal(t, []int{0, 1}, seen)
	assert.Equal(t, NewRow(ColumnCommand, "Fake a"), rows[0])
}

func TestRunKeepsSamplesOfEmptyRow(t *testing.T) {
	fake := &fakeAdapter{fn: func(string, Params) (*Outcome, error) {
		return &Outcome{Samples: []Sample{{Metric: MetricCPU, Value: 42}}}, nil
	}}
	r := NewRunner(map[Integration]Adapter{IntegrationSystem: fake})
	rows := r.Run(context.Background(), []TaskSpec{{Integration: IntegrationSystem, Task: "cpu_usage"}})
	require.Len(t, rows, 1)
	assert.Equal(t, NewRow(ColumnCommand, "Fake cpu_usage"), rows[0])
	assert.Equal(t, []float64{42}, r.Series.Samples(MetricCPU))
}

func TestSeriesAppend(t *testing.T) {
	s := NewSeries()
	assert.True(t, s.Empty())
	assert.Equal(t, []string{MetricCPU, MetricMemory, MetricDocker}, s.Names())

	s.Append("Load", 1.5)
	s.Append(MetricCPU, 10)
	s.Append(MetricCPU, 20)
	assert.False(t, s.Empty())
	assert.Equal(t, []string{MetricCPU, MetricMemory, MetricDocker, "Load"}, s.Names())
	assert.Equal(t, []float64{10, 20}, s.Samples(MetricCPU))
}
