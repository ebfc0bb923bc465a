package report

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/devdash-cli/devdash/internal/apierr"
)

const (
	ColumnCommand = "Command"
	ColumnError   = "Error"
)

// Sample is a numeric metric emitted by a task.
type Sample struct {
	Metric string
	Value  float64
}

// Outcome is the result of one successful task.
type Outcome struct {
	Row     Row
	Samples []Sample
}

// Adapter executes the tasks of one integration.
type Adapter interface {
	Execute(ctx context.Context, task string, params Params) (*Outcome, error)
	// Label is the Command column value of task, used for error rows too.
	Label(task string) string
}

// Runner executes a batch of tasks sequentially.
type Runner struct {
	ID       string
	Series   *Series
	Timers   *Timers
	adapters map[Integration]Adapter

	// OnTask is called before each task starts (progress display).
	OnTask func(i int, spec TaskSpec)
}

func NewRunner(adapters map[Integration]Adapter) *Runner {
	return &Runner{
		ID:       uuid.NewString(),
		Series:   NewSeries(),
		Timers:   NewTimers(),
		adapters: adapters,
	}
}

// Run executes every spec in order and returns exactly one row per spec. A
// failing task yields a row carrying the error marker; the run continues.
func (r *Runner) Run(ctx context.Context, specs []TaskSpec) []Row {
	rows := make([]Row, 0, len(specs))
	logger := log.WithField("run", r.ID)
	for i, spec := range specs {
		if r.OnTask != nil {
			r.OnTask(i, spec)
		}
		r.Timers.Set(fmt.Sprintf("%03d %s", i, spec))
		logger.Debugf("running task %s", spec)

		row, err := r.runTask(ctx, spec)
		if err != nil {
			logger.WithError(err).Warnf("task %s failed", spec)
		}
		rows = append(rows, row)
	}
	r.Timers.Stop()
	for _, k := range r.Timers.Keys() {
		logger.Debugf("task %s took %.3fs", k, r.Timers.Timers[k].Total)
	}
	return rows
}

func (r *Runner) runTask(ctx context.Context, spec TaskSpec) (Row, error) {
	adapter, ok := r.adapters[spec.Integration]
	if !ok {
		err := &apierr.ConfigError{Key: "integration", Hint: fmt.Sprintf("unknown integration %q", spec.Integration)}
		return errorRow(spec.String(), err), err
	}
	label := adapter.Label(spec.Task)
	out, err := adapter.Execute(ctx, spec.Task, spec.Params)
	if err != nil {
		return errorRow(label, err), err
	}
	if out == nil {
		return NewRow(ColumnCommand, label), nil
	}
	for _, s := range out.Samples {
		r.Series.Append(s.Metric, s.Value)
	}
	if len(out.Row) == 0 {
		return NewRow(ColumnCommand, label), nil
	}
	row := out.Row
	if _, ok := row.Get(ColumnCommand); !ok {
		row = append(Row{{Key: ColumnCommand, Value: label}}, row...)
	}
	return row, nil
}

func errorRow(label string, err error) Row {
	return NewRow(ColumnCommand, label, ColumnError, apierr.Marker(err))
}
