package report

import (
	"context"
	"fmt"
	"strconv"

	"github.com/devdash-cli/devdash/internal/apierr"
)

type taskFunc func(ctx context.Context, p Params) (*Outcome, error)

type task struct {
	label string
	run   taskFunc
}

// tableAdapter dispatches task names to functions.
type tableAdapter struct {
	integration Integration
	tasks       map[string]task
}

func (a *tableAdapter) Label(name string) string {
	if t, ok := a.tasks[name]; ok {
		return t.label
	}
	return fmt.Sprintf("%s %s", a.integration, name)
}

func (a *tableAdapter) Execute(ctx context.Context, name string, p Params) (*Outcome, error) {
	t, ok := a.tasks[name]
	if !ok {
		return nil, &apierr.ConfigError{Key: "task", Hint: fmt.Sprintf("unknown %s task %q", a.integration, name)}
	}
	if p == nil {
		p = Params{}
	}
	return t.run(ctx, p)
}

// Tasks lists the task names handled by the adapter.
func (a *tableAdapter) Tasks() []string {
	names := make([]string, 0, len(a.tasks))
	for n := range a.tasks {
		names = append(names, n)
	}
	return names
}

func rowOnly(kv ...interface{}) *Outcome {
	return &Outcome{Row: NewRow(kv...)}
}

func percent(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64) + "%"
}

// lazy builds a client on first use and keeps it for the rest of the run.
// Failures are not cached.
func lazy[T any](newFn func() (T, error)) func() (T, error) {
	var (
		v    T
		done bool
	)
	return func() (T, error) {
		if done {
			return v, nil
		}
		var err error
		v, err = newFn()
		if err != nil {
			return v, err
		}
		done = true
		return v, nil
	}
}
