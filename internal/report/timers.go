package report

import "time"

// Timers records the wall time spent on each task of a run.
type Timers struct {
	Timers map[string]*Timer `json:"Timers,omitempty"`
	order  []string
	last   string
	now    func() time.Time
}

func NewTimers() *Timers {
	return &Timers{Timers: make(map[string]*Timer), now: time.Now}
}

// set starts a timer, or stops it when it already exists.
func (ts *Timers) set(k string) {
	if _, ok := ts.Timers[k]; !ok {
		ts.Timers[k] = &Timer{start: ts.now()}
		ts.order = append(ts.order, k)
	} else {
		ts.Timers[k].Total = ts.now().Sub(ts.Timers[k].start).Seconds()
	}
}

// Set stops the previous timer and starts k (lap).
func (ts *Timers) Set(k string) {
	if ts.last != "" {
		ts.set(ts.last)
	}
	ts.set(k)
	ts.last = k
}

// Stop ends the running lap.
func (ts *Timers) Stop() {
	if ts.last != "" {
		ts.set(ts.last)
		ts.last = ""
	}
}

// Keys returns the timer names in start order.
func (ts *Timers) Keys() []string {
	return append([]string(nil), ts.order...)
}

type Timer struct {
	start time.Time

	// Total time in seconds
	Total float64 `json:"seconds"`
}
