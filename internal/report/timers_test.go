package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimersLaps(t *testing.T) {
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	ts := NewTimers()
	ts.now = func() time.Time { return clock }

	ts.Set("first")
	clock = clock.Add(2 * time.Second)
	ts.Set("second")
	clock = clock.Add(500 * time.Millisecond)
	ts.Stop()

	assert.Equal(t, []string{"first", "second"}, ts.Keys())
	assert.InDelta(t, 2.0, ts.Timers["first"].Total, 1e-9)
	assert.InDelta(t, 0.5, ts.Timers["second"].Total, 1e-9)

	// Stop without a running lap is a no-op.
	ts.Stop()
	assert.InDelta(t, 0.5, ts.Timers["second"].Total, 1e-9)
}
