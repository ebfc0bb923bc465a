package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeFillsMissingColumns(t *testing.T) {
	headers, rows := Normalize([]Row{NewRow("a", 1), NewRow("b", 2)})
	assert.Equal(t, []string{"a", "b"}, headers)
	assert.Equal(t, []Row{
		NewRow("a", 1, "b", ""),
		NewRow("a", "", "b", 2),
	}, rows)
}

func TestNormalizeFirstSeenOrder(t *testing.T) {
	in := []Row{
		NewRow("Command", "GitHub PR", "Repo", "octo/hello", "PRs", 3),
		NewRow("Command", "CPU Usage", "Usage (%)", "12.0%"),
		NewRow("Command", "Jenkins Jobs", "Error", "ERROR: down", "Repo", "x"),
	}
	headers, rows := Normalize(in)
	assert.Equal(t, []string{"Command", "Repo", "PRs", "Usage (%)", "Error"}, headers)
	for _, r := range rows {
		assert.Equal(t, headers, r.Keys())
	}
	// input untouched
	assert.Len(t, in[1], 2)
}

func TestNormalizeIdempotent(t *testing.T) {
	in := []Row{
		NewRow("x", 1, "y", 2),
		NewRow("z", 3),
		NewRow("y", 4, "x", 5),
	}
	h1, r1 := Normalize(in)
	h2, r2 := Normalize(r1)
	assert.Equal(t, h1, h2)
	assert.Equal(t, r1, r2)
}

func TestNormalizeEmpty(t *testing.T) {
	headers, rows := Normalize(nil)
	assert.Empty(t, headers)
	assert.Empty(t, rows)
}

func TestRowSet(t *testing.T) {
	r := NewRow("a", 1)
	r = r.Set("a", 2).Set("b", 3)
	v, ok := r.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 2, v)
	assert.Equal(t, []string{"a", "b"}, r.Keys())
}
