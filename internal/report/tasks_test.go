package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devdash-cli/devdash/internal/apierr"
)

const batch = `
commands:
  - github:
      pr:
        repo: octo/hello
        state: closed
      issues:
        repo: octo/hello
  - docker:
      container_stats:
        container-id: web
  - system:
      cpu_usage:
      memory_usage: {}
  - ci:
      jenkins_jobs:
        jenkins-url: https://ci.example.com
        username: admin
        token: 1234
`

func TestParseTasksKeepsOrder(t *testing.T) {
	specs, err := ParseTasks(strings.NewReader(batch))
	require.NoError(t, err)

	var got []string
	for _, s := range specs {
		got = append(got, s.String())
	}
	assert.Equal(t, []string{
		"github/pr", "github/issues", "docker/container_stats",
		"system/cpu_usage", "system/memory_usage", "ci/jenkins_jobs",
	}, got)

	assert.Equal(t, Params{"repo": "octo/hello", "state": "closed"}, specs[0].Params)
	assert.Equal(t, "1234", specs[5].Params["token"])
	assert.Empty(t, specs[3].Params)
}

func TestParseTasksInvalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "not yaml", doc: "commands: [unclosed"},
		{name: "integration is a list", doc: "commands:\n  - github: [pr]\n"},
		{name: "nested parameter", doc: "commands:\n  - github:\n      pr:\n        repo: {a: b}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTasks(strings.NewReader(tt.doc))
			assert.True(t, apierr.IsConfig(err), "got %v", err)
		})
	}
}

func TestParseTasksEmpty(t *testing.T) {
	specs, err := ParseTasks(strings.NewReader("commands: []\n"))
	require.NoError(t, err)
	assert.Empty(t, specs)
}

func TestParams(t *testing.T) {
	p := Params{"state": "", "all": "true"}
	assert.Equal(t, "open", p.Get("state", "open"))
	assert.True(t, p.Bool("all"))
	assert.False(t, p.Bool("missing"))

	_, err := p.Require("repo")
	assert.True(t, apierr.IsConfig(err))
}
