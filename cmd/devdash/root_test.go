package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRootCommandTree(t *testing.T) {
	want := []string{"ci", "config", "docker", "github", "kubernetes", "report", "system", "version"}
	var got []string
	for _, c := range rootCmd.Commands() {
		got = append(got, c.Name())
	}
	for _, name := range want {
		assert.Contains(t, got, name)
	}

	for _, flag := range []string{"kubeconfig", "log-level", "config"} {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(flag), flag)
	}
}

func TestReportExampleSubcommand(t *testing.T) {
	c, _, err := rootCmd.Find([]string{"report", "example"})
	assert.NoError(t, err)
	assert.Equal(t, "example", c.Name())
}
