package kubernetes

import (
	"context"
	"errors"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devdash-cli/devdash/internal/apierr"
)

type recordedCall struct {
	name string
	args []string
}

func fakeRunner(res *CommandResult, err error, calls *[]recordedCall) Runner {
	return func(ctx context.Context, name string, args ...string) (*CommandResult, error) {
		*calls = append(*calls, recordedCall{name: name, args: args})
		return res, err
	}
}

func TestHelmCommands(t *testing.T) {
	var calls []recordedCall
	h := NewHelmWithRunner(fakeRunner(&CommandResult{Stdout: "STATUS: deployed"}, nil, &calls))
	ctx := context.Background()

	out, err := h.Install(ctx, "web", "bitnami/nginx", "apps", "values.yaml")
	require.NoError(t, err)
	assert.Equal(t, "STATUS: deployed", out)

	_, err = h.Upgrade(ctx, "web", "bitnami/nginx", "", "")
	require.NoError(t, err)
	_, err = h.Uninstall(ctx, "web", "apps")
	require.NoError(t, err)

	assert.Equal(t, []recordedCall{
		{name: "helm", args: []string{"install", "web", "bitnami/nginx", "--namespace", "apps", "-f", "values.yaml"}},
		{name: "helm", args: []string{"upgrade", "web", "bitnami/nginx", "--namespace", "default"}},
		{name: "helm", args: []string{"uninstall", "web", "--namespace", "apps"}},
	}, calls)
}

func TestHelmFailures(t *testing.T) {
	var calls []recordedCall
	h := NewHelmWithRunner(fakeRunner(&CommandResult{Stderr: "Error: release not found\n", ExitCode: 1}, nil, &calls))
	_, err := h.Uninstall(context.Background(), "ghost", "")
	var ue *apierr.UpstreamError
	require.True(t, errors.As(err, &ue))
	assert.Equal(t, 1, ue.StatusCode)
	assert.Equal(t, "Error: release not found", ue.Message)

	h = NewHelmWithRunner(fakeRunner(nil, exec.ErrNotFound, &calls))
	_, err = h.Install(context.Background(), "web", "chart", "", "")
	assert.True(t, apierr.IsConfig(err))
}

func TestExecRunnerExitCode(t *testing.T) {
	res, err := execRunner(context.Background(), "sh", "-c", "echo out; echo err >&2; exit 3")
	require.NoError(t, err)
	assert.Equal(t, 3, res.ExitCode)
	assert.Equal(t, "out\n", res.Stdout)
	assert.Equal(t, "err\n", res.Stderr)

	_, err = execRunner(context.Background(), "devdash-no-such-binary")
	assert.True(t, errors.Is(err, exec.ErrNotFound))
}
