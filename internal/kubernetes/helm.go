package kubernetes

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/devdash-cli/devdash/internal/apierr"
)

// CommandResult is the outcome of a finished subprocess.
type CommandResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Runner starts name with args and waits for it. The error is only set when
// the process could not be started; a non-zero exit is reported through
// CommandResult.ExitCode.
type Runner func(ctx context.Context, name string, args ...string) (*CommandResult, error)

func execRunner(ctx context.Context, name string, args ...string) (*CommandResult, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	res := &CommandResult{Stdout: stdout.String(), Stderr: stderr.String()}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
		return res, nil
	}
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Helm drives the helm binary found in PATH.
type Helm struct {
	Binary string
	run    Runner
}

func NewHelm() *Helm {
	return &Helm{Binary: "helm", run: execRunner}
}

// NewHelmWithRunner is used to replace the subprocess execution.
func NewHelmWithRunner(r Runner) *Helm {
	return &Helm{Binary: "helm", run: r}
}

func (h *Helm) Install(ctx context.Context, release, chart, namespace, valuesFile string) (string, error) {
	args := []string{"install", release, chart, "--namespace", namespaceOrDefault(namespace)}
	return h.exec(ctx, "install chart "+chart, withValues(args, valuesFile))
}

func (h *Helm) Upgrade(ctx context.Context, release, chart, namespace, valuesFile string) (string, error) {
	args := []string{"upgrade", release, chart, "--namespace", namespaceOrDefault(namespace)}
	return h.exec(ctx, "upgrade chart "+chart, withValues(args, valuesFile))
}

func (h *Helm) Uninstall(ctx context.Context, release, namespace string) (string, error) {
	args := []string{"uninstall", release, "--namespace", namespaceOrDefault(namespace)}
	return h.exec(ctx, "uninstall release "+release, args)
}

func withValues(args []string, valuesFile string) []string {
	if valuesFile != "" {
		return append(args, "-f", valuesFile)
	}
	return args
}

func (h *Helm) exec(ctx context.Context, op string, args []string) (string, error) {
	log.Debugf("running %s %s", h.Binary, strings.Join(args, " "))
	res, err := h.run(ctx, h.Binary, args...)
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return "", &apierr.ConfigError{Key: "helm", Hint: "helm binary not found in PATH"}
		}
		return "", &apierr.TransportError{Service: "helm", Op: op, Err: err}
	}
	if res.ExitCode != 0 {
		return res.Stdout, &apierr.UpstreamError{
			Service:    "helm",
			Op:         op,
			StatusCode: res.ExitCode,
			Message:    strings.TrimSpace(res.Stderr),
		}
	}
	return res.Stdout, nil
}
