package report

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes/fake"

	"github.com/devdash-cli/devdash/internal/apierr"
	"github.com/devdash-cli/devdash/internal/docker"
	"github.com/devdash-cli/devdash/internal/github"
	"github.com/devdash-cli/devdash/internal/kubernetes"
	"github.com/devdash-cli/devdash/internal/system"
)

func TestGithubAdapterPR(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/octo/hello/pulls", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"number":1},{"number":2},{"number":3}]`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	a := NewGithubAdapter(func() (string, error) { return "tok", nil }, github.WithBaseURL(srv.URL))
	out, err := a.Execute(context.Background(), "pr", Params{"repo": "octo/hello"})
	require.NoError(t, err)
	assert.Equal(t, NewRow("Repo", "octo/hello", "State", "open", "PRs", 3), out.Row)
	assert.Equal(t, "GitHub PR", a.Label("pr"))
}

func TestGithubAdapterMissingToken(t *testing.T) {
	a := NewGithubAdapter(func() (string, error) {
		return "", &apierr.ConfigError{Key: "github_token"}
	})
	_, err := a.Execute(context.Background(), "stats", Params{"repo": "octo/hello"})
	assert.True(t, apierr.IsConfig(err))
}

func TestUnknownTask(t *testing.T) {
	a := NewSystemAdapter(system.NewHostCollector())
	_, err := a.Execute(context.Background(), "uptime", nil)
	assert.True(t, apierr.IsConfig(err))
	assert.Equal(t, "system uptime", a.Label("uptime"))
}

func TestCIAdapterJenkinsJobs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"jobs":[{"name":"build"},{"name":"deploy"}]}`))
	}))
	defer srv.Close()

	a := NewCIAdapter(Params{"username": "admin", "token": "t"})
	out, err := a.Execute(context.Background(), "jenkins_jobs", Params{"jenkins-url": srv.URL})
	require.NoError(t, err)
	assert.Equal(t, NewRow("Jobs", 2), out.Row)
}

func TestCIAdapterServiceToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, pass, _ := r.BasicAuth()
		assert.Equal(t, "jenkins-secret", pass)
		_, _ = w.Write([]byte(`{"jobs":[]}`))
	}))
	defer srv.Close()

	a := NewCIAdapter(Params{"username": "admin", "jenkins-token": "jenkins-secret", "gitlab-token": "other"})
	_, err := a.Execute(context.Background(), "jenkins_jobs", Params{"jenkins-url": srv.URL})
	require.NoError(t, err)
}

func TestCIAdapterNoPipelines(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	a := NewCIAdapter(nil)
	out, err := a.Execute(context.Background(), "gitlab_pipeline_status", Params{"gitlab-url": srv.URL, "token": "t", "project-id": "42"})
	require.NoError(t, err)
	assert.Equal(t, NewRow("Project", "42", "Status", noPipelines), out.Row)
}

func TestCIAdapterUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	a := NewCIAdapter(nil)
	_, err := a.Execute(context.Background(), "circleci_projects", Params{"circleci-url": srv.URL, "token": "t"})
	assert.Equal(t, 503, apierr.StatusCode(err))
}

func TestDockerAdapterContainerStats(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"cpu_stats":{"cpu_usage":{"total_usage":5000}}}`))
	}))
	defer srv.Close()

	created := 0
	a := NewDockerAdapter(func() (*docker.Client, error) {
		created++
		return docker.NewClientWithHost("tcp://"+strings.TrimPrefix(srv.URL, "http://"), "1.45")
	})
	for i := 0; i < 2; i++ {
		out, err := a.Execute(context.Background(), "container_stats", Params{"container-id": "web"})
		require.NoError(t, err)
		assert.Equal(t, NewRow("Container", "web", "CPU Usage", uint64(5000)), out.Row)
		assert.Equal(t, []Sample{{Metric: MetricDocker, Value: 5000}}, out.Samples)
	}
	assert.Equal(t, 1, created)
}

func TestDockerAdapterClientFailureNotCached(t *testing.T) {
	calls := 0
	a := NewDockerAdapter(func() (*docker.Client, error) {
		calls++
		return nil, &apierr.ConfigError{Key: "DOCKER_HOST"}
	})
	for i := 0; i < 2; i++ {
		_, err := a.Execute(context.Background(), "list_containers", nil)
		assert.True(t, apierr.IsConfig(err))
	}
	assert.Equal(t, 2, calls)
}

type stubSource struct{ system.HostSource }

func (stubSource) CPUPercent(context.Context) (float64, error) { return 42.25, nil }

func (stubSource) Memory(context.Context) (*system.MemoryUsage, error) {
	return &system.MemoryUsage{Percent: 61.5}, nil
}

func (stubSource) Disk(context.Context, string) (*system.DiskUsage, error) {
	return nil, errors.New("no such device")
}

func (stubSource) BootTime(context.Context) (time.Time, error) { return time.Time{}, nil }

func TestSystemAdapter(t *testing.T) {
	a := NewSystemAdapter(system.NewCollector(stubSource{}))
	ctx := context.Background()

	out, err := a.Execute(ctx, "cpu_usage", nil)
	require.NoError(t, err)
	assert.Equal(t, NewRow("Usage (%)", "42.2%"), out.Row)
	assert.Equal(t, []Sample{{Metric: MetricCPU, Value: 42.25}}, out.Samples)

	out, err = a.Execute(ctx, "memory_usage", nil)
	require.NoError(t, err)
	assert.Equal(t, []Sample{{Metric: MetricMemory, Value: 61.5}}, out.Samples)

	_, err = a.Execute(ctx, "disk_usage", nil)
	assert.Error(t, err)
}

func TestKubernetesAdapter(t *testing.T) {
	client := fake.NewSimpleClientset(
		&corev1.Pod{ObjectMeta: metav1.ObjectMeta{Name: "a", Namespace: "apps"}},
		&corev1.Pod{ObjectMeta: metav1.ObjectMeta{Name: "b", Namespace: "apps"}},
	)
	a := NewKubernetesAdapter(func() (*kubernetes.Manager, error) {
		return kubernetes.NewManager(client), nil
	})
	out, err := a.Execute(context.Background(), "list_pods", Params{"namespace": "apps"})
	require.NoError(t, err)
	assert.Equal(t, NewRow("Namespace", "apps", "Pods", 2), out.Row)

	out, err = a.Execute(context.Background(), "list_services", nil)
	require.NoError(t, err)
	assert.Equal(t, NewRow("Namespace", "default", "Services", 0), out.Row)
}
