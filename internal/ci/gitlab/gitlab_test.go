package gitlab

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devdash-cli/devdash/internal/apierr"
)

func newTestClient(t *testing.T, mux *http.ServeMux) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Private-Token") != "glpat" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)
	c, err := NewClient(srv.URL, "glpat")
	require.NoError(t, err)
	return c
}

func TestProjects(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v4/projects", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id":1,"name":"api"},{"id":2,"name":"web"}]`))
	})
	projects, err := newTestClient(t, mux).Projects(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []Project{{ID: 1, Name: "api"}, {ID: 2, Name: "web"}}, projects)
}

func TestPipelineStatus(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v4/projects/1/pipelines", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id":9,"status":"running"},{"id":8,"status":"success"}]`))
	})
	mux.HandleFunc("/api/v4/projects/2/pipelines", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	})
	c := newTestClient(t, mux)

	status, err := c.PipelineStatus(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, "running", status)

	_, err = c.PipelineStatus(context.Background(), "2")
	assert.ErrorIs(t, err, ErrNoPipelines)

	_, err = c.PipelineStatus(context.Background(), "3")
	assert.True(t, apierr.IsNotFound(err))
}

func TestJobLogs(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v4/projects/1/jobs/5/trace", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("$ make test\nok\n"))
	})
	c := newTestClient(t, mux)

	logs, err := c.JobLogs(context.Background(), "1", "5")
	require.NoError(t, err)
	assert.Equal(t, "$ make test\nok\n", logs)

	_, err = c.JobLogs(context.Background(), "1", "6")
	assert.EqualError(t, err, "job 6 for project 1 not found")
}

func TestTriggerPipeline(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v4/projects/1/trigger/pipeline", func(w http.ResponseWriter, r *http.Request) {
		body := map[string]string{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "master", body["ref"])
		w.WriteHeader(http.StatusCreated)
	})
	c := newTestClient(t, mux)
	assert.NoError(t, c.TriggerPipeline(context.Background(), "1", ""))
}
