// Package jenkins talks to the Jenkins JSON API with basic authentication.
package jenkins

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/devdash-cli/devdash/internal/apierr"
	"github.com/devdash-cli/devdash/internal/rest"
)

const (
	statusInProgress = "IN PROGRESS"
	statusNotBuilt   = "NOT BUILT"
)

// Job is an entry of the Jenkins job list. Color encodes the last build
// status ("blue" is success, "red" failure, "*_anime" running).
type Job struct {
	Name  string `json:"name"`
	Color string `json:"color"`
	URL   string `json:"url"`
}

type jobList struct {
	Jobs []Job `json:"jobs"`
}

func (l *jobList) Validate() error {
	for i, j := range l.Jobs {
		if j.Name == "" {
			return fmt.Errorf("job %d has no name", i)
		}
	}
	return nil
}

type build struct {
	Number int     `json:"number"`
	Result *string `json:"result"`
}

type jobInfo struct {
	Name      string `json:"name"`
	LastBuild *build `json:"lastBuild"`
}

// Client calls a single Jenkins server.
type Client struct {
	api *rest.Client
}

// NewClient validates the credentials and creates the client.
func NewClient(jenkinsURL, username, token string, opts ...rest.Option) (*Client, error) {
	if jenkinsURL == "" {
		return nil, &apierr.ConfigError{Key: "jenkins-url"}
	}
	if username == "" || token == "" {
		return nil, &apierr.ConfigError{Key: "username/token", Hint: "Jenkins credentials are required"}
	}
	opts = append([]rest.Option{rest.WithBasicAuth(username, token)}, opts...)
	return &Client{api: rest.New("jenkins", jenkinsURL, opts...)}, nil
}

// Jobs lists the jobs of the server root.
func (c *Client) Jobs(ctx context.Context) ([]Job, error) {
	out := &jobList{}
	if err := c.api.GetJSON(ctx, "fetch Jenkins jobs", "/api/json", nil, out); err != nil {
		return nil, err
	}
	return out.Jobs, nil
}

// JobStatus returns the result of the last build of job.
func (c *Client) JobStatus(ctx context.Context, job string) (string, error) {
	if job == "" {
		return "", &apierr.ConfigError{Key: "job"}
	}
	info := &jobInfo{}
	err := c.api.GetJSON(ctx, "fetch job status for "+job, jobPath(job)+"/api/json", nil, info)
	if err != nil {
		return "", apierr.NotFoundOn(err, "job", job)
	}
	switch {
	case info.LastBuild == nil:
		return statusNotBuilt, nil
	case info.LastBuild.Result == nil:
		return statusInProgress, nil
	default:
		return *info.LastBuild.Result, nil
	}
}

// BuildLogs returns the console output of a build.
func (c *Client) BuildLogs(ctx context.Context, job, buildNumber string) (string, error) {
	if job == "" || buildNumber == "" {
		return "", &apierr.ConfigError{Key: "job/build-number"}
	}
	logs, err := c.api.GetText(ctx, "fetch build logs", fmt.Sprintf("%s/%s/consoleText", jobPath(job), url.PathEscape(buildNumber)), nil)
	if err != nil {
		var ue *apierr.UpstreamError
		if errors.As(err, &ue) && ue.StatusCode == http.StatusNotFound {
			return "", &apierr.NotFoundError{Kind: "build", Name: fmt.Sprintf("%s of job %s", buildNumber, job)}
		}
		return "", err
	}
	return logs, nil
}

// TriggerBuild queues a new build of job.
func (c *Client) TriggerBuild(ctx context.Context, job string) error {
	if job == "" {
		return &apierr.ConfigError{Key: "job"}
	}
	err := c.api.Send(ctx, "trigger build", http.MethodPost, jobPath(job)+"/build", nil, nil, http.StatusCreated)
	return apierr.NotFoundOn(err, "job", job)
}

func jobPath(job string) string {
	return "/job/" + url.PathEscape(job)
}
