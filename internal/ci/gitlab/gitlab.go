// Package gitlab reads projects, pipelines and job traces from the GitLab
// REST v4 API using a personal access token.
package gitlab

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/devdash-cli/devdash/internal/apierr"
	"github.com/devdash-cli/devdash/internal/rest"
)

// ErrNoPipelines is returned by PipelineStatus when the project has never run
// a pipeline.
var ErrNoPipelines = errors.New("no pipelines found")

type Project struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type projectList []Project

func (l projectList) Validate() error {
	for i, p := range l {
		if p.ID == 0 {
			return fmt.Errorf("project %d has no id", i)
		}
	}
	return nil
}

type Pipeline struct {
	ID     int    `json:"id"`
	Status string `json:"status"`
	Ref    string `json:"ref"`
}

// Client calls a single GitLab instance.
type Client struct {
	api *rest.Client
}

// NewClient creates a client for gitlabURL (e.g. https://gitlab.com).
func NewClient(gitlabURL, token string, opts ...rest.Option) (*Client, error) {
	if gitlabURL == "" {
		return nil, &apierr.ConfigError{Key: "gitlab-url"}
	}
	if token == "" {
		return nil, &apierr.ConfigError{Key: "token", Hint: "GitLab personal access token is required"}
	}
	opts = append([]rest.Option{rest.WithHeader("Private-Token", token)}, opts...)
	return &Client{api: rest.New("gitlab", gitlabURL+"/api/v4", opts...)}, nil
}

// Projects lists the first page of projects visible to the token.
func (c *Client) Projects(ctx context.Context) ([]Project, error) {
	out := projectList{}
	if err := c.api.GetJSON(ctx, "fetch GitLab projects", "/projects", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// PipelineStatus returns the status of the latest pipeline of projectID.
func (c *Client) PipelineStatus(ctx context.Context, projectID string) (string, error) {
	if projectID == "" {
		return "", &apierr.ConfigError{Key: "project-id"}
	}
	pipelines := []Pipeline{}
	err := c.api.GetJSON(ctx, "fetch GitLab pipelines", projectPath(projectID)+"/pipelines", nil, &pipelines)
	if err != nil {
		return "", apierr.NotFoundOn(err, "project", projectID)
	}
	if len(pipelines) == 0 {
		return "", ErrNoPipelines
	}
	return pipelines[0].Status, nil
}

// JobLogs returns the trace of a pipeline job.
func (c *Client) JobLogs(ctx context.Context, projectID, jobID string) (string, error) {
	if projectID == "" || jobID == "" {
		return "", &apierr.ConfigError{Key: "project-id/job-id"}
	}
	logs, err := c.api.GetText(ctx, "fetch job logs", fmt.Sprintf("%s/jobs/%s/trace", projectPath(projectID), url.PathEscape(jobID)), nil)
	if err != nil {
		return "", apierr.NotFoundOn(err, "job", fmt.Sprintf("%s for project %s", jobID, projectID))
	}
	return logs, nil
}

// TriggerPipeline starts a pipeline on ref.
func (c *Client) TriggerPipeline(ctx context.Context, projectID, ref string) error {
	if projectID == "" {
		return &apierr.ConfigError{Key: "project-id"}
	}
	if ref == "" {
		ref = "master"
	}
	payload := map[string]string{"ref": ref}
	err := c.api.Send(ctx, "trigger pipeline", http.MethodPost, projectPath(projectID)+"/trigger/pipeline", payload, nil, http.StatusCreated)
	return apierr.NotFoundOn(err, "project", projectID)
}

func projectPath(id string) string {
	return "/projects/" + url.PathEscape(id)
}
