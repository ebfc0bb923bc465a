// Package circleci reads projects, pipelines and job output from the
// CircleCI REST v2 API.
package circleci

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/devdash-cli/devdash/internal/apierr"
	"github.com/devdash-cli/devdash/internal/rest"
)

const apiURL = "https://circleci.com/api/v2"

// ErrNoPipelines is returned by PipelineStatus when the project has no
// pipelines.
var ErrNoPipelines = errors.New("no pipelines found")

type Project struct {
	Slug string `json:"slug"`
	Name string `json:"name"`
}

type Pipeline struct {
	ID     string `json:"id"`
	Number int    `json:"number"`
	State  string `json:"state"`
}

type pipelineList struct {
	Items []Pipeline `json:"items"`
}

func (l *pipelineList) Validate() error {
	if l.Items == nil {
		return errors.New("missing items")
	}
	return nil
}

// Client calls the CircleCI API with a personal token.
type Client struct {
	api *rest.Client
}

// NewClient creates a client. The rest options allow overriding the endpoint
// (see WithURL).
func NewClient(token string, opts ...Option) (*Client, error) {
	if token == "" {
		return nil, &apierr.ConfigError{Key: "circle-token", Hint: "CircleCI personal access token is required"}
	}
	cfg := &options{url: apiURL}
	for _, opt := range opts {
		opt(cfg)
	}
	return &Client{api: rest.New("circleci", cfg.url, rest.WithHeader("Circle-Token", token))}, nil
}

type options struct {
	url string
}

// Option customizes the client.
type Option func(*options)

// WithURL overrides the API root.
func WithURL(u string) Option {
	return func(o *options) { o.url = u }
}

// Projects lists the followed projects.
func (c *Client) Projects(ctx context.Context) ([]Project, error) {
	out := []Project{}
	if err := c.api.GetJSON(ctx, "fetch CircleCI projects", "/project", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// PipelineStatus returns the state of the latest pipeline of slug
// (e.g. gh/owner/repo).
func (c *Client) PipelineStatus(ctx context.Context, slug string) (string, error) {
	if slug == "" {
		return "", &apierr.ConfigError{Key: "project-slug"}
	}
	out := &pipelineList{}
	if err := c.api.GetJSON(ctx, "fetch CircleCI pipelines", slugPath(slug)+"/pipeline", nil, out); err != nil {
		return "", apierr.NotFoundOn(err, "project", slug)
	}
	if len(out.Items) == 0 {
		return "", ErrNoPipelines
	}
	return out.Items[0].State, nil
}

// JobLogs returns the output of a job.
func (c *Client) JobLogs(ctx context.Context, jobID string) (string, error) {
	if jobID == "" {
		return "", &apierr.ConfigError{Key: "job-id"}
	}
	logs, err := c.api.GetText(ctx, "fetch job logs", "/job/"+url.PathEscape(jobID)+"/output", nil)
	if err != nil {
		return "", apierr.NotFoundOn(err, "job", jobID)
	}
	return logs, nil
}

// TriggerPipeline starts a pipeline of slug on branch.
func (c *Client) TriggerPipeline(ctx context.Context, slug, branch string) error {
	if slug == "" {
		return &apierr.ConfigError{Key: "project-slug"}
	}
	if branch == "" {
		branch = "main"
	}
	payload := map[string]string{"branch": branch}
	err := c.api.Send(ctx, "trigger pipeline", http.MethodPost, slugPath(slug)+"/pipeline", payload, nil, http.StatusCreated)
	return apierr.NotFoundOn(err, "project", slug)
}

// slugPath keeps the slash separators of vcs/org/repo.
func slugPath(slug string) string {
	parts := strings.Split(slug, "/")
	for i := range parts {
		parts[i] = url.PathEscape(parts[i])
	}
	return "/project/" + strings.Join(parts, "/")
}
