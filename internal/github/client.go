// Package github reads pull requests, issues, commits, push events and
// repository statistics from the GitHub REST v3 API.
package github

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"strings"

	gh "github.com/google/go-github/v68/github"
	cleanhttp "github.com/hashicorp/go-cleanhttp"

	"github.com/devdash-cli/devdash/internal/apierr"
)

const service = "github"

// Client is bound to a single repository.
type Client struct {
	owner string
	name  string
	api   *gh.Client
}

// Option customizes the Client.
type Option func(*gh.Client) error

// WithBaseURL points the client at another API root (GitHub Enterprise, tests).
func WithBaseURL(raw string) Option {
	return func(c *gh.Client) error {
		if !strings.HasSuffix(raw, "/") {
			raw += "/"
		}
		u, err := url.Parse(raw)
		if err != nil {
			return &apierr.ConfigError{Key: "github-url", Hint: err.Error()}
		}
		c.BaseURL = u
		return nil
	}
}

// NewClient creates a client for repo ("owner/name") authenticated by token.
func NewClient(repo, token string, opts ...Option) (*Client, error) {
	owner, name, err := SplitRepo(repo)
	if err != nil {
		return nil, err
	}
	if token == "" {
		return nil, &apierr.ConfigError{
			Key:  "github_token",
			Hint: `GitHub token not set. Use "devdash config set --github-token <token>" to set it`,
		}
	}
	api := gh.NewClient(cleanhttp.DefaultPooledClient()).WithAuthToken(token)
	for _, opt := range opts {
		if err := opt(api); err != nil {
			return nil, err
		}
	}
	return &Client{owner: owner, name: name, api: api}, nil
}

// Repo returns the "owner/name" the client is bound to.
func (c *Client) Repo() string {
	return c.owner + "/" + c.name
}

// SplitRepo validates and splits an "owner/name" repository reference.
func SplitRepo(repo string) (string, string, error) {
	parts := strings.Split(repo, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", &apierr.ConfigError{Key: "repo", Hint: "expected format owner/repo, got " + repo}
	}
	return parts[0], parts[1], nil
}

// translate maps go-github failures onto the adapter error taxonomy.
func translate(op string, resp *gh.Response, err error) error {
	if err == nil {
		return nil
	}
	if resp != nil && resp.Response != nil && (resp.StatusCode < 200 || resp.StatusCode > 299) {
		ue := &apierr.UpstreamError{Service: service, Op: op, StatusCode: resp.StatusCode}
		var er *gh.ErrorResponse
		if errors.As(err, &er) {
			ue.Message = er.Message
		}
		return ue
	}
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return &apierr.ParseError{Service: service, Op: op, Err: err}
	}
	return &apierr.TransportError{Service: service, Op: op, Err: err}
}

func perPage() gh.ListOptions {
	return gh.ListOptions{PerPage: 30}
}

// withContext keeps a nil context from reaching go-github, which panics on it.
func withContext(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
