// Package docker drives the local Docker engine through the official SDK:
// containers, volumes, networks and images.
package docker

import (
	"net/http"
	"os"
	"strings"

	"github.com/docker/docker/client"
	"github.com/docker/docker/errdefs"

	"github.com/devdash-cli/devdash/internal/apierr"
)

const service = "docker"

// Client wraps the engine SDK client and maps its errors onto apierr.
type Client struct {
	api *client.Client
}

// NewClient connects to the engine named by DOCKER_HOST (unix:// or tcp://)
// or to the default socket. DOCKER_API_VERSION pins the API version,
// otherwise it is negotiated with the engine.
func NewClient() (*Client, error) {
	host := os.Getenv("DOCKER_HOST")
	if host != "" && !strings.HasPrefix(host, "unix://") && !strings.HasPrefix(host, "tcp://") {
		return nil, &apierr.ConfigError{Key: "DOCKER_HOST", Hint: "unsupported scheme in " + host}
	}
	return newClient(client.FromEnv, client.WithAPIVersionNegotiation())
}

// NewClientWithHost talks to the engine at host using a fixed API version.
func NewClientWithHost(host, version string) (*Client, error) {
	return newClient(client.WithHost(host), client.WithVersion(version))
}

func newClient(opts ...client.Opt) (*Client, error) {
	api, err := client.NewClientWithOpts(opts...)
	if err != nil {
		return nil, &apierr.ConfigError{Key: "DOCKER_HOST", Hint: err.Error()}
	}
	return &Client{api: api}, nil
}

// Close releases the transport of the SDK client.
func (c *Client) Close() error {
	return c.api.Close()
}

// translate maps an SDK error to the shared taxonomy. kind and name identify
// the addressed object; a not-found on an unnamed call stays an UpstreamError.
func translate(err error, op, kind, name string) error {
	if err == nil {
		return nil
	}
	if client.IsErrConnectionFailed(err) {
		return &apierr.TransportError{Service: service, Op: op, Err: err}
	}
	if errdefs.IsNotFound(err) && name != "" {
		return &apierr.NotFoundError{Kind: kind, Name: name}
	}
	if code := statusOf(err); code != 0 {
		return &apierr.UpstreamError{Service: service, Op: op, StatusCode: code, Message: err.Error()}
	}
	return &apierr.TransportError{Service: service, Op: op, Err: err}
}

// statusOf recovers the HTTP status the SDK folded into an errdefs class.
func statusOf(err error) int {
	switch {
	case errdefs.IsNotFound(err):
		return http.StatusNotFound
	case errdefs.IsInvalidParameter(err):
		return http.StatusBadRequest
	case errdefs.IsUnauthorized(err):
		return http.StatusUnauthorized
	case errdefs.IsForbidden(err):
		return http.StatusForbidden
	case errdefs.IsConflict(err):
		return http.StatusConflict
	case errdefs.IsNotImplemented(err):
		return http.StatusNotImplemented
	case errdefs.IsUnavailable(err):
		return http.StatusServiceUnavailable
	case errdefs.IsSystem(err):
		return http.StatusInternalServerError
	}
	return 0
}
