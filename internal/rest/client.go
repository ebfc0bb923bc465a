// Package rest is the small JSON/text HTTP client shared by the CI adapters.
// It fetches a single page per call and never retries.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	cleanhttp "github.com/hashicorp/go-cleanhttp"
	log "github.com/sirupsen/logrus"

	"github.com/devdash-cli/devdash/internal/apierr"
)

const (
	defaultConnTimeoutSec = 30
)

// Client calls a single upstream service rooted at BaseURL.
type Client struct {
	service  string
	baseURL  string
	header   http.Header
	username string
	password string
	client   *http.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithHeader sets a static header sent on every request.
func WithHeader(key, value string) Option {
	return func(c *Client) { c.header.Set(key, value) }
}

// WithBasicAuth enables HTTP basic authentication.
func WithBasicAuth(username, password string) Option {
	return func(c *Client) {
		c.username = username
		c.password = password
	}
}

// WithHTTPClient replaces the default pooled client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.client = hc }
}

// New creates a client for service rooted at baseURL.
func New(service, baseURL string, opts ...Option) *Client {
	hc := cleanhttp.DefaultPooledClient()
	hc.Timeout = defaultConnTimeoutSec * time.Second
	c := &Client{
		service: service,
		baseURL: strings.TrimRight(baseURL, "/"),
		header:  http.Header{},
		client:  hc,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Service returns the upstream name used in error messages.
func (c *Client) Service() string {
	return c.service
}

// Request describes a single call.
type Request struct {
	Method      string
	Path        string
	Query       url.Values
	Body        io.Reader
	ContentType string
	// Expect lists the accepted status codes; empty means any 2xx.
	Expect []int
}

func (r *Request) accepts(code int) bool {
	if len(r.Expect) == 0 {
		return code >= 200 && code <= 299
	}
	for _, c := range r.Expect {
		if c == code {
			return true
		}
	}
	return false
}

// Do issues the request and returns the response when its status is accepted.
// The caller owns the body. op names the operation in error messages.
func (c *Client) Do(ctx context.Context, op string, r *Request) (*http.Response, error) {
	u := c.baseURL + r.Path
	if len(r.Query) > 0 {
		u += "?" + r.Query.Encode()
	}
	method := r.Method
	if method == "" {
		method = http.MethodGet
	}

	req, err := http.NewRequestWithContext(ctx, method, u, r.Body)
	if err != nil {
		return nil, &apierr.TransportError{Service: c.service, Op: op, Err: fmt.Errorf("couldn't create the request: %w", err)}
	}
	for k, v := range c.header {
		req.Header[k] = v
	}
	if r.ContentType != "" {
		req.Header.Set("Content-Type", r.ContentType)
	}
	if c.username != "" || c.password != "" {
		req.SetBasicAuth(c.username, c.password)
	}

	log.Debugf("%s: %s %s", c.service, method, u)
	res, err := c.client.Do(req)
	if err != nil {
		return nil, &apierr.TransportError{Service: c.service, Op: op, Err: err}
	}
	log.Debugf("%s: response code %d", c.service, res.StatusCode)

	if !r.accepts(res.StatusCode) {
		defer res.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return nil, apierr.FromStatus(c.service, op, res.StatusCode, body)
	}
	return res, nil
}

// GetJSON fetches path and decodes the JSON body into out.
func (c *Client) GetJSON(ctx context.Context, op, path string, query url.Values, out interface{}) error {
	res, err := c.Do(ctx, op, &Request{Path: path, Query: query})
	if err != nil {
		return err
	}
	defer res.Body.Close()
	return c.decode(op, res.Body, out)
}

// GetText fetches path and returns the body as text (logs, console output).
func (c *Client) GetText(ctx context.Context, op, path string, query url.Values) (string, error) {
	res, err := c.Do(ctx, op, &Request{Path: path, Query: query})
	if err != nil {
		return "", err
	}
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	if err != nil {
		return "", &apierr.TransportError{Service: c.service, Op: op, Err: err}
	}
	return string(body), nil
}

// Send issues method on path with an optional JSON payload and accepts only
// the expected status codes. When out is not nil the response is decoded
// into it.
func (c *Client) Send(ctx context.Context, op, method, path string, payload, out interface{}, expect ...int) error {
	r := &Request{Method: method, Path: path, Expect: expect}
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("couldn't encode request body: %w", err)
		}
		r.Body = bytes.NewReader(b)
		r.ContentType = "application/json"
	}
	res, err := c.Do(ctx, op, r)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if out == nil {
		_, _ = io.Copy(io.Discard, res.Body)
		return nil
	}
	return c.decode(op, res.Body, out)
}

func (c *Client) decode(op string, body io.Reader, out interface{}) error {
	raw, err := io.ReadAll(body)
	if err != nil {
		return &apierr.TransportError{Service: c.service, Op: op, Err: err}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &apierr.ParseError{Service: c.service, Op: op, Err: err}
	}
	if v, ok := out.(validator); ok {
		if err := v.Validate(); err != nil {
			return &apierr.ParseError{Service: c.service, Op: op, Err: err}
		}
	}
	return nil
}

// validator is implemented by response types that check required fields
// right after decoding.
type validator interface {
	Validate() error
}
