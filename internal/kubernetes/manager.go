// Package kubernetes wraps the cluster operations exposed by devdash: pods,
// deployments, services, namespaces and pod metrics, plus the helm CLI.
package kubernetes

import (
	"context"
	"errors"
	"regexp"

	log "github.com/sirupsen/logrus"
	kerrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/client-go/kubernetes"

	"github.com/devdash-cli/devdash/internal/apierr"
)

const (
	DefaultNamespace = "default"
	service          = "kubernetes"
)

// MetricsFetcher returns the raw body of a metrics.k8s.io path.
type MetricsFetcher func(ctx context.Context, path string) ([]byte, error)

// Manager runs cluster operations against a single clientset.
type Manager struct {
	client  kubernetes.Interface
	metrics MetricsFetcher
}

type Option func(*Manager)

// WithMetricsFetcher replaces the metrics API transport.
func WithMetricsFetcher(f MetricsFetcher) Option {
	return func(m *Manager) { m.metrics = f }
}

func NewManager(client kubernetes.Interface, opts ...Option) *Manager {
	m := &Manager{client: client}
	m.metrics = func(ctx context.Context, path string) ([]byte, error) {
		return m.client.CoreV1().RESTClient().Get().AbsPath(path).DoRaw(ctx)
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func namespaceOrDefault(ns string) string {
	if ns == "" {
		return DefaultNamespace
	}
	return ns
}

// translate maps API machinery errors to the adapter taxonomy. name is the
// object targeted by op; list calls pass an empty name.
func translate(op, kind, name string, err error) error {
	if err == nil {
		return nil
	}
	if kerrors.IsNotFound(err) && name != "" {
		return &apierr.NotFoundError{Kind: kind, Name: name}
	}
	var status kerrors.APIStatus
	if errors.As(err, &status) {
		st := status.Status()
		return &apierr.UpstreamError{Service: service, Op: op, StatusCode: int(st.Code), Message: st.Message}
	}
	return &apierr.TransportError{Service: service, Op: op, Err: err}
}

// matchNames returns the names accepted by pattern, keeping their order.
func matchNames(names []string, pattern string) ([]string, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, &apierr.ConfigError{Key: "pattern", Hint: err.Error()}
	}
	var out []string
	for _, n := range names {
		if re.MatchString(n) {
			log.Debugf("namespace %s matches %q", n, pattern)
			out = append(out, n)
		}
	}
	return out, nil
}
