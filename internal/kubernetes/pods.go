package kubernetes

import (
	"context"
	"encoding/json"
	"fmt"
	"path"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/devdash-cli/devdash/internal/apierr"
)

type Pod struct {
	Name      string
	Namespace string
	Status    string
	Restarts  int32
	Node      string
}

// ListPods lists the pods of namespace with their summarized status.
func (m *Manager) ListPods(ctx context.Context, namespace string) ([]Pod, error) {
	namespace = namespaceOrDefault(namespace)
	list, err := m.client.CoreV1().Pods(namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, translate("list pods", "namespace", "", err)
	}
	pods := make([]Pod, 0, len(list.Items))
	for i := range list.Items {
		p := &list.Items[i]
		var restarts int32
		for _, cs := range p.Status.ContainerStatuses {
			restarts += cs.RestartCount
		}
		pods = append(pods, Pod{
			Name:      p.Name,
			Namespace: p.Namespace,
			Status:    PodStatus(p),
			Restarts:  restarts,
			Node:      p.Spec.NodeName,
		})
	}
	return pods, nil
}

// PodStatus summarizes the pod readiness the way kubectl shows it.
func PodStatus(pod *corev1.Pod) string {
	if pod == nil {
		return "Unknown"
	}
	if pod.DeletionTimestamp != nil {
		return "Terminating"
	}
	for _, cond := range pod.Status.Conditions {
		if cond.Type != corev1.PodReady {
			continue
		}
		switch {
		case cond.Status == corev1.ConditionTrue && pod.Status.Phase == corev1.PodRunning:
			return "Running"
		case cond.Status == corev1.ConditionFalse && cond.Reason == "PodCompleted":
			return "Completed"
		case cond.Status == corev1.ConditionFalse && cond.Reason == "ContainersNotReady":
			for _, cs := range pod.Status.ContainerStatuses {
				if cs.State.Waiting != nil && cs.State.Waiting.Reason != "" {
					return cs.State.Waiting.Reason
				}
			}
			return "NotReady"
		}
	}
	if pod.Status.Phase == "" {
		return "Pending"
	}
	return string(pod.Status.Phase)
}

// PodLogs returns the logs of the first container of a pod.
func (m *Manager) PodLogs(ctx context.Context, namespace, name string) (string, error) {
	namespace = namespaceOrDefault(namespace)
	op := "fetch logs for pod " + name
	pods := m.client.CoreV1().Pods(namespace)
	if _, err := pods.Get(ctx, name, metav1.GetOptions{}); err != nil {
		return "", translate(op, "pod", name, err)
	}
	raw, err := pods.GetLogs(name, &corev1.PodLogOptions{}).DoRaw(ctx)
	if err != nil {
		return "", translate(op, "pod", name, err)
	}
	return string(raw), nil
}

// ContainerUsage is the current usage of one container reported by the
// metrics server.
type ContainerUsage struct {
	Name  string              `json:"name"`
	Usage corev1.ResourceList `json:"usage"`
}

func (c ContainerUsage) CPU() string {
	return c.Usage.Cpu().String()
}

func (c ContainerUsage) Memory() string {
	return c.Usage.Memory().String()
}

type podMetrics struct {
	Metadata struct {
		Name string `json:"name"`
	} `json:"metadata"`
	Containers []ContainerUsage `json:"containers"`
}

// PodStats reads the metrics.k8s.io usage of a pod. It requires the metrics
// server to be installed in the cluster.
func (m *Manager) PodStats(ctx context.Context, namespace, name string) ([]ContainerUsage, error) {
	namespace = namespaceOrDefault(namespace)
	p := path.Join("/apis/metrics.k8s.io/v1beta1/namespaces", namespace, "pods", name)
	raw, err := m.metrics(ctx, p)
	if err != nil {
		return nil, translate("fetch metrics for pod "+name, "pod metrics", name, err)
	}
	return parsePodMetrics(raw)
}

func parsePodMetrics(raw []byte) ([]ContainerUsage, error) {
	pm := &podMetrics{}
	if err := json.Unmarshal(raw, pm); err != nil {
		return nil, &apierr.ParseError{Service: service, Op: "decode pod metrics", Err: err}
	}
	if pm.Containers == nil {
		return nil, &apierr.ParseError{Service: service, Op: "decode pod metrics", Err: fmt.Errorf("no containers in metrics of %q", pm.Metadata.Name)}
	}
	return pm.Containers, nil
}
