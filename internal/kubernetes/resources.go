package kubernetes

import (
	"context"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/types"

	"github.com/devdash-cli/devdash/internal/apierr"
)

type Service struct {
	Name      string
	Type      string
	ClusterIP string
	Ports     string
}

// ScaleDeployment sets the desired replicas of a deployment.
func (m *Manager) ScaleDeployment(ctx context.Context, namespace, name string, replicas int32) error {
	if replicas < 0 {
		return &apierr.ConfigError{Key: "replicas", Hint: "must not be negative"}
	}
	namespace = namespaceOrDefault(namespace)
	patch := []byte(fmt.Sprintf(`{"spec":{"replicas":%d}}`, replicas))
	_, err := m.client.AppsV1().Deployments(namespace).Patch(ctx, name, types.MergePatchType, patch, metav1.PatchOptions{})
	if err != nil {
		return translate("scale deployment "+name, "deployment", name, err)
	}
	log.Debugf("deployment %s/%s scaled to %d", namespace, name, replicas)
	return nil
}

func (m *Manager) ListServices(ctx context.Context, namespace string) ([]Service, error) {
	namespace = namespaceOrDefault(namespace)
	list, err := m.client.CoreV1().Services(namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, translate("list services", "namespace", "", err)
	}
	out := make([]Service, 0, len(list.Items))
	for _, svc := range list.Items {
		ports := make([]string, 0, len(svc.Spec.Ports))
		for _, p := range svc.Spec.Ports {
			ports = append(ports, fmt.Sprintf("%d/%s", p.Port, p.Protocol))
		}
		out = append(out, Service{
			Name:      svc.Name,
			Type:      string(svc.Spec.Type),
			ClusterIP: svc.Spec.ClusterIP,
			Ports:     strings.Join(ports, ","),
		})
	}
	return out, nil
}

func (m *Manager) CreateNamespace(ctx context.Context, name string) error {
	ns := &corev1.Namespace{ObjectMeta: metav1.ObjectMeta{Name: name}}
	_, err := m.client.CoreV1().Namespaces().Create(ctx, ns, metav1.CreateOptions{})
	return translate("create namespace "+name, "namespace", name, err)
}

func (m *Manager) DeleteNamespace(ctx context.Context, name string) error {
	err := m.client.CoreV1().Namespaces().Delete(ctx, name, metav1.DeleteOptions{})
	return translate("delete namespace "+name, "namespace", name, err)
}

// DeleteNamespacesMatching deletes every namespace whose name matches the
// regular expression and returns the deleted names. Individual failures are
// logged and skipped.
func (m *Manager) DeleteNamespacesMatching(ctx context.Context, pattern string) ([]string, error) {
	client := m.client.CoreV1()
	nsList, err := client.Namespaces().List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, translate("list namespaces", "namespace", "", err)
	}
	names := make([]string, 0, len(nsList.Items))
	for _, ns := range nsList.Items {
		names = append(names, ns.Name)
	}
	matched, err := matchNames(names, pattern)
	if err != nil {
		return nil, err
	}

	var deleted []string
	for _, ns := range matched {
		log.Infof("removing namespace %s...", ns)
		if err := client.Namespaces().Delete(ctx, ns, metav1.DeleteOptions{}); err != nil {
			log.WithError(err).Warnf("error deleting namespace %s", ns)
			continue
		}
		deleted = append(deleted, ns)
	}
	return deleted, nil
}
