package client

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
	"k8s.io/client-go/util/homedir"

	"github.com/devdash-cli/devdash/internal/apierr"
)

// CreateClients creates the kubernetes clientset. An empty kubeconfig is
// resolved from KUBECONFIG, then ~/.kube/config, then the in-cluster service
// account.
func CreateClients(kubeconfig string) (kubernetes.Interface, *rest.Config, error) {
	kubeconfig = resolveKubeconfig(kubeconfig)

	var (
		config *rest.Config
		err    error
	)
	if kubeconfig == "" {
		config, err = rest.InClusterConfig()
		if err != nil {
			return nil, nil, &apierr.ConfigError{Key: "kubeconfig", Hint: "no kubeconfig found and not running in a cluster"}
		}
	} else {
		log.Debugf("Using kubeconfig %s", kubeconfig)
		config, err = clientcmd.BuildConfigFromFlags("", kubeconfig)
		if err != nil {
			return nil, nil, &apierr.ConfigError{Key: "kubeconfig", Hint: err.Error()}
		}
	}

	clientset, err := kubernetes.NewForConfig(config)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to create kubernetes client")
	}
	return clientset, config, nil
}

func resolveKubeconfig(kubeconfig string) string {
	if kubeconfig != "" {
		return kubeconfig
	}
	if env := os.Getenv("KUBECONFIG"); env != "" {
		return env
	}
	def := filepath.Join(homedir.HomeDir(), ".kube", "config")
	if _, err := os.Stat(def); err == nil {
		return def
	}
	return ""
}
