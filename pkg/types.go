package pkg

import (
	"k8s.io/client-go/rest"
)

const (
	LogFile           = "devdash.log"
	MetricsRecordFile = "system_metrics_history.csv"
	ReportChartFile   = "devdash-report.html"

	// Store keys
	GithubTokenKey = "github_token"
	GithubTokenEnv = "DEVDASH_GITHUB_TOKEN"
)

// Config carries the global settings of a command invocation.
type Config struct {
	Kubeconfig   string
	ClientConfig *rest.Config
	ConfigPath   string
}
