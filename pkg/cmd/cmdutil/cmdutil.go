// Package cmdutil holds the helpers shared by the devdash command groups.
package cmdutil

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/devdash-cli/devdash/internal/config"
	"github.com/devdash-cli/devdash/internal/kubernetes"
	"github.com/devdash-cli/devdash/internal/logscan"
	"github.com/devdash-cli/devdash/pkg"
	"github.com/devdash-cli/devdash/pkg/client"
)

// GlobalConfig collects the root persistent flags.
func GlobalConfig() *pkg.Config {
	return &pkg.Config{
		Kubeconfig: viper.GetString("kubeconfig"),
		ConfigPath: viper.GetString("config"),
	}
}

// LoadStore opens the config store named by --config, or the default one.
func LoadStore() (*config.Store, error) {
	path := GlobalConfig().ConfigPath
	if path == "" {
		var err error
		if path, err = config.DefaultPath(); err != nil {
			return nil, err
		}
	}
	return config.Load(path)
}

// GithubToken resolves the token from the environment or the store.
func GithubToken() (string, error) {
	s, err := LoadStore()
	if err != nil {
		return "", err
	}
	return config.GithubToken(s)
}

// Setting returns explicit when set, otherwise the stored key. A store that
// cannot be read is treated as empty.
func Setting(explicit, key string) string {
	if explicit != "" {
		return explicit
	}
	s, err := LoadStore()
	if err != nil {
		return ""
	}
	return config.Lookup(s, "", key)
}

// KubeManager builds the cluster manager from --kubeconfig.
func KubeManager() (*kubernetes.Manager, error) {
	cfg := GlobalConfig()
	cs, restConfig, err := client.CreateClients(cfg.Kubeconfig)
	if err != nil {
		return nil, err
	}
	cfg.ClientConfig = restConfig
	log.Debugf("using cluster %s", cfg.ClientConfig.Host)
	return kubernetes.NewManager(cs), nil
}

// NewTable returns a table writer mirrored to w.
func NewTable(w io.Writer, header ...interface{}) table.Writer {
	tb := table.NewWriter()
	tb.SetOutputMirror(w)
	if len(header) > 0 {
		tb.AppendHeader(table.Row(header))
	}
	return tb
}

// PrintLogs writes logs and, when scan is set, the error pattern counters.
func PrintLogs(w io.Writer, title, logs string, scan bool) {
	fmt.Fprintf(w, "Logs for %s:\n%s\n", title, logs)
	if !scan {
		return
	}
	counters := logscan.Scan(logs)
	if counters == nil {
		fmt.Fprintln(w, "No error patterns found.")
		return
	}
	tb := NewTable(w, "Pattern", "Matches")
	tb.SetTitle("Error patterns")
	for _, c := range counters.Sorted() {
		tb.AppendRow(table.Row{c.Pattern, c.Matches})
	}
	tb.AppendFooter(table.Row{"Total", counters[logscan.TotalKey]})
	tb.Render()
}

// AddScanErrorsFlag registers --scan-errors on a log command.
func AddScanErrorsFlag(cmd *cobra.Command, v *bool) {
	cmd.Flags().BoolVar(v, "scan-errors", false, "Count common error patterns in the fetched logs")
}
