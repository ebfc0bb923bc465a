package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	log "github.com/sirupsen/logrus"
	logwriter "github.com/sirupsen/logrus/hooks/writer"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/devdash-cli/devdash/pkg"
	"github.com/devdash-cli/devdash/pkg/cmd/ci"
	"github.com/devdash-cli/devdash/pkg/cmd/config"
	"github.com/devdash-cli/devdash/pkg/cmd/docker"
	"github.com/devdash-cli/devdash/pkg/cmd/github"
	"github.com/devdash-cli/devdash/pkg/cmd/kubernetes"
	"github.com/devdash-cli/devdash/pkg/cmd/report"
	"github.com/devdash-cli/devdash/pkg/cmd/system"
	"github.com/devdash-cli/devdash/pkg/version"
)

const envPrefix = "devdash"

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "devdash",
	Short: "Developer dashboard",
	Long: `devdash gathers the state of the services a developer works with: GitHub
repositories, CI pipelines (Jenkins, GitLab, CircleCI), Docker, Kubernetes and
the local host. Every integration can be queried on its own, or in batch with
"devdash report".`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		var err error

		// Validate logging level
		loglevel := viper.GetString("log-level")
		logrusLevel, err := log.ParseLevel(loglevel)
		if err != nil {
			log.Fatal(err)
		}
		log.SetLevel(logrusLevel)

		// Additional log options
		log.SetFormatter(&log.TextFormatter{
			FullTimestamp: true,
		})

		// stdout is reserved for command output
		log.SetOutput(os.Stderr)
		fdLog, err := os.OpenFile(pkg.LogFile, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0644)
		if err != nil {
			log.Errorf("error opening file %s: %v", pkg.LogFile, err)
		} else {
			log.AddHook(&logwriter.Hook{
				Writer: fdLog,
				LogLevels: []log.Level{
					log.PanicLevel,
					log.FatalLevel,
					log.ErrorLevel,
					log.WarnLevel,
					log.InfoLevel,
					log.DebugLevel,
				},
			})
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
// SIGINT and SIGTERM cancel the command context, stopping long running
// commands such as live-metrics.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func initBindFlag(flag string) {
	err := viper.BindPFlag(flag, rootCmd.PersistentFlags().Lookup(flag))
	if err != nil {
		log.Warnf("Unable to bind flag %s\n", flag)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("kubeconfig", "", "kubeconfig for the target cluster (defaults to $KUBECONFIG or ~/.kube/config)")
	rootCmd.PersistentFlags().String("log-level", "info", "logging level")
	rootCmd.PersistentFlags().String("config", "", "path of the devdash config store (defaults to ~/.devdash.yaml or $XDG_CONFIG_HOME/devdash/config.yaml)")
	initBindFlag("kubeconfig")
	initBindFlag("log-level")
	initBindFlag("config")

	// Link in child commands
	rootCmd.AddCommand(config.NewCmdConfig())
	rootCmd.AddCommand(github.NewCmdGithub())
	rootCmd.AddCommand(ci.NewCmdCI())
	rootCmd.AddCommand(docker.NewCmdDocker())
	rootCmd.AddCommand(kubernetes.NewCmdKubernetes())
	rootCmd.AddCommand(system.NewCmdSystem())
	rootCmd.AddCommand(report.NewCmdReport())
	rootCmd.AddCommand(version.NewCmdVersion())
}

// initConfig reads in ENV variables if set, e.g. DEVDASH_LOG_LEVEL.
func initConfig() {
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match
}
