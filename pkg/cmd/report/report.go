package report

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"time"

	"github.com/briandowns/spinner"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/devdash-cli/devdash/internal/apierr"
	"github.com/devdash-cli/devdash/internal/assets"
	"github.com/devdash-cli/devdash/internal/docker"
	"github.com/devdash-cli/devdash/internal/report"
	"github.com/devdash-cli/devdash/internal/system"
	"github.com/devdash-cli/devdash/pkg"
	"github.com/devdash-cli/devdash/pkg/cmd/cmdutil"
)

type Input struct {
	configFile string
	chart      string
	xlsx       string
	noProgress bool
}

// newAdapters is replaced in tests.
var newAdapters = defaultAdapters

func NewCmdReport() *cobra.Command {
	data := Input{}
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Run a batch of tasks and report the results.",
		Long: `Run the tasks listed in a batch file, in order, and print one table row per
task. Failing tasks are reported inline and never stop the run. CPU, memory and
container metrics collected by the tasks can be saved as an HTML chart.

Print a sample batch file with "devdash report example".`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if data.configFile == "" {
				return &apierr.ConfigError{Key: "config-file", Hint: "a batch file is required, see \"devdash report example\""}
			}
			return processResult(cmd.Context(), &data, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.Flags().StringVarP(
		&data.configFile, "config-file", "c", "",
		"Batch file with the tasks to run. Example: --config-file report.yaml",
	)
	cmd.Flags().StringVar(
		&data.chart, "chart", "",
		fmt.Sprintf("Save the metrics chart as HTML. Example: --chart %s", pkg.ReportChartFile),
	)
	cmd.Flags().StringVar(
		&data.xlsx, "xlsx", "",
		"Save results and metrics to a spreadsheet. Example: --xlsx report.xlsx",
	)
	cmd.Flags().BoolVar(
		&data.noProgress, "no-progress", false,
		"Do not show the progress spinner",
	)

	cmd.AddCommand(newCmdExample())
	return cmd
}

func newCmdExample() *cobra.Command {
	var list bool
	cmd := &cobra.Command{
		Use:   "example [NAME]",
		Short: "Print a sample batch file.",
		Long: `Print a sample batch file. Without NAME the general example is printed;
--list shows every bundled template.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if list {
				names, err := assets.GetAllFilenames(assets.GetData(), assets.TemplatesDir)
				if err != nil {
					return errors.Wrap(err, "unable to list templates")
				}
				for _, name := range names {
					fmt.Fprintln(cmd.OutOrStdout(), path.Base(name))
				}
				return nil
			}
			name := assets.ReportExample
			if len(args) == 1 {
				name = path.Join(assets.TemplatesDir, args[0])
			}
			b, err := assets.ReadFile(name)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(b)
			return err
		},
	}
	cmd.Flags().BoolVar(&list, "list", false, "List the bundled templates")
	return cmd
}

// defaultAdapters wires every integration. Clients that need a daemon or a
// cluster are created on first use, so a batch without those tasks does not
// require them.
func defaultAdapters() map[report.Integration]report.Adapter {
	ciDefaults := report.Params{
		"jenkins-url":    cmdutil.Setting("", "jenkins_url"),
		"username":       cmdutil.Setting("", "jenkins_username"),
		"jenkins-token":  cmdutil.Setting("", "jenkins_token"),
		"gitlab-url":     cmdutil.Setting("", "gitlab_url"),
		"gitlab-token":   cmdutil.Setting("", "gitlab_token"),
		"circleci-token": cmdutil.Setting("", "circleci_token"),
	}
	return map[report.Integration]report.Adapter{
		report.IntegrationGithub:     report.NewGithubAdapter(cmdutil.GithubToken),
		report.IntegrationCI:         report.NewCIAdapter(ciDefaults),
		report.IntegrationDocker:     report.NewDockerAdapter(docker.NewClient),
		report.IntegrationSystem:     report.NewSystemAdapter(system.NewHostCollector()),
		report.IntegrationKubernetes: report.NewKubernetesAdapter(cmdutil.KubeManager),
	}
}

// processResult runs the batch file and shows the results.
func processResult(ctx context.Context, input *Input, out, errOut io.Writer) error {
	f, err := os.Open(input.configFile)
	if err != nil {
		return errors.Wrapf(err, "unable to open batch file %s", input.configFile)
	}
	defer f.Close()

	specs, err := report.ParseTasks(f)
	if err != nil {
		return err
	}
	log.Debugf("loaded %d tasks from %s", len(specs), input.configFile)

	runner := report.NewRunner(newAdapters())
	var progress *spinner.Spinner
	if !input.noProgress {
		progress = spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(errOut))
		runner.OnTask = func(i int, spec report.TaskSpec) {
			progress.Lock()
			progress.Suffix = fmt.Sprintf(" [%d/%d] %s", i+1, len(specs), spec)
			progress.Unlock()
		}
		progress.Start()
	}
	rows := runner.Run(ctx, specs)
	if progress != nil {
		progress.Stop()
	}
	return showResults(runner, rows, input, out)
}

func showResults(runner *report.Runner, rows []report.Row, input *Input, out io.Writer) error {
	headers, rows := report.Normalize(rows)
	report.Render(out, headers, rows)
	report.RenderSummary(out, runner.Series)

	if input.chart != "" {
		written, err := report.RenderChart(runner.Series, input.chart)
		if err != nil {
			return err
		}
		if written {
			fmt.Fprintf(out, "Chart saved to %s\n", input.chart)
		} else {
			fmt.Fprintln(out, "No metrics collected, chart not created.")
		}
	}

	if input.xlsx != "" {
		if err := report.SaveXLSX(input.xlsx, headers, rows, runner.Series); err != nil {
			return err
		}
		fmt.Fprintf(out, "Spreadsheet saved to %s\n", input.xlsx)
	}
	log.WithField("run", runner.ID).Debug("report done")
	return nil
}
