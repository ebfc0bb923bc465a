package ci

import (
	"errors"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/devdash-cli/devdash/internal/ci/circleci"
	"github.com/devdash-cli/devdash/internal/ci/gitlab"
	"github.com/devdash-cli/devdash/internal/ci/jenkins"
	"github.com/devdash-cli/devdash/pkg/cmd/cmdutil"
)

// Store keys used when the matching flag is not set.
const (
	keyJenkinsURL      = "jenkins_url"
	keyJenkinsUsername = "jenkins_username"
	keyJenkinsToken    = "jenkins_token"
	keyGitlabURL       = "gitlab_url"
	keyGitlabToken     = "gitlab_token"
	keyCircleToken     = "circleci_token"
)

type options struct {
	jenkinsURL  string
	username    string
	token       string
	gitlabURL   string
	circleURL   string
	jobName     string
	buildNumber string
	projectID   string
	projectSlug string
	jobID       string
	ref         string
	scanErrors  bool
}

func NewCmdCI() *cobra.Command {
	o := &options{}
	cmd := &cobra.Command{
		Use:   "ci",
		Short: "Jenkins, GitLab CI and CircleCI jobs and pipelines.",
	}
	cmd.PersistentFlags().StringVar(&o.token, "token", "", "API token (falls back to the stored token of the service)")

	cmd.AddCommand(
		newCmdJenkinsJobs(o),
		newCmdJenkinsJobStatus(o),
		newCmdJenkinsBuildLogs(o),
		newCmdJenkinsTriggerBuild(o),
		newCmdGitlabProjects(o),
		newCmdGitlabPipelineStatus(o),
		newCmdGitlabJobLogs(o),
		newCmdGitlabTriggerPipeline(o),
		newCmdCircleProjects(o),
		newCmdCirclePipelineStatus(o),
		newCmdCircleJobLogs(o),
		newCmdCircleTriggerPipeline(o),
	)
	return cmd
}

func addJenkinsFlags(cmd *cobra.Command, o *options) {
	cmd.Flags().StringVar(&o.jenkinsURL, "jenkins-url", "", "Jenkins server URL")
	cmd.Flags().StringVar(&o.username, "username", "", "Jenkins user")
}

func addGitlabFlags(cmd *cobra.Command, o *options) {
	cmd.Flags().StringVar(&o.gitlabURL, "gitlab-url", "", "GitLab URL, e.g. https://gitlab.com")
}

func addCircleFlags(cmd *cobra.Command, o *options) {
	cmd.Flags().StringVar(&o.circleURL, "circleci-url", "", "CircleCI API URL")
}

func (o *options) jenkins() (*jenkins.Client, error) {
	return jenkins.NewClient(
		cmdutil.Setting(o.jenkinsURL, keyJenkinsURL),
		cmdutil.Setting(o.username, keyJenkinsUsername),
		cmdutil.Setting(o.token, keyJenkinsToken),
	)
}

func (o *options) gitlab() (*gitlab.Client, error) {
	return gitlab.NewClient(
		cmdutil.Setting(o.gitlabURL, keyGitlabURL),
		cmdutil.Setting(o.token, keyGitlabToken),
	)
}

func (o *options) circle() (*circleci.Client, error) {
	var opts []circleci.Option
	if o.circleURL != "" {
		opts = append(opts, circleci.WithURL(o.circleURL))
	}
	return circleci.NewClient(cmdutil.Setting(o.token, keyCircleToken), opts...)
}

func newCmdJenkinsJobs(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jenkins-jobs",
		Short: "List Jenkins jobs.",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := o.jenkins()
			if err != nil {
				return err
			}
			jobs, err := c.Jobs(cmd.Context())
			if err != nil {
				return err
			}
			tb := cmdutil.NewTable(cmd.OutOrStdout(), "Job", "Color", "URL")
			for _, j := range jobs {
				tb.AppendRow(table.Row{j.Name, j.Color, j.URL})
			}
			tb.Render()
			return nil
		},
	}
	addJenkinsFlags(cmd, o)
	return cmd
}

func newCmdJenkinsJobStatus(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jenkins-job-status",
		Short: "Show the result of the last build of a job.",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := o.jenkins()
			if err != nil {
				return err
			}
			status, err := c.JobStatus(cmd.Context(), o.jobName)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Job %s: %s\n", o.jobName, status)
			return nil
		},
	}
	addJenkinsFlags(cmd, o)
	cmd.Flags().StringVar(&o.jobName, "job-name", "", "Jenkins job")
	_ = cmd.MarkFlagRequired("job-name")
	return cmd
}

func newCmdJenkinsBuildLogs(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jenkins-build-logs",
		Short: "Print the console output of a build.",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := o.jenkins()
			if err != nil {
				return err
			}
			logs, err := c.BuildLogs(cmd.Context(), o.jobName, o.buildNumber)
			if err != nil {
				return err
			}
			cmdutil.PrintLogs(cmd.OutOrStdout(), fmt.Sprintf("%s #%s", o.jobName, o.buildNumber), logs, o.scanErrors)
			return nil
		},
	}
	addJenkinsFlags(cmd, o)
	cmd.Flags().StringVar(&o.jobName, "job-name", "", "Jenkins job")
	cmd.Flags().StringVar(&o.buildNumber, "build-number", "lastBuild", "Build number")
	cmdutil.AddScanErrorsFlag(cmd, &o.scanErrors)
	_ = cmd.MarkFlagRequired("job-name")
	return cmd
}

func newCmdJenkinsTriggerBuild(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jenkins-trigger-build",
		Short: "Queue a new build of a job.",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := o.jenkins()
			if err != nil {
				return err
			}
			if err := c.TriggerBuild(cmd.Context(), o.jobName); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Build triggered for job %s.\n", o.jobName)
			return nil
		},
	}
	addJenkinsFlags(cmd, o)
	cmd.Flags().StringVar(&o.jobName, "job-name", "", "Jenkins job")
	_ = cmd.MarkFlagRequired("job-name")
	return cmd
}

func newCmdGitlabProjects(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gitlab-projects",
		Short: "List GitLab projects.",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := o.gitlab()
			if err != nil {
				return err
			}
			projects, err := c.Projects(cmd.Context())
			if err != nil {
				return err
			}
			tb := cmdutil.NewTable(cmd.OutOrStdout(), "ID", "Project")
			for _, p := range projects {
				tb.AppendRow(table.Row{p.ID, p.Name})
			}
			tb.Render()
			return nil
		},
	}
	addGitlabFlags(cmd, o)
	return cmd
}

func newCmdGitlabPipelineStatus(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gitlab-pipeline-status",
		Short: "Show the status of the latest pipeline of a project.",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := o.gitlab()
			if err != nil {
				return err
			}
			status, err := c.PipelineStatus(cmd.Context(), o.projectID)
			if errors.Is(err, gitlab.ErrNoPipelines) {
				fmt.Fprintf(cmd.OutOrStdout(), "No pipelines found for project %s.\n", o.projectID)
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Latest pipeline of project %s: %s\n", o.projectID, status)
			return nil
		},
	}
	addGitlabFlags(cmd, o)
	cmd.Flags().StringVar(&o.projectID, "project-id", "", "GitLab project ID or path")
	_ = cmd.MarkFlagRequired("project-id")
	return cmd
}

func newCmdGitlabJobLogs(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gitlab-job-logs",
		Short: "Print the trace of a GitLab job.",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := o.gitlab()
			if err != nil {
				return err
			}
			logs, err := c.JobLogs(cmd.Context(), o.projectID, o.jobID)
			if err != nil {
				return err
			}
			cmdutil.PrintLogs(cmd.OutOrStdout(), "job "+o.jobID, logs, o.scanErrors)
			return nil
		},
	}
	addGitlabFlags(cmd, o)
	cmd.Flags().StringVar(&o.projectID, "project-id", "", "GitLab project ID or path")
	cmd.Flags().StringVar(&o.jobID, "job-id", "", "GitLab job ID")
	cmdutil.AddScanErrorsFlag(cmd, &o.scanErrors)
	_ = cmd.MarkFlagRequired("project-id")
	_ = cmd.MarkFlagRequired("job-id")
	return cmd
}

func newCmdGitlabTriggerPipeline(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gitlab-trigger-pipeline",
		Short: "Create a pipeline on a ref.",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := o.gitlab()
			if err != nil {
				return err
			}
			if err := c.TriggerPipeline(cmd.Context(), o.projectID, o.ref); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Pipeline triggered for project %s on %s.\n", o.projectID, o.ref)
			return nil
		},
	}
	addGitlabFlags(cmd, o)
	cmd.Flags().StringVar(&o.projectID, "project-id", "", "GitLab project ID or path")
	cmd.Flags().StringVar(&o.ref, "ref", "main", "Branch or tag")
	_ = cmd.MarkFlagRequired("project-id")
	return cmd
}

func newCmdCircleProjects(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "circleci-projects",
		Short: "List followed CircleCI projects.",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := o.circle()
			if err != nil {
				return err
			}
			projects, err := c.Projects(cmd.Context())
			if err != nil {
				return err
			}
			tb := cmdutil.NewTable(cmd.OutOrStdout(), "Slug", "Project")
			for _, p := range projects {
				tb.AppendRow(table.Row{p.Slug, p.Name})
			}
			tb.Render()
			return nil
		},
	}
	addCircleFlags(cmd, o)
	return cmd
}

func newCmdCirclePipelineStatus(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "circleci-pipeline-status",
		Short: "Show the state of the latest pipeline of a project.",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := o.circle()
			if err != nil {
				return err
			}
			status, err := c.PipelineStatus(cmd.Context(), o.projectSlug)
			if errors.Is(err, circleci.ErrNoPipelines) {
				fmt.Fprintf(cmd.OutOrStdout(), "No pipelines found for %s.\n", o.projectSlug)
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Latest pipeline of %s: %s\n", o.projectSlug, status)
			return nil
		},
	}
	addCircleFlags(cmd, o)
	cmd.Flags().StringVar(&o.projectSlug, "project-slug", "", "Project slug, e.g. gh/org/repo")
	_ = cmd.MarkFlagRequired("project-slug")
	return cmd
}

func newCmdCircleJobLogs(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "circleci-job-logs",
		Short: "Print the output of a CircleCI job.",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := o.circle()
			if err != nil {
				return err
			}
			logs, err := c.JobLogs(cmd.Context(), o.jobID)
			if err != nil {
				return err
			}
			cmdutil.PrintLogs(cmd.OutOrStdout(), "job "+o.jobID, logs, o.scanErrors)
			return nil
		},
	}
	addCircleFlags(cmd, o)
	cmd.Flags().StringVar(&o.jobID, "job-id", "", "CircleCI job ID")
	cmdutil.AddScanErrorsFlag(cmd, &o.scanErrors)
	_ = cmd.MarkFlagRequired("job-id")
	return cmd
}

func newCmdCircleTriggerPipeline(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "circleci-trigger-pipeline",
		Short: "Trigger a pipeline on a branch.",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := o.circle()
			if err != nil {
				return err
			}
			if err := c.TriggerPipeline(cmd.Context(), o.projectSlug, o.ref); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Pipeline triggered for %s on %s.\n", o.projectSlug, o.ref)
			return nil
		},
	}
	addCircleFlags(cmd, o)
	cmd.Flags().StringVar(&o.projectSlug, "project-slug", "", "Project slug, e.g. gh/org/repo")
	cmd.Flags().StringVar(&o.ref, "branch", "main", "Branch to build")
	_ = cmd.MarkFlagRequired("project-slug")
	return cmd
}
