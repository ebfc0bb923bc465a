package github

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/devdash-cli/devdash/internal/github"
	"github.com/devdash-cli/devdash/pkg/cmd/cmdutil"
)

type options struct {
	repo    string
	state   string
	branch  string
	author  string
	since   string
	until   string
	message string
	baseURL string
}

func (o *options) client() (*github.Client, error) {
	token, err := cmdutil.GithubToken()
	if err != nil {
		return nil, err
	}
	var opts []github.Option
	if o.baseURL != "" {
		opts = append(opts, github.WithBaseURL(o.baseURL))
	}
	return github.NewClient(o.repo, token, opts...)
}

func (o *options) filter() github.CommitFilter {
	return github.CommitFilter{
		Branch:  o.branch,
		Author:  o.author,
		Since:   o.since,
		Until:   o.until,
		Message: o.message,
	}
}

func NewCmdGithub() *cobra.Command {
	o := &options{}
	cmd := &cobra.Command{
		Use:   "github",
		Short: "GitHub pull requests, issues, commits and activity.",
	}
	cmd.PersistentFlags().StringVar(&o.repo, "repo", "", "Repository as owner/name")
	cmd.PersistentFlags().StringVar(&o.baseURL, "api-url", "", "GitHub API URL (GitHub Enterprise)")
	_ = cmd.MarkPersistentFlagRequired("repo")

	cmd.AddCommand(
		newCmdPR(o),
		newCmdIssues(o),
		newCmdStats(o),
		newCmdCommits(o),
		newCmdGroupByUser(o),
		newCmdGroupByBranch(o),
		newCmdPushes(o),
	)
	return cmd
}

func addStateFlag(cmd *cobra.Command, o *options) {
	cmd.Flags().StringVar(&o.state, "state", "open", "State filter: open, closed or all")
}

func addCommitFlags(cmd *cobra.Command, o *options) {
	cmd.Flags().StringVar(&o.branch, "branch", "", "Branch to list commits from")
	cmd.Flags().StringVar(&o.author, "author", "", "Commit author (login or email)")
	cmd.Flags().StringVar(&o.since, "since", "", "Only commits after this date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&o.until, "until", "", "Only commits before this date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&o.message, "message", "", "Only commits whose message contains this text")
}

func newCmdPR(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pr",
		Short: "List pull requests.",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := o.client()
			if err != nil {
				return err
			}
			prs, err := c.PullRequests(cmd.Context(), o.state)
			if err != nil {
				return err
			}
			printItems(cmd.OutOrStdout(), "pull requests", prs)
			return nil
		},
	}
	addStateFlag(cmd, o)
	return cmd
}

func newCmdIssues(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "issues",
		Short: "List issues.",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := o.client()
			if err != nil {
				return err
			}
			issues, err := c.Issues(cmd.Context(), o.state)
			if err != nil {
				return err
			}
			printItems(cmd.OutOrStdout(), "issues", issues)
			return nil
		},
	}
	addStateFlag(cmd, o)
	return cmd
}

func printItems(w io.Writer, kind string, items []github.PullRequest) {
	if len(items) == 0 {
		fmt.Fprintf(w, "No %s found.\n", kind)
		return
	}
	tb := cmdutil.NewTable(w, "#", "Title", "Author", "State")
	for _, it := range items {
		tb.AppendRow(table.Row{it.Number, it.Title, it.Author, it.State})
	}
	tb.Render()
}

func newCmdStats(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show repository statistics.",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := o.client()
			if err != nil {
				return err
			}
			s, err := c.Stats(cmd.Context())
			if err != nil {
				return err
			}
			tb := cmdutil.NewTable(cmd.OutOrStdout(), "Repository", "Stars", "Forks", "Watchers", "Open Issues")
			tb.AppendRow(table.Row{s.Name, s.Stars, s.Forks, s.Watchers, s.OpenIssues})
			tb.Render()
			return nil
		},
	}
}

func printCommits(w io.Writer, commits []github.Commit) {
	if len(commits) == 0 {
		fmt.Fprintln(w, "No commits found.")
		return
	}
	tb := cmdutil.NewTable(w, "SHA", "Author", "Date", "Message")
	for _, c := range commits {
		date := ""
		if !c.Date.IsZero() {
			date = c.Date.Format("2006-01-02 15:04")
		}
		tb.AppendRow(table.Row{c.ShortSHA(), c.Author, date, firstLine(c.Message)})
	}
	tb.Render()
}

func firstLine(s string) string {
	for i, r := range s {
		if r == '\n' {
			return s[:i]
		}
	}
	return s
}

func newCmdCommits(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "commits",
		Short: "List commits, optionally filtered.",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := o.client()
			if err != nil {
				return err
			}
			commits, err := c.Commits(cmd.Context(), o.filter())
			if err != nil {
				return err
			}
			printCommits(cmd.OutOrStdout(), commits)
			return nil
		},
	}
	addCommitFlags(cmd, o)
	return cmd
}

func newCmdGroupByUser(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "group-commits-by-user",
		Short: "Group commits by author.",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := o.client()
			if err != nil {
				return err
			}
			commits, err := c.Commits(cmd.Context(), o.filter())
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for _, g := range github.GroupCommitsByUser(commits) {
				fmt.Fprintf(w, "User: %s (%d commits)\n", g.Key, len(g.Commits))
				printCommits(w, g.Commits)
			}
			return nil
		},
	}
	addCommitFlags(cmd, o)
	return cmd
}

func newCmdGroupByBranch(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "group-commits-by-branch",
		Short: "List the commits of a branch.",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := o.client()
			if err != nil {
				return err
			}
			commits, err := c.CommitsByBranch(cmd.Context(), o.branch)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Branch: %s (%d commits)\n", o.branch, len(commits))
			printCommits(cmd.OutOrStdout(), commits)
			return nil
		},
	}
	cmd.Flags().StringVar(&o.branch, "branch", "", "Branch name")
	_ = cmd.MarkFlagRequired("branch")
	return cmd
}

func newCmdPushes(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "pushes",
		Short: "List recent push events.",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := o.client()
			if err != nil {
				return err
			}
			events, err := c.PushEvents(cmd.Context())
			if err != nil {
				return err
			}
			if len(events) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No push events found.")
				return nil
			}
			tb := cmdutil.NewTable(cmd.OutOrStdout(), "Pusher", "Branch", "Commits")
			for _, e := range events {
				tb.AppendRow(table.Row{e.Pusher, e.Branch, e.Size})
			}
			tb.Render()
			return nil
		},
	}
}
