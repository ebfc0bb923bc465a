package report

import (
	"context"
	"errors"
	"fmt"

	"github.com/devdash-cli/devdash/internal/ci/circleci"
	"github.com/devdash-cli/devdash/internal/ci/gitlab"
	"github.com/devdash-cli/devdash/internal/ci/jenkins"
	"github.com/devdash-cli/devdash/internal/docker"
	"github.com/devdash-cli/devdash/internal/github"
	"github.com/devdash-cli/devdash/internal/kubernetes"
	"github.com/devdash-cli/devdash/internal/system"
)

const noPipelines = "no pipelines"

// NewGithubAdapter handles pr, issues, stats, commits and pushes. token is
// resolved per task so a missing token only fails GitHub rows.
func NewGithubAdapter(token func() (string, error), opts ...github.Option) Adapter {
	client := func(p Params) (*github.Client, string, error) {
		repo, err := p.Require("repo")
		if err != nil {
			return nil, "", err
		}
		tok, err := token()
		if err != nil {
			return nil, repo, err
		}
		c, err := github.NewClient(repo, tok, opts...)
		return c, repo, err
	}

	return &tableAdapter{integration: IntegrationGithub, tasks: map[string]task{
		"pr": {label: "GitHub PR", run: func(ctx context.Context, p Params) (*Outcome, error) {
			c, repo, err := client(p)
			if err != nil {
				return nil, err
			}
			state := p.Get("state", "open")
			prs, err := c.PullRequests(ctx, state)
			if err != nil {
				return nil, err
			}
			return rowOnly("Repo", repo, "State", state, "PRs", len(prs)), nil
		}},
		"issues": {label: "GitHub Issues", run: func(ctx context.Context, p Params) (*Outcome, error) {
			c, repo, err := client(p)
			if err != nil {
				return nil, err
			}
			state := p.Get("state", "open")
			issues, err := c.Issues(ctx, state)
			if err != nil {
				return nil, err
			}
			return rowOnly("Repo", repo, "State", state, "Issues", len(issues)), nil
		}},
		"stats": {label: "GitHub Stats", run: func(ctx context.Context, p Params) (*Outcome, error) {
			c, repo, err := client(p)
			if err != nil {
				return nil, err
			}
			s, err := c.Stats(ctx)
			if err != nil {
				return nil, err
			}
			return rowOnly("Repo", repo, "Stars", s.Stars, "Forks", s.Forks, "Watchers", s.Watchers, "Open Issues", s.OpenIssues), nil
		}},
		"commits": {label: "GitHub Commits", run: func(ctx context.Context, p Params) (*Outcome, error) {
			c, repo, err := client(p)
			if err != nil {
				return nil, err
			}
			commits, err := c.Commits(ctx, github.CommitFilter{
				Branch:  p.Get("branch", ""),
				Author:  p.Get("author", ""),
				Since:   p.Get("since", ""),
				Until:   p.Get("until", ""),
				Message: p.Get("message", ""),
			})
			if err != nil {
				return nil, err
			}
			return rowOnly("Repo", repo, "Commits", len(commits), "Authors", len(github.GroupCommitsByUser(commits))), nil
		}},
		"pushes": {label: "GitHub Pushes", run: func(ctx context.Context, p Params) (*Outcome, error) {
			c, repo, err := client(p)
			if err != nil {
				return nil, err
			}
			events, err := c.PushEvents(ctx)
			if err != nil {
				return nil, err
			}
			return rowOnly("Repo", repo, "Pushes", len(events)), nil
		}},
	}}
}

// NewCIAdapter handles the Jenkins, GitLab and CircleCI tasks. Credentials
// come from the task parameters, falling back to defaults.
func NewCIAdapter(defaults Params) Adapter {
	param := func(p Params, key string) (string, error) {
		if v := p.Get(key, defaults.Get(key, "")); v != "" {
			return v, nil
		}
		return p.Require(key)
	}
	// token falls back to the per service default (e.g. jenkins-token) and
	// then to the shared one.
	token := func(p Params, svc string) string {
		return p.Get("token", defaults.Get(svc+"-token", defaults.Get("token", "")))
	}
	jenkinsClient := func(p Params) (*jenkins.Client, error) {
		u, err := param(p, "jenkins-url")
		if err != nil {
			return nil, err
		}
		user, _ := param(p, "username")
		return jenkins.NewClient(u, user, token(p, "jenkins"))
	}
	gitlabClient := func(p Params) (*gitlab.Client, error) {
		u, err := param(p, "gitlab-url")
		if err != nil {
			return nil, err
		}
		return gitlab.NewClient(u, token(p, "gitlab"))
	}
	circleClient := func(p Params) (*circleci.Client, error) {
		var opts []circleci.Option
		if u := p.Get("circleci-url", defaults.Get("circleci-url", "")); u != "" {
			opts = append(opts, circleci.WithURL(u))
		}
		return circleci.NewClient(token(p, "circleci"), opts...)
	}
	status := func(s string, err error) (string, error) {
		if errors.Is(err, gitlab.ErrNoPipelines) || errors.Is(err, circleci.ErrNoPipelines) {
			return noPipelines, nil
		}
		return s, err
	}

	return &tableAdapter{integration: IntegrationCI, tasks: map[string]task{
		"jenkins_jobs": {label: "Jenkins Jobs", run: func(ctx context.Context, p Params) (*Outcome, error) {
			c, err := jenkinsClient(p)
			if err != nil {
				return nil, err
			}
			jobs, err := c.Jobs(ctx)
			if err != nil {
				return nil, err
			}
			return rowOnly("Jobs", len(jobs)), nil
		}},
		"jenkins_job_status": {label: "Jenkins Job Status", run: func(ctx context.Context, p Params) (*Outcome, error) {
			job, err := p.Require("job-name")
			if err != nil {
				return nil, err
			}
			c, err := jenkinsClient(p)
			if err != nil {
				return nil, err
			}
			s, err := c.JobStatus(ctx, job)
			if err != nil {
				return nil, err
			}
			return rowOnly("Job", job, "Status", s), nil
		}},
		"gitlab_projects": {label: "GitLab Projects", run: func(ctx context.Context, p Params) (*Outcome, error) {
			c, err := gitlabClient(p)
			if err != nil {
				return nil, err
			}
			projects, err := c.Projects(ctx)
			if err != nil {
				return nil, err
			}
			return rowOnly("Projects", len(projects)), nil
		}},
		"gitlab_pipeline_status": {label: "GitLab Pipeline Status", run: func(ctx context.Context, p Params) (*Outcome, error) {
			project, err := p.Require("project-id")
			if err != nil {
				return nil, err
			}
			c, err := gitlabClient(p)
			if err != nil {
				return nil, err
			}
			s, err := status(c.PipelineStatus(ctx, project))
			if err != nil {
				return nil, err
			}
			return rowOnly("Project", project, "Status", s), nil
		}},
		"circleci_projects": {label: "CircleCI Projects", run: func(ctx context.Context, p Params) (*Outcome, error) {
			c, err := circleClient(p)
			if err != nil {
				return nil, err
			}
			projects, err := c.Projects(ctx)
			if err != nil {
				return nil, err
			}
			return rowOnly("Projects", len(projects)), nil
		}},
		"circleci_pipeline_status": {label: "CircleCI Pipeline Status", run: func(ctx context.Context, p Params) (*Outcome, error) {
			slug, err := p.Require("project-slug")
			if err != nil {
				return nil, err
			}
			c, err := circleClient(p)
			if err != nil {
				return nil, err
			}
			s, err := status(c.PipelineStatus(ctx, slug))
			if err != nil {
				return nil, err
			}
			return rowOnly("Project", slug, "Status", s), nil
		}},
	}}
}

// NewDockerAdapter handles container_stats and list_containers. The engine
// client is created on first use.
func NewDockerAdapter(newClient func() (*docker.Client, error)) Adapter {
	client := lazy(newClient)
	return &tableAdapter{integration: IntegrationDocker, tasks: map[string]task{
		"container_stats": {label: "Docker Stats", run: func(ctx context.Context, p Params) (*Outcome, error) {
			id, err := p.Require("container-id")
			if err != nil {
				return nil, err
			}
			c, err := client()
			if err != nil {
				return nil, err
			}
			s, err := c.ContainerStats(ctx, id)
			if err != nil {
				return nil, err
			}
			total := s.CPUTotal()
			return &Outcome{
				Row:     NewRow("Container", id, "CPU Usage", total),
				Samples: []Sample{{Metric: MetricDocker, Value: float64(total)}},
			}, nil
		}},
		"list_containers": {label: "Docker Containers", run: func(ctx context.Context, p Params) (*Outcome, error) {
			c, err := client()
			if err != nil {
				return nil, err
			}
			list, err := c.ListContainers(ctx, p.Bool("all"))
			if err != nil {
				return nil, err
			}
			return rowOnly("Containers", len(list)), nil
		}},
	}}
}

// NewSystemAdapter handles cpu_usage, memory_usage, disk_usage and
// network_stats.
func NewSystemAdapter(c *system.Collector) Adapter {
	return &tableAdapter{integration: IntegrationSystem, tasks: map[string]task{
		"cpu_usage": {label: "CPU Usage", run: func(ctx context.Context, p Params) (*Outcome, error) {
			v, err := c.CPUUsage(ctx)
			if err != nil {
				return nil, err
			}
			return &Outcome{
				Row:     NewRow("Usage (%)", percent(v)),
				Samples: []Sample{{Metric: MetricCPU, Value: v}},
			}, nil
		}},
		"memory_usage": {label: "Memory Usage", run: func(ctx context.Context, p Params) (*Outcome, error) {
			m, err := c.MemoryUsage(ctx)
			if err != nil {
				return nil, err
			}
			return &Outcome{
				Row:     NewRow("Usage (%)", percent(m.Percent)),
				Samples: []Sample{{Metric: MetricMemory, Value: m.Percent}},
			}, nil
		}},
		"disk_usage": {label: "Disk Usage", run: func(ctx context.Context, p Params) (*Outcome, error) {
			d, err := c.DiskUsage(ctx)
			if err != nil {
				return nil, err
			}
			return rowOnly("Usage (%)", percent(d.Percent)), nil
		}},
		"network_stats": {label: "Network Stats", run: func(ctx context.Context, p Params) (*Outcome, error) {
			n, err := c.NetworkStats(ctx)
			if err != nil {
				return nil, err
			}
			return rowOnly(
				"Sent (MB)", fmt.Sprintf("%.2f", float64(n.BytesSent)/(1<<20)),
				"Received (MB)", fmt.Sprintf("%.2f", float64(n.BytesRecv)/(1<<20)),
			), nil
		}},
	}}
}

// NewKubernetesAdapter handles list_pods and list_services. The cluster
// client is created on first use.
func NewKubernetesAdapter(newManager func() (*kubernetes.Manager, error)) Adapter {
	manager := lazy(newManager)
	return &tableAdapter{integration: IntegrationKubernetes, tasks: map[string]task{
		"list_pods": {label: "Kubernetes Pods", run: func(ctx context.Context, p Params) (*Outcome, error) {
			ns := p.Get("namespace", kubernetes.DefaultNamespace)
			m, err := manager()
			if err != nil {
				return nil, err
			}
			pods, err := m.ListPods(ctx, ns)
			if err != nil {
				return nil, err
			}
			return rowOnly("Namespace", ns, "Pods", len(pods)), nil
		}},
		"list_services": {label: "Kubernetes Services", run: func(ctx context.Context, p Params) (*Outcome, error) {
			ns := p.Get("namespace", kubernetes.DefaultNamespace)
			m, err := manager()
			if err != nil {
				return nil, err
			}
			svcs, err := m.ListServices(ctx, ns)
			if err != nil {
				return nil, err
			}
			return rowOnly("Namespace", ns, "Services", len(svcs)), nil
		}},
	}}
}
