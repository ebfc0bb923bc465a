package github

import (
	"context"

	gh "github.com/google/go-github/v68/github"
)

// PullRequest is the summary of a pull request or an issue.
type PullRequest struct {
	Number int
	Title  string
	Author string
	State  string
}

// Issue shares the pull request shape; GitHub lists pull requests as issues too.
type Issue = PullRequest

// PullRequests lists one page of pull requests in the given state
// (open, closed, all).
func (c *Client) PullRequests(ctx context.Context, state string) ([]PullRequest, error) {
	opts := &gh.PullRequestListOptions{State: stateOrDefault(state), ListOptions: perPage()}
	prs, resp, err := c.api.PullRequests.List(withContext(ctx), c.owner, c.name, opts)
	if err := translate("fetch pull requests", resp, err); err != nil {
		return nil, err
	}
	out := make([]PullRequest, 0, len(prs))
	for _, pr := range prs {
		out = append(out, PullRequest{
			Number: pr.GetNumber(),
			Title:  pr.GetTitle(),
			Author: pr.GetUser().GetLogin(),
			State:  pr.GetState(),
		})
	}
	return out, nil
}

// Issues lists one page of issues in the given state.
func (c *Client) Issues(ctx context.Context, state string) ([]Issue, error) {
	opts := &gh.IssueListByRepoOptions{State: stateOrDefault(state), ListOptions: perPage()}
	issues, resp, err := c.api.Issues.ListByRepo(withContext(ctx), c.owner, c.name, opts)
	if err := translate("fetch issues", resp, err); err != nil {
		return nil, err
	}
	out := make([]Issue, 0, len(issues))
	for _, is := range issues {
		out = append(out, Issue{
			Number: is.GetNumber(),
			Title:  is.GetTitle(),
			Author: is.GetUser().GetLogin(),
			State:  is.GetState(),
		})
	}
	return out, nil
}

func stateOrDefault(state string) string {
	if state == "" {
		return "open"
	}
	return state
}
