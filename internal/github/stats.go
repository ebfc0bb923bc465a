package github

import "context"

// RepoStats are the headline counters of a repository.
type RepoStats struct {
	Name       string
	Stars      int
	Forks      int
	Watchers   int
	OpenIssues int
}

// Stats fetches the repository counters.
func (c *Client) Stats(ctx context.Context) (*RepoStats, error) {
	repo, resp, err := c.api.Repositories.Get(withContext(ctx), c.owner, c.name)
	if err := translate("fetch repository stats", resp, err); err != nil {
		return nil, err
	}
	return &RepoStats{
		Name:       repo.GetName(),
		Stars:      repo.GetStargazersCount(),
		Forks:      repo.GetForksCount(),
		Watchers:   repo.GetWatchersCount(),
		OpenIssues: repo.GetOpenIssuesCount(),
	}, nil
}
