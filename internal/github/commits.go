package github

import (
	"context"
	"errors"
	"strings"
	"time"

	gh "github.com/google/go-github/v68/github"

	"github.com/devdash-cli/devdash/internal/apierr"
)

// Commit is a single commit of the repository history.
type Commit struct {
	SHA     string
	Message string
	Author  string
	Date    time.Time
}

// ShortSHA returns the 7 character abbreviation.
func (c Commit) ShortSHA() string {
	if len(c.SHA) > 7 {
		return c.SHA[:7]
	}
	return c.SHA
}

// CommitFilter narrows the commit listing. Branch, Author, Since and Until are
// sent to the API; Message is matched locally, case-insensitively.
type CommitFilter struct {
	Branch  string
	Author  string
	Since   string
	Until   string
	Message string
}

// CommitGroup is the set of commits sharing a key (author name).
type CommitGroup struct {
	Key     string
	Commits []Commit
}

// Commits lists one page of commits matching the filter.
func (c *Client) Commits(ctx context.Context, f CommitFilter) ([]Commit, error) {
	opts := &gh.CommitsListOptions{
		SHA:         f.Branch,
		Author:      f.Author,
		ListOptions: perPage(),
	}
	var err error
	if opts.Since, err = parseDate("since", f.Since); err != nil {
		return nil, err
	}
	if opts.Until, err = parseDate("until", f.Until); err != nil {
		return nil, err
	}

	raw, resp, err := c.api.Repositories.ListCommits(withContext(ctx), c.owner, c.name, opts)
	if err := translate("fetch commits", resp, err); err != nil {
		return nil, err
	}

	commits := make([]Commit, 0, len(raw))
	for _, rc := range raw {
		if rc.Commit == nil {
			return nil, &apierr.ParseError{Service: service, Op: "fetch commits", Err: errors.New("commit entry without commit object")}
		}
		commits = append(commits, Commit{
			SHA:     rc.GetSHA(),
			Message: rc.GetCommit().GetMessage(),
			Author:  rc.GetCommit().GetAuthor().GetName(),
			Date:    rc.GetCommit().GetAuthor().GetDate().Time,
		})
	}
	return FilterByMessage(commits, f.Message), nil
}

// CommitsByBranch lists the commits of a single branch.
func (c *Client) CommitsByBranch(ctx context.Context, branch string) ([]Commit, error) {
	if branch == "" {
		return nil, &apierr.ConfigError{Key: "branch", Hint: "a branch is required"}
	}
	return c.Commits(ctx, CommitFilter{Branch: branch})
}

// FilterByMessage keeps the commits whose message contains msg, ignoring case.
// An empty msg keeps everything.
func FilterByMessage(commits []Commit, msg string) []Commit {
	if msg == "" {
		return commits
	}
	needle := strings.ToLower(msg)
	out := make([]Commit, 0, len(commits))
	for _, c := range commits {
		if strings.Contains(strings.ToLower(c.Message), needle) {
			out = append(out, c)
		}
	}
	return out
}

// GroupCommitsByUser buckets commits by author name. Groups keep the order in
// which each author first appears.
func GroupCommitsByUser(commits []Commit) []CommitGroup {
	index := map[string]int{}
	groups := []CommitGroup{}
	for _, c := range commits {
		i, ok := index[c.Author]
		if !ok {
			i = len(groups)
			index[c.Author] = i
			groups = append(groups, CommitGroup{Key: c.Author})
		}
		groups[i].Commits = append(groups[i].Commits, c)
	}
	return groups
}

func parseDate(key, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, &apierr.ConfigError{Key: key, Hint: "expected YYYY-MM-DD or RFC3339, got " + value}
}
