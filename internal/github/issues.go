package github

import (
	"context"
	"encoding/json"

	"github.com/sidvishnoi/respec-github-apis/internal/model"
)

type rawIssue struct {
	Number    int         `json:"number"`
	Title     string      `json:"title"`
	State     string      `json:"state"`
	HTMLURL   string      `json:"html_url"`
	User      *rawAccount `json:"user"`
	CreatedAt string      `json:"created_at"`
	UpdatedAt string      `json:"updated_at"`
	Labels    []struct {
		Name string `json:"name"`
	} `json:"labels"`
	PullRequest json.RawMessage `json:"pull_request"`
}

// Issues returns every issue of owner/repo matching state ("open", "closed", "all"; empty is
// GitHub's default) and labels (comma separated). Pull requests are filtered out.
func (c *Client) Issues(ctx context.Context, owner, repo, state, labels string) ([]model.Issue, error) {
	q := c.pageQuery()
	if state != "" {
		q.Set("state", state)
	}
	if labels != "" {
		q.Set("labels", labels)
	}

	raw, err := getAll[rawIssue](ctx, c, c.endpoint(q, "repos", owner, repo, "issues"))
	if err != nil {
		return nil, err
	}
	issues := make([]model.Issue, 0, len(raw))
	for _, r := range raw {
		if len(r.PullRequest) > 0 && string(r.PullRequest) != "null" {
			continue
		}
		issue := model.Issue{
			Number:    r.Number,
			Title:     r.Title,
			State:     r.State,
			Labels:    make([]string, len(r.Labels)),
			URL:       r.HTMLURL,
			CreatedAt: r.CreatedAt,
			UpdatedAt: r.UpdatedAt,
		}
		for i, l := range r.Labels {
			issue.Labels[i] = l.Name
		}
		if r.User != nil {
			issue.Author = r.User.Login
		}
		issues = append(issues, issue)
	}
	return issues, nil
}
