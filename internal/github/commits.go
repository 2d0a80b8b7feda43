package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/sidvishnoi/respec-github-apis/internal/model"
)

type rawCommit struct {
	SHA     string `json:"sha"`
	HTMLURL string `json:"html_url"`
	Commit  struct {
		Message string `json:"message"`
		Author  struct {
			Name  string `json:"name"`
			Email string `json:"email"`
			Date  string `json:"date"`
		} `json:"author"`
		Committer struct {
			Date string `json:"date"`
		} `json:"committer"`
	} `json:"commit"`
	Author *struct {
		Login string `json:"login"`
	} `json:"author"`
}

func (r rawCommit) toModel() model.Commit {
	c := model.Commit{
		SHA:         r.SHA,
		Message:     r.Commit.Message,
		AuthorName:  r.Commit.Author.Name,
		AuthorEmail: r.Commit.Author.Email,
		Date:        r.Commit.Committer.Date,
		URL:         r.HTMLURL,
	}
	if r.Author != nil {
		c.AuthorLogin = r.Author.Login
	}
	return c
}

// CommitDate returns the committer date of ref. An unknown ref is ErrNotFound.
func (c *Client) CommitDate(ctx context.Context, owner, repo, ref string) (string, error) {
	var raw rawCommit
	_, err := c.getJSON(ctx, c.endpoint(nil, "repos", owner, repo, "commits", ref), &raw)
	if err != nil {
		// GitHub answers 422 "No commit found for SHA" for refs that do not resolve.
		var statusErr *StatusError
		if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusUnprocessableEntity {
			return "", fmt.Errorf("%w: commit %s in %s/%s", ErrNotFound, ref, owner, repo)
		}
		return "", err
	}
	return raw.Commit.Committer.Date, nil
}

// CommitsPage returns one page of ref's history, newest first, limited to commits at or after
// since. A non-empty cursor is a next-page URL returned by a previous call and takes precedence.
func (c *Client) CommitsPage(ctx context.Context, owner, repo, ref, since, cursor string) ([]model.Commit, string, error) {
	target := cursor
	if target == "" {
		q := c.pageQuery()
		if ref != "" {
			q.Set("sha", ref)
		}
		if since != "" {
			q.Set("since", since)
		}
		target = c.endpoint(q, "repos", owner, repo, "commits")
	}

	var raw []rawCommit
	next, err := c.getJSON(ctx, target, &raw)
	if err != nil {
		return nil, "", err
	}
	commits := make([]model.Commit, len(raw))
	for i, r := range raw {
		commits[i] = r.toModel()
	}
	return commits, next, nil
}
