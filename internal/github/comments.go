package github

import (
	"context"
	"strconv"

	"github.com/sidvishnoi/respec-github-apis/internal/model"
)

type rawAccount struct {
	Login     string `json:"login"`
	AvatarURL string `json:"avatar_url"`
	HTMLURL   string `json:"html_url"`
}

type rawComment struct {
	ID        int64       `json:"id"`
	User      *rawAccount `json:"user"`
	UpdatedAt string      `json:"updated_at"`
}

// CommentsPage returns one page of the comments on issue or pull request number, as their
// authors. Comments updated before since are skipped upstream; comments by deleted accounts
// are dropped.
func (c *Client) CommentsPage(ctx context.Context, owner, repo string, number int, since, cursor string) ([]model.Commenter, string, error) {
	target := cursor
	if target == "" {
		q := c.pageQuery()
		if since != "" {
			q.Set("since", since)
		}
		target = c.endpoint(q, "repos", owner, repo, "issues", strconv.Itoa(number), "comments")
	}

	var raw []rawComment
	next, err := c.getJSON(ctx, target, &raw)
	if err != nil {
		return nil, "", err
	}
	commenters := make([]model.Commenter, 0, len(raw))
	for _, r := range raw {
		if r.User == nil {
			continue
		}
		commenters = append(commenters, model.Commenter{
			Login:       r.User.Login,
			AvatarURL:   r.User.AvatarURL,
			URL:         r.User.HTMLURL,
			CommentedAt: r.UpdatedAt,
		})
	}
	return commenters, next, nil
}
