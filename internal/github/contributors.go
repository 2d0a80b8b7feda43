package github

import (
	"context"

	"github.com/sidvishnoi/respec-github-apis/internal/model"
)

type rawContributor struct {
	rawAccount
	Contributions int `json:"contributions"`
}

// Contributors returns every contributor of owner/repo, most active first. An empty
// repository has none.
func (c *Client) Contributors(ctx context.Context, owner, repo string) ([]model.Contributor, error) {
	raw, err := getAll[rawContributor](ctx, c, c.endpoint(c.pageQuery(), "repos", owner, repo, "contributors"))
	if err != nil {
		return nil, err
	}
	contributors := make([]model.Contributor, 0, len(raw))
	for _, r := range raw {
		contributors = append(contributors, model.Contributor{
			Login:         r.Login,
			AvatarURL:     r.AvatarURL,
			URL:           r.HTMLURL,
			Contributions: r.Contributions,
		})
	}
	return contributors, nil
}
