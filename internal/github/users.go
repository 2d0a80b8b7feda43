package github

import (
	"context"

	"github.com/sidvishnoi/respec-github-apis/internal/model"
)

type rawUser struct {
	rawAccount
	Name     string `json:"name"`
	Company  string `json:"company"`
	Blog     string `json:"blog"`
	Location string `json:"location"`
	Bio      string `json:"bio"`
}

// User returns the public profile of login.
func (c *Client) User(ctx context.Context, login string) (model.User, error) {
	var raw rawUser
	if _, err := c.getJSON(ctx, c.endpoint(nil, "users", login), &raw); err != nil {
		return model.User{}, err
	}
	return model.User{
		Login:     raw.Login,
		Name:      raw.Name,
		AvatarURL: raw.AvatarURL,
		URL:       raw.HTMLURL,
		Company:   raw.Company,
		Blog:      raw.Blog,
		Location:  raw.Location,
		Bio:       raw.Bio,
	}, nil
}
