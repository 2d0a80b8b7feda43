package service

import (
	"context"

	"github.com/sidvishnoi/respec-github-apis/internal/github"
	"github.com/sidvishnoi/respec-github-apis/internal/model"
)

// GitHub is the part of the GitHub API the services read from.
type GitHub interface {
	CommitDate(ctx context.Context, owner, repo, ref string) (string, error)
	CommitsPage(ctx context.Context, owner, repo, ref, since, cursor string) ([]model.Commit, string, error)
	CommentsPage(ctx context.Context, owner, repo string, number int, since, cursor string) ([]model.Commenter, string, error)
	Contributors(ctx context.Context, owner, repo string) ([]model.Contributor, error)
	Issues(ctx context.Context, owner, repo, state, labels string) ([]model.Issue, error)
	User(ctx context.Context, login string) (model.User, error)
}

var _ GitHub = (*github.Client)(nil)
