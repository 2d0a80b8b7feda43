package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/sidvishnoi/respec-github-apis/internal/cache"
	"github.com/sidvishnoi/respec-github-apis/internal/model"
)

type ContributorService interface {
	Contributors(ctx context.Context, owner, repo string) ([]model.Contributor, error)
}

type contributorService struct {
	gh    GitHub
	fetch *fetchThrough[[]model.Contributor]
}

func NewContributorService(gh GitHub, c *cache.StatsCache[string, []model.Contributor], logger *zap.Logger) ContributorService {
	return &contributorService{gh: gh, fetch: newFetchThrough(c, logger)}
}

func (s *contributorService) Contributors(ctx context.Context, owner, repo string) ([]model.Contributor, error) {
	if owner == "" || repo == "" {
		return nil, ErrInvalidRepository
	}
	return s.fetch.get(ctx, owner+"/"+repo, func(ctx context.Context) ([]model.Contributor, error) {
		return s.gh.Contributors(ctx, owner, repo)
	})
}
