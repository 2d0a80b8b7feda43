package service

import (
	"context"
	"fmt"
	"iter"

	"go.uber.org/zap"

	"github.com/sidvishnoi/respec-github-apis/internal/cache"
	"github.com/sidvishnoi/respec-github-apis/internal/incremental"
	"github.com/sidvishnoi/respec-github-apis/internal/model"
)

type CommenterService interface {
	// Commenters streams the distinct authors of the comments on an issue or pull request.
	Commenters(ctx context.Context, owner, repo string, number int) iter.Seq2[model.Commenter, error]
}

type commenterService struct {
	gh     GitHub
	syncer *incremental.Syncer[model.Commenter]
	locks  *keyLocker
}

func NewCommenterService(gh GitHub, states *cache.TTLCache[string, incremental.State[model.Commenter]], logger *zap.Logger) CommenterService {
	return &commenterService{
		gh:     gh,
		syncer: incremental.NewSyncer(states, logger),
		locks:  newKeyLocker(),
	}
}

func (s *commenterService) Commenters(ctx context.Context, owner, repo string, number int) iter.Seq2[model.Commenter, error] {
	if owner == "" || repo == "" {
		return failed[model.Commenter](ErrInvalidRepository)
	}
	if number <= 0 {
		return failed[model.Commenter](ErrInvalidNumber)
	}

	key := fmt.Sprintf("%s/%s#%d", owner, repo, number)
	src := incremental.Source[model.Commenter]{
		Key: key,
		Fetch: func(ctx context.Context, marker, cursor string) (incremental.Page[model.Commenter], error) {
			commenters, next, err := s.gh.CommentsPage(ctx, owner, repo, number, marker, cursor)
			return incremental.Page[model.Commenter]{Items: commenters, Next: next}, err
		},
		Identity: func(c model.Commenter) string { return c.Login },
		Advance: func(marker string, c model.Commenter) string {
			return incremental.LatestTimestamp(marker, c.CommentedAt)
		},
	}
	return serialized(ctx, s.locks, key, s.syncer.Sync(ctx, src))
}
