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

type CommitService interface {
	// Commits streams the history of ref (default branch when empty) since the commit from,
	// newest first within each pass. An empty from means the whole history.
	Commits(ctx context.Context, owner, repo, from, ref string) iter.Seq2[model.Commit, error]
}

type commitService struct {
	gh     GitHub
	syncer *incremental.Syncer[model.Commit]
	locks  *keyLocker
}

func NewCommitService(gh GitHub, states *cache.TTLCache[string, incremental.State[model.Commit]], logger *zap.Logger) CommitService {
	return &commitService{
		gh:     gh,
		syncer: incremental.NewSyncer(states, logger),
		locks:  newKeyLocker(),
	}
}

func commitsKey(owner, repo, ref, from string) string {
	return fmt.Sprintf("%s/%s@%s..%s", owner, repo, ref, from)
}

func (s *commitService) Commits(ctx context.Context, owner, repo, from, ref string) iter.Seq2[model.Commit, error] {
	if owner == "" || repo == "" {
		return failed[model.Commit](ErrInvalidRepository)
	}

	key := commitsKey(owner, repo, ref, from)
	src := incremental.Source[model.Commit]{
		Key: key,
		Fetch: func(ctx context.Context, marker, cursor string) (incremental.Page[model.Commit], error) {
			commits, next, err := s.gh.CommitsPage(ctx, owner, repo, ref, marker, cursor)
			return incremental.Page[model.Commit]{Items: commits, Next: next}, err
		},
		Identity: func(c model.Commit) string { return c.SHA },
		Advance: func(marker string, c model.Commit) string {
			return incremental.LatestTimestamp(marker, c.Date)
		},
	}
	if from != "" {
		src.Bootstrap = func(ctx context.Context) (string, error) {
			return s.gh.CommitDate(ctx, owner, repo, from)
		}
		// "since" is inclusive, so the from commit comes back on the last page. Other commits
		// sharing its date are new. On warm passes the commit at the marker is already stored
		// and dedup drops it.
		src.Boundary = func(_ string, c model.Commit) bool { return c.SHA == from }
	}
	return serialized(ctx, s.locks, key, s.syncer.Sync(ctx, src))
}

// failed is a sequence that yields only err.
func failed[T any](err error) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		var zero T
		yield(zero, err)
	}
}
