package service

import (
	"context"
	"strconv"
	"sync"

	"github.com/sidvishnoi/respec-github-apis/internal/github"
	"github.com/sidvishnoi/respec-github-apis/internal/model"
)

// fakeGitHub serves an in-memory repository with two items per page.
type fakeGitHub struct {
	mu sync.Mutex

	commits  []model.Commit // oldest first
	comments []model.Commenter

	contributors func(ctx context.Context, owner, repo string) ([]model.Contributor, error)
	issues       func(ctx context.Context, owner, repo, state, labels string) ([]model.Issue, error)
	users        map[string]model.User
	userErr      error

	calls map[string]int
}

func newFakeGitHub() *fakeGitHub {
	return &fakeGitHub{users: map[string]model.User{}, calls: map[string]int{}}
}

func (f *fakeGitHub) count(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *fakeGitHub) record(op string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[op]++
}

func page[T any](items []T, cursor string) ([]T, string) {
	const size = 2
	offset := 0
	if cursor != "" {
		offset, _ = strconv.Atoi(cursor)
	}
	end := min(offset+size, len(items))
	if end < len(items) {
		return items[offset:end], strconv.Itoa(end)
	}
	return items[offset:end], ""
}

func (f *fakeGitHub) CommitDate(_ context.Context, owner, repo, ref string) (string, error) {
	f.record("CommitDate")
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.commits {
		if c.SHA == ref {
			return c.Date, nil
		}
	}
	return "", github.ErrNotFound
}

func (f *fakeGitHub) CommitsPage(_ context.Context, owner, repo, ref, since, cursor string) ([]model.Commit, string, error) {
	f.record("CommitsPage")
	f.mu.Lock()
	defer f.mu.Unlock()
	var matched []model.Commit
	for i := len(f.commits) - 1; i >= 0; i-- {
		if since == "" || f.commits[i].Date >= since {
			matched = append(matched, f.commits[i])
		}
	}
	items, next := page(matched, cursor)
	return items, next, nil
}

func (f *fakeGitHub) CommentsPage(_ context.Context, owner, repo string, number int, since, cursor string) ([]model.Commenter, string, error) {
	f.record("CommentsPage")
	f.mu.Lock()
	defer f.mu.Unlock()
	var matched []model.Commenter
	for _, c := range f.comments {
		if since == "" || c.CommentedAt >= since {
			matched = append(matched, c)
		}
	}
	items, next := page(matched, cursor)
	return items, next, nil
}

func (f *fakeGitHub) Contributors(ctx context.Context, owner, repo string) ([]model.Contributor, error) {
	f.record("Contributors")
	return f.contributors(ctx, owner, repo)
}

func (f *fakeGitHub) Issues(ctx context.Context, owner, repo, state, labels string) ([]model.Issue, error) {
	f.record("Issues")
	return f.issues(ctx, owner, repo, state, labels)
}

func (f *fakeGitHub) User(_ context.Context, login string) (model.User, error) {
	f.record("User")
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.userErr != nil {
		return model.User{}, f.userErr
	}
	u, ok := f.users[login]
	if !ok {
		return model.User{}, github.ErrNotFound
	}
	return u, nil
}
