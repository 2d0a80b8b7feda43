package service

import (
	"context"
	"net/url"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/sidvishnoi/respec-github-apis/internal/cache"
	"github.com/sidvishnoi/respec-github-apis/internal/model"
)

type IssueService interface {
	// Issues lists the issues of owner/repo filtered by state and comma-separated labels.
	Issues(ctx context.Context, owner, repo, state, labels string) ([]model.Issue, error)
}

type issueService struct {
	gh    GitHub
	fetch *fetchThrough[[]model.Issue]
}

func NewIssueService(gh GitHub, c *cache.StatsCache[string, []model.Issue], logger *zap.Logger) IssueService {
	return &issueService{gh: gh, fetch: newFetchThrough(c, logger)}
}

func (s *issueService) Issues(ctx context.Context, owner, repo, state, labels string) ([]model.Issue, error) {
	if owner == "" || repo == "" {
		return nil, ErrInvalidRepository
	}
	labels = normalizeLabels(labels)
	key := owner + "/" + repo + "?" + url.Values{"state": {state}, "labels": {labels}}.Encode()
	return s.fetch.get(ctx, key, func(ctx context.Context) ([]model.Issue, error) {
		return s.gh.Issues(ctx, owner, repo, state, labels)
	})
}

// normalizeLabels sorts and trims a label filter so equivalent filters share a cache entry.
func normalizeLabels(labels string) string {
	if labels == "" {
		return ""
	}
	var out []string
	for _, l := range strings.Split(labels, ",") {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	slices.Sort(out)
	return strings.Join(slices.Compact(out), ",")
}
