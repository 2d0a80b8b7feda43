package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sidvishnoi/respec-github-apis/internal/cache"
	"github.com/sidvishnoi/respec-github-apis/internal/github"
	"github.com/sidvishnoi/respec-github-apis/internal/model"
)

const maxLoginsPerLookup = 100

type UserService interface {
	// Users returns the profiles of logins in request order. Unknown logins are left out.
	Users(ctx context.Context, logins []string) ([]model.User, error)
}

type userService struct {
	gh          GitHub
	users       *cache.TTLCache[string, model.User]
	concurrency int
	logger      *zap.Logger
}

// NewUserService looks profiles up through a durable cache, fetching at most concurrency
// profiles at a time.
func NewUserService(gh GitHub, users *cache.TTLCache[string, model.User], concurrency int, logger *zap.Logger) UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &userService{gh: gh, users: users, concurrency: max(concurrency, 1), logger: logger}
}

func (s *userService) Users(ctx context.Context, logins []string) ([]model.User, error) {
	logins = uniqueLogins(logins)
	if len(logins) == 0 {
		return nil, ErrNoLogins
	}
	if len(logins) > maxLoginsPerLookup {
		return nil, fmt.Errorf("%w: %d > %d", ErrTooManyLogins, len(logins), maxLoginsPerLookup)
	}

	found := make([]*model.User, len(logins))
	var missing []int
	for i, login := range logins {
		if u, ok := s.users.Get(login); ok {
			found[i] = &u
			continue
		}
		missing = append(missing, i)
	}

	if len(missing) > 0 {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(s.concurrency)
		for _, i := range missing {
			g.Go(func() error {
				u, err := s.gh.User(gctx, logins[i])
				if errors.Is(err, github.ErrNotFound) {
					s.logger.Debug("github user not found", zap.String("login", logins[i]))
					return nil
				}
				if err != nil {
					return fmt.Errorf("fetch user %s: %w", logins[i], err)
				}
				found[i] = &u
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}

		stored := 0
		for _, i := range missing {
			if found[i] != nil {
				s.users.Set(logins[i], *found[i])
				stored++
			}
		}
		if stored > 0 {
			if err := s.users.Dump(context.WithoutCancel(ctx)); err != nil {
				s.logger.Warn("failed to persist user cache", zap.Error(err))
			}
		}
	}

	users := make([]model.User, 0, len(logins))
	for _, u := range found {
		if u != nil {
			users = append(users, *u)
		}
	}
	return users, nil
}

// uniqueLogins trims, lowercases and dedups logins, keeping first-seen order.
// GitHub logins are case-insensitive.
func uniqueLogins(logins []string) []string {
	seen := make(map[string]struct{}, len(logins))
	out := make([]string, 0, len(logins))
	for _, l := range logins {
		l = strings.ToLower(strings.TrimSpace(l))
		if l == "" {
			continue
		}
		if _, dup := seen[l]; dup {
			continue
		}
		seen[l] = struct{}{}
		out = append(out, l)
	}
	return out
}
