// Package github is a small read-only client for the GitHub REST API.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/sidvishnoi/respec-github-apis/internal/config"
)

const apiVersion = "2022-11-28"

type Client struct {
	http    *http.Client
	baseURL string
	perPage int
	limiter *rate.Limiter
	logger  *zap.Logger
}

// NewClient builds a client for cfg.BaseURL. With a token set, requests are authenticated
// through an oauth2 static token source. Every request waits on a client-side limiter.
func NewClient(cfg config.GitHubConfig, logger *zap.Logger) (*Client, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	base, err := url.Parse(cfg.BaseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid github base url %q", cfg.BaseURL)
	}

	httpClient := &http.Client{Timeout: cfg.Timeout}
	if cfg.Token != "" {
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, httpClient)
		httpClient = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token}))
		httpClient.Timeout = cfg.Timeout
	}

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	perPage := cfg.PerPage
	if perPage <= 0 || perPage > 100 {
		perPage = 100
	}

	return &Client{
		http:    httpClient,
		baseURL: strings.TrimSuffix(base.String(), "/"),
		perPage: perPage,
		limiter: rate.NewLimiter(limit, max(cfg.Burst, 1)),
		logger:  logger,
	}, nil
}

// endpoint joins escaped path segments onto the base URL.
func (c *Client) endpoint(query url.Values, segments ...string) string {
	var b strings.Builder
	b.WriteString(c.baseURL)
	for _, s := range segments {
		b.WriteByte('/')
		b.WriteString(url.PathEscape(s))
	}
	if len(query) > 0 {
		b.WriteByte('?')
		b.WriteString(query.Encode())
	}
	return b.String()
}

func (c *Client) pageQuery() url.Values {
	return url.Values{"per_page": {strconv.Itoa(c.perPage)}}
}

// getJSON decodes the response at rawURL into out and returns the next-page URL.
func (c *Client) getJSON(ctx context.Context, rawURL string, out any) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("wait for rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", apiVersion)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("request %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("github request",
		zap.String("url", rawURL),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
		zap.String("ratelimit_remaining", resp.Header.Get("X-RateLimit-Remaining")),
	)

	if err := checkResponse(resp, rawURL); err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return "", fmt.Errorf("decode %s: %w", rawURL, err)
		}
	}
	return nextLink(resp.Header.Get("Link")), nil
}

// getAll follows rel="next" links from first and concatenates every page.
func getAll[R any](ctx context.Context, c *Client, first string) ([]R, error) {
	var all []R
	for next := first; next != ""; {
		var page []R
		n, err := c.getJSON(ctx, next, &page)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		next = n
	}
	return all, nil
}
