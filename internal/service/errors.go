package service

import "errors"

var (
	ErrInvalidRepository = errors.New("owner and repository are required")
	ErrInvalidNumber     = errors.New("issue number must be positive")
	ErrNoLogins          = errors.New("at least one login is required")
	ErrTooManyLogins     = errors.New("too many logins in one request")
	ErrCacheNotFound     = errors.New("cache not found")
	ErrInvalidTTL        = errors.New("ttl must be positive")
	ErrCacheNotTunable   = errors.New("durable cache ttl cannot be changed")
)
