package domain

import "errors"

var (
	ErrProjectNotFound = errors.New("project not found")
	ErrProjectExists   = errors.New("project already exists")
	ErrInvalidProject  = errors.New("invalid project")
	ErrInvalidBuild    = errors.New("invalid build")
	ErrCacheMiss       = errors.New("cache miss")
	ErrCacheStale      = errors.New("cache entry is stale")
)
