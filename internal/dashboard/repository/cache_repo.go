package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/GoSim-25-26J-441/lhci-dashboard/internal/dashboard/domain"
)

const (
	projectKeyPrefix = "lhci:project:"        // lhci:project:{project_id} -> project JSON
	buildsKeyPrefix  = "lhci:builds:"         // lhci:builds:{project_id} -> build list JSON, most recent first
	versionKeyPrefix = "lhci:builds_version:" // lhci:builds_version:{project_id} -> invalidation counter
)

// DashboardCache handles Redis operations for cached dashboard data
type DashboardCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewDashboardCache creates a new DashboardCache
func NewDashboardCache(client *redis.Client, ttl time.Duration) *DashboardCache {
	return &DashboardCache{client: client, ttl: ttl}
}

// GetProject returns the cached project or domain.ErrCacheMiss.
func (c *DashboardCache) GetProject(ctx context.Context, projectID string) (*domain.Project, error) {
	var p domain.Project
	if err := c.get(ctx, projectKey(projectID), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// SetProject caches a project.
func (c *DashboardCache) SetProject(ctx context.Context, p *domain.Project) error {
	return c.set(ctx, projectKey(p.ID), p)
}

// GetBuilds returns the cached build list or domain.ErrCacheMiss.
func (c *DashboardCache) GetBuilds(ctx context.Context, projectID string) ([]domain.Build, error) {
	var builds []domain.Build
	if err := c.get(ctx, buildsKey(projectID), &builds); err != nil {
		return nil, err
	}
	if builds == nil {
		builds = []domain.Build{}
	}
	return builds, nil
}

// BuildsVersion returns the project's invalidation counter. Read it before
// loading the builds that will be passed to SetBuilds.
func (c *DashboardCache) BuildsVersion(ctx context.Context, projectID string) (int64, error) {
	return readVersion(ctx, c.client, versionKey(projectID))
}

// SetBuilds caches a project's build list if no invalidation happened since
// version was read. Otherwise it stores nothing and returns domain.ErrCacheStale.
func (c *DashboardCache) SetBuilds(ctx context.Context, projectID string, version int64, builds []domain.Build) error {
	if builds == nil {
		builds = []domain.Build{}
	}
	data, err := json.Marshal(builds)
	if err != nil {
		return fmt.Errorf("failed to marshal builds: %w", err)
	}

	vkey := versionKey(projectID)
	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := readVersion(ctx, tx, vkey)
		if err != nil {
			return err
		}
		if current != version {
			return domain.ErrCacheStale
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, buildsKey(projectID), data, c.ttl)
			return nil
		})
		return err
	}, vkey)

	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrCacheStale), errors.Is(err, redis.TxFailedErr):
		return domain.ErrCacheStale
	default:
		return fmt.Errorf("failed to set builds: %w", err)
	}
}

// InvalidateBuilds drops a project's cached build list and bumps its version,
// so a list loaded before the call can no longer be stored.
func (c *DashboardCache) InvalidateBuilds(ctx context.Context, projectID string) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, versionKey(projectID))
		pipe.Del(ctx, buildsKey(projectID))
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to invalidate builds: %w", err)
	}
	return nil
}

// Ping checks the Redis connection.
func (c *DashboardCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *DashboardCache) get(ctx context.Context, key string, dst any) error {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.ErrCacheMiss
	}
	if err != nil {
		return fmt.Errorf("failed to get %s: %w", key, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("failed to unmarshal %s: %w", key, err)
	}
	return nil
}

func (c *DashboardCache) set(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}

type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func readVersion(ctx context.Context, r getter, key string) (int64, error) {
	v, err := r.Get(ctx, key).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get %s: %w", key, err)
	}
	return v, nil
}

func projectKey(projectID string) string {
	return projectKeyPrefix + projectID
}

func buildsKey(projectID string) string {
	return buildsKeyPrefix + projectID
}

func versionKey(projectID string) string {
	return versionKeyPrefix + projectID
}
