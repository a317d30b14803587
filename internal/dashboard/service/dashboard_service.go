package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/sourcegraph/conc/pool"

	"github.com/GoSim-25-26J-441/lhci-dashboard/internal/dashboard/domain"
	"github.com/GoSim-25-26J-441/lhci-dashboard/internal/logging"
)

// DashboardBuildLimit bounds the build list fetched for a dashboard.
const DashboardBuildLimit = 100

const warmConcurrency = 4

// ProjectStore persists projects.
type ProjectStore interface {
	Create(ctx context.Context, req domain.CreateProjectRequest) (*domain.Project, error)
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Project, error)
	List(ctx context.Context) ([]domain.Project, error)
}

// BuildStore persists builds.
type BuildStore interface {
	Create(ctx context.Context, req domain.CreateBuildRequest) (*domain.Build, error)
	ListByProject(ctx context.Context, projectID string, limit int) ([]domain.Build, error)
}

// Cache is the read-through cache in front of the stores.
type Cache interface {
	GetProject(ctx context.Context, projectID string) (*domain.Project, error)
	SetProject(ctx context.Context, p *domain.Project) error
	GetBuilds(ctx context.Context, projectID string) ([]domain.Build, error)
	BuildsVersion(ctx context.Context, projectID string) (int64, error)
	SetBuilds(ctx context.Context, projectID string, version int64, builds []domain.Build) error
	InvalidateBuilds(ctx context.Context, projectID string) error
}

// DashboardService handles project and build business logic
type DashboardService struct {
	projects ProjectStore
	builds   BuildStore
	cache    Cache
}

// NewDashboardService creates a new dashboard service. cache may be nil.
func NewDashboardService(projects ProjectStore, builds BuildStore, cache Cache) *DashboardService {
	return &DashboardService{
		projects: projects,
		builds:   builds,
		cache:    cache,
	}
}

// FetchProject loads a project by ID or slug, consulting the cache first
// for IDs. Slugs always go to the store and the result is cached by ID.
func (s *DashboardService) FetchProject(ctx context.Context, projectID string) (*domain.Project, error) {
	log := logging.NewLogger(ctx)

	if domain.IsSlug(projectID) {
		p, err := s.projects.GetBySlug(ctx, projectID)
		if err != nil {
			return nil, err
		}
		if s.cache != nil {
			if err := s.cache.SetProject(ctx, p); err != nil {
				log.LogWarnf("FetchProject", "cache write failed for %s: %v", p.ID, err)
			}
		}
		return p, nil
	}

	if s.cache != nil {
		p, err := s.cache.GetProject(ctx, projectID)
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, domain.ErrCacheMiss) {
			log.LogWarnf("FetchProject", "cache read failed for %s: %v", projectID, err)
		}
	}

	p, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetProject(ctx, p); err != nil {
			log.LogWarnf("FetchProject", "cache write failed for %s: %v", projectID, err)
		}
	}
	return p, nil
}

// FetchProjectBuilds loads a project's builds, most recent first,
// consulting the cache first. projectID may also be a slug. Unknown
// projects yield an empty list.
//
// A list loaded while CreateBuild invalidates the project is returned but
// not cached.
func (s *DashboardService) FetchProjectBuilds(ctx context.Context, projectID string) ([]domain.Build, error) {
	log := logging.NewLogger(ctx)

	if domain.IsSlug(projectID) {
		p, err := s.projects.GetBySlug(ctx, projectID)
		if errors.Is(err, domain.ErrProjectNotFound) {
			return []domain.Build{}, nil
		}
		if err != nil {
			return nil, err
		}
		projectID = p.ID
	}

	cacheable := false
	var version int64
	if s.cache != nil {
		builds, err := s.cache.GetBuilds(ctx, projectID)
		if err == nil {
			return builds, nil
		}
		if !errors.Is(err, domain.ErrCacheMiss) {
			log.LogWarnf("FetchProjectBuilds", "cache read failed for %s: %v", projectID, err)
		} else if version, err = s.cache.BuildsVersion(ctx, projectID); err == nil {
			cacheable = true
		} else {
			log.LogWarnf("FetchProjectBuilds", "cache version read failed for %s: %v", projectID, err)
		}
	}

	builds, err := s.builds.ListByProject(ctx, projectID, DashboardBuildLimit)
	if err != nil {
		return nil, err
	}

	if cacheable {
		err := s.cache.SetBuilds(ctx, projectID, version, builds)
		switch {
		case errors.Is(err, domain.ErrCacheStale):
			log.LogInfof("FetchProjectBuilds", "builds of %s changed while loading, not cached", projectID)
		case err != nil:
			log.LogWarnf("FetchProjectBuilds", "cache write failed for %s: %v", projectID, err)
		}
	}
	return builds, nil
}

// ListProjects returns all projects, newest first.
func (s *DashboardService) ListProjects(ctx context.Context) ([]domain.Project, error) {
	return s.projects.List(ctx)
}

// GetProject returns a project straight from the store.
func (s *DashboardService) GetProject(ctx context.Context, projectID string) (*domain.Project, error) {
	return s.projects.GetByID(ctx, projectID)
}

// CreateProject registers a new project.
func (s *DashboardService) CreateProject(ctx context.Context, req domain.CreateProjectRequest) (*domain.Project, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	p, err := s.projects.Create(ctx, req)
	if err != nil {
		return nil, err
	}

	logging.NewLogger(ctx).LogInfof("CreateProject", "created project %s (%s)", p.ID, p.Slug)
	return p, nil
}

// ListBuilds returns up to limit builds of an existing project.
func (s *DashboardService) ListBuilds(ctx context.Context, projectID string, limit int) ([]domain.Build, error) {
	if _, err := s.projects.GetByID(ctx, projectID); err != nil {
		return nil, err
	}
	return s.builds.ListByProject(ctx, projectID, limit)
}

// CreateBuild records a build and drops the project's cached build list.
func (s *DashboardService) CreateBuild(ctx context.Context, req domain.CreateBuildRequest) (*domain.Build, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	b, err := s.builds.Create(ctx, req)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.InvalidateBuilds(ctx, b.ProjectID); err != nil {
			logging.NewLogger(ctx).LogWarnf("CreateBuild", "cache invalidation failed for %s: %v", b.ProjectID, err)
		}
	}
	return b, nil
}

// WarmCache reloads every project and its builds into the cache and
// returns how many projects were refreshed.
func (s *DashboardService) WarmCache(ctx context.Context) (int, error) {
	if s.cache == nil {
		return 0, nil
	}

	projects, err := s.projects.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list projects: %w", err)
	}

	p := pool.New().WithMaxGoroutines(warmConcurrency).WithContext(ctx)
	for i := range projects {
		project := projects[i]
		p.Go(func(ctx context.Context) error {
			version, err := s.cache.BuildsVersion(ctx, project.ID)
			if err != nil {
				return fmt.Errorf("project %s: %w", project.ID, err)
			}
			builds, err := s.builds.ListByProject(ctx, project.ID, DashboardBuildLimit)
			if err != nil {
				return fmt.Errorf("project %s: %w", project.ID, err)
			}
			if err := s.cache.SetProject(ctx, &project); err != nil {
				return fmt.Errorf("project %s: %w", project.ID, err)
			}
			// A build recorded meanwhile already invalidated the entry.
			if err := s.cache.SetBuilds(ctx, project.ID, version, builds); err != nil && !errors.Is(err, domain.ErrCacheStale) {
				return fmt.Errorf("project %s: %w", project.ID, err)
			}
			return nil
		})
	}

	if err := p.Wait(); err != nil {
		return len(projects), fmt.Errorf("failed to warm cache: %w", err)
	}
	return len(projects), nil
}
