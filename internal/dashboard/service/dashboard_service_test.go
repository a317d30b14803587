package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoSim-25-26J-441/lhci-dashboard/internal/dashboard/domain"
	"github.com/GoSim-25-26J-441/lhci-dashboard/internal/dashboard/repository"
)

type fakeProjects struct {
	mu       sync.Mutex
	projects map[string]domain.Project
	gets     int
	slugGets int
	err      error
}

func newFakeProjects(ps ...domain.Project) *fakeProjects {
	f := &fakeProjects{projects: map[string]domain.Project{}}
	for _, p := range ps {
		f.projects[p.ID] = p
	}
	return f
}

func (f *fakeProjects) Create(_ context.Context, req domain.CreateProjectRequest) (*domain.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := domain.Project{ID: "new", Name: req.Name, Slug: "slug", ExternalURL: req.ExternalURL}
	f.projects[p.ID] = p
	return &p, nil
}

func (f *fakeProjects) GetByID(_ context.Context, id string) (*domain.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets++
	if f.err != nil {
		return nil, f.err
	}
	p, ok := f.projects[id]
	if !ok {
		return nil, domain.ErrProjectNotFound
	}
	return &p, nil
}

func (f *fakeProjects) GetBySlug(_ context.Context, slug string) (*domain.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.slugGets++
	if f.err != nil {
		return nil, f.err
	}
	for _, p := range f.projects {
		if p.Slug == slug {
			return &p, nil
		}
	}
	return nil, domain.ErrProjectNotFound
}

func (f *fakeProjects) List(context.Context) ([]domain.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := make([]domain.Project, 0, len(f.projects))
	for _, p := range f.projects {
		out = append(out, p)
	}
	return out, nil
}

type fakeBuilds struct {
	mu     sync.Mutex
	builds map[string][]domain.Build
	lists  int
	limits []int

	// afterList runs once, after a list was read and before it is returned.
	afterList func()
}

func (f *fakeBuilds) Create(_ context.Context, req domain.CreateBuildRequest) (*domain.Build, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b := domain.Build{ID: "b-new", ProjectID: req.ProjectID, Branch: req.Branch, Hash: req.Hash}
	f.builds[req.ProjectID] = append([]domain.Build{b}, f.builds[req.ProjectID]...)
	return &b, nil
}

func (f *fakeBuilds) ListByProject(_ context.Context, projectID string, limit int) ([]domain.Build, error) {
	f.mu.Lock()
	f.lists++
	f.limits = append(f.limits, limit)
	out := append([]domain.Build{}, f.builds[projectID]...)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	hook := f.afterList
	f.afterList = nil
	f.mu.Unlock()

	if hook != nil {
		hook()
	}
	return out, nil
}

func newCache(t *testing.T) (*repository.DashboardCache, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return repository.NewDashboardCache(client, time.Minute), mr
}

func demoFixtures() (*fakeProjects, *fakeBuilds) {
	projects := newFakeProjects(domain.Project{ID: "p1", Name: "Demo", Slug: "demo-12345-6789"})
	builds := &fakeBuilds{builds: map[string][]domain.Build{
		"p1": {
			{ID: "b2", ProjectID: "p1", Branch: "main", Hash: "afd3591e1234567890"},
			{ID: "b1", ProjectID: "p1", Branch: "feature", Hash: "0123456789abcdef"},
		},
	}}
	return projects, builds
}

func TestFetchProject_ReadThrough(t *testing.T) {
	projects, builds := demoFixtures()
	cache, mr := newCache(t)
	svc := NewDashboardService(projects, builds, cache)
	ctx := context.Background()

	p, err := svc.FetchProject(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "Demo", p.Name)
	assert.True(t, mr.Exists("lhci:project:p1"))

	p, err = svc.FetchProject(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "Demo", p.Name)
	assert.Equal(t, 1, projects.gets, "second read served from cache")
}

func TestFetchProject_NotFound(t *testing.T) {
	projects, builds := demoFixtures()
	svc := NewDashboardService(projects, builds, nil)

	_, err := svc.FetchProject(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrProjectNotFound)
}

func TestFetchProjectBuilds_ReadThrough(t *testing.T) {
	projects, builds := demoFixtures()
	cache, _ := newCache(t)
	svc := NewDashboardService(projects, builds, cache)
	ctx := context.Background()

	got, err := svc.FetchProjectBuilds(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "b2", got[0].ID)

	got, err = svc.FetchProjectBuilds(ctx, "p1")
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, 1, builds.lists)
	assert.Equal(t, []int{DashboardBuildLimit}, builds.limits)
}

func TestFetch_BySlug(t *testing.T) {
	projects, builds := demoFixtures()
	cache, mr := newCache(t)
	svc := NewDashboardService(projects, builds, cache)
	ctx := context.Background()

	p, err := svc.FetchProject(ctx, "demo-12345-6789")
	require.NoError(t, err)
	assert.Equal(t, "p1", p.ID)
	assert.Equal(t, 0, projects.gets)
	assert.True(t, mr.Exists("lhci:project:p1"))

	got, err := svc.FetchProjectBuilds(ctx, "demo-12345-6789")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "b2", got[0].ID)
	assert.True(t, mr.Exists("lhci:builds:p1"))
	assert.Equal(t, 2, projects.slugGets)

	_, err = svc.FetchProject(ctx, "gone-12345-6789")
	assert.ErrorIs(t, err, domain.ErrProjectNotFound)
	got, err = svc.FetchProjectBuilds(ctx, "gone-12345-6789")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFetch_CacheDownFallsThrough(t *testing.T) {
	projects, builds := demoFixtures()
	cache, mr := newCache(t)
	mr.Close()
	svc := NewDashboardService(projects, builds, cache)
	ctx := context.Background()

	p, err := svc.FetchProject(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "Demo", p.Name)

	got, err := svc.FetchProjectBuilds(ctx, "p1")
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestCreateBuild_InvalidatesCache(t *testing.T) {
	projects, builds := demoFixtures()
	cache, mr := newCache(t)
	svc := NewDashboardService(projects, builds, cache)
	ctx := context.Background()

	_, err := svc.FetchProjectBuilds(ctx, "p1")
	require.NoError(t, err)
	require.True(t, mr.Exists("lhci:builds:p1"))

	b, err := svc.CreateBuild(ctx, domain.CreateBuildRequest{ProjectID: "p1", Branch: "main", Hash: "ffff0000"})
	require.NoError(t, err)
	assert.Equal(t, "b-new", b.ID)
	assert.False(t, mr.Exists("lhci:builds:p1"))

	got, err := svc.FetchProjectBuilds(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "b-new", got[0].ID)
}

func TestFetchProjectBuilds_ConcurrentCreateNotCached(t *testing.T) {
	projects, builds := demoFixtures()
	cache, mr := newCache(t)
	svc := NewDashboardService(projects, builds, cache)
	ctx := context.Background()

	builds.afterList = func() {
		_, err := svc.CreateBuild(ctx, domain.CreateBuildRequest{ProjectID: "p1", Branch: "main", Hash: "ffff0000"})
		require.NoError(t, err)
	}

	got, err := svc.FetchProjectBuilds(ctx, "p1")
	require.NoError(t, err)
	assert.Len(t, got, 2, "list read before the build was recorded")
	assert.False(t, mr.Exists("lhci:builds:p1"))

	got, err = svc.FetchProjectBuilds(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "b-new", got[0].ID)
	assert.True(t, mr.Exists("lhci:builds:p1"))
}

func TestWarmCache_ConcurrentCreateNotCached(t *testing.T) {
	projects, builds := demoFixtures()
	cache, mr := newCache(t)
	svc := NewDashboardService(projects, builds, cache)
	ctx := context.Background()

	builds.afterList = func() {
		_, err := svc.CreateBuild(ctx, domain.CreateBuildRequest{ProjectID: "p1", Branch: "main", Hash: "ffff0000"})
		assert.NoError(t, err)
	}

	n, err := svc.WarmCache(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.True(t, mr.Exists("lhci:project:p1"))
	assert.False(t, mr.Exists("lhci:builds:p1"))

	got, err := svc.FetchProjectBuilds(ctx, "p1")
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestCreateBuild_Invalid(t *testing.T) {
	projects, builds := demoFixtures()
	svc := NewDashboardService(projects, builds, nil)

	_, err := svc.CreateBuild(context.Background(), domain.CreateBuildRequest{ProjectID: "p1"})
	assert.ErrorIs(t, err, domain.ErrInvalidBuild)
}

func TestCreateProject(t *testing.T) {
	projects, builds := demoFixtures()
	svc := NewDashboardService(projects, builds, nil)
	ctx := context.Background()

	p, err := svc.CreateProject(ctx, domain.CreateProjectRequest{Name: " New "})
	require.NoError(t, err)
	assert.Equal(t, "New", p.Name)

	_, err = svc.CreateProject(ctx, domain.CreateProjectRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidProject)
}

func TestListBuilds(t *testing.T) {
	projects, builds := demoFixtures()
	svc := NewDashboardService(projects, builds, nil)
	ctx := context.Background()

	got, err := svc.ListBuilds(ctx, "p1", 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "b2", got[0].ID)

	_, err = svc.ListBuilds(ctx, "missing", 1)
	assert.ErrorIs(t, err, domain.ErrProjectNotFound)
}

func TestWarmCache(t *testing.T) {
	projects, builds := demoFixtures()
	projects.projects["p2"] = domain.Project{ID: "p2", Name: "Empty"}
	cache, mr := newCache(t)
	svc := NewDashboardService(projects, builds, cache)

	n, err := svc.WarmCache(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.True(t, mr.Exists("lhci:project:p1"))
	assert.True(t, mr.Exists("lhci:builds:p1"))
	assert.True(t, mr.Exists("lhci:builds:p2"))
}

func TestWarmCache_Errors(t *testing.T) {
	t.Run("no cache is a no-op", func(t *testing.T) {
		projects, builds := demoFixtures()
		n, err := NewDashboardService(projects, builds, nil).WarmCache(context.Background())
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("list failure", func(t *testing.T) {
		projects, builds := demoFixtures()
		projects.err = errors.New("db down")
		cache, _ := newCache(t)

		_, err := NewDashboardService(projects, builds, cache).WarmCache(context.Background())
		assert.ErrorIs(t, err, projects.err)
	})

	t.Run("cache failure", func(t *testing.T) {
		projects, builds := demoFixtures()
		cache, mr := newCache(t)
		mr.Close()

		_, err := NewDashboardService(projects, builds, cache).WarmCache(context.Background())
		assert.Error(t, err)
	})
}
