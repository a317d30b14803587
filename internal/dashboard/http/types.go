package http

import (
	"context"
	"time"

	"github.com/GoSim-25-26J-441/lhci-dashboard/internal/dashboard/domain"
	"github.com/GoSim-25-26J-441/lhci-dashboard/internal/dashboard/view"
)

// Service is what the dashboard endpoints need from the service layer.
type Service interface {
	FetchProject(ctx context.Context, projectID string) (*domain.Project, error)
	FetchProjectBuilds(ctx context.Context, projectID string) ([]domain.Build, error)

	ListProjects(ctx context.Context) ([]domain.Project, error)
	GetProject(ctx context.Context, projectID string) (*domain.Project, error)
	CreateProject(ctx context.Context, req domain.CreateProjectRequest) (*domain.Project, error)
	ListBuilds(ctx context.Context, projectID string, limit int) ([]domain.Build, error)
	CreateBuild(ctx context.Context, req domain.CreateBuildRequest) (*domain.Build, error)
}

// Options configures rendering.
type Options struct {
	RenderTimeout time.Duration
	Time          *view.TimeFormatter
	PublicBaseURL string
}

// Handler bundles the dependencies for dashboard HTTP endpoints.
type Handler struct {
	svc           Service
	renderTimeout time.Duration
	time          *view.TimeFormatter
	publicBaseURL string
	keepAlive     time.Duration
}

func New(svc Service, opts Options) *Handler {
	if opts.RenderTimeout <= 0 {
		opts.RenderTimeout = 5 * time.Second
	}
	if opts.Time == nil {
		opts.Time = view.DefaultTimeFormatter()
	}
	return &Handler{
		svc:           svc,
		renderTimeout: opts.RenderTimeout,
		time:          opts.Time,
		publicBaseURL: opts.PublicBaseURL,
		keepAlive:     15 * time.Second,
	}
}

type dashboardResponse struct {
	OK    bool       `json:"ok"`
	State string     `json:"state"`
	Error string     `json:"error,omitempty"`
	View  *view.Node `json:"view"`
}

type createProjectReq struct {
	Name        string `json:"name"`
	ExternalURL string `json:"external_url"`
}

type createBuildReq struct {
	Branch           string     `json:"branch"`
	Hash             string     `json:"hash"`
	ExternalBuildURL string     `json:"external_build_url"`
	CommitMessage    string     `json:"commit_message"`
	Author           string     `json:"author"`
	RunAt            *time.Time `json:"run_at"`
	CreatedAt        *time.Time `json:"created_at"`
}
