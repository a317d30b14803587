package http

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/GoSim-25-26J-441/lhci-dashboard/internal/dashboard/async"
	"github.com/GoSim-25-26J-441/lhci-dashboard/internal/dashboard/domain"
	"github.com/GoSim-25-26J-441/lhci-dashboard/internal/dashboard/view"
	"github.com/GoSim-25-26J-441/lhci-dashboard/internal/logging"
)

const pageTitle = "Lighthouse CI"

type dashboardData = async.Combined[*domain.Project, []domain.Build]

var errLoadFailed = errors.New("failed to load dashboard")

// bind fetches the project and its builds concurrently.
func (h *Handler) bind(ctx context.Context, projectID string) dashboardData {
	return async.Bind[*domain.Project, []domain.Build](ctx,
		func(ctx context.Context) (*domain.Project, error) {
			return h.svc.FetchProject(ctx, projectID)
		},
		func(ctx context.Context) ([]domain.Build, error) {
			return h.svc.FetchProjectBuilds(ctx, projectID)
		},
	)
}

// render turns the aggregate into a view tree. Lookup errors other than an
// unknown project are replaced by a generic message.
func (h *Handler) render(c *gin.Context, data dashboardData) *view.Node {
	opts := view.Options{
		Time:          h.time.ForAcceptLanguage(c.GetHeader("Accept-Language")),
		PublicBaseURL: h.publicBaseURL,
	}
	return async.Render(data,
		func(p *domain.Project, builds []domain.Build) *view.Node {
			return view.Dashboard(*p, builds, opts)
		},
		func(state async.LoadingState, err error) *view.Node {
			return view.Loader(state, publicError(err))
		},
	)
}

func publicError(err error) error {
	if err == nil || errors.Is(err, domain.ErrProjectNotFound) {
		return err
	}
	return errLoadFailed
}

func statusFor(data dashboardData) int {
	switch data.State {
	case async.Loaded:
		return http.StatusOK
	case async.Pending:
		return http.StatusAccepted
	}
	if errors.Is(data.Err, domain.ErrProjectNotFound) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func wantsJSON(c *gin.Context) bool {
	if c.Query("format") == "json" {
		return true
	}
	return c.NegotiateFormat(gin.MIMEHTML, gin.MIMEJSON) == gin.MIMEJSON
}

// Dashboard serves the project dashboard as HTML, or as the view tree in
// JSON. Lookups slower than the render timeout yield the loader with 202.
func (h *Handler) Dashboard(c *gin.Context) {
	projectID := c.Param("id")
	log := logging.NewLogger(c.Request.Context())

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.renderTimeout)
	defer cancel()

	data := h.bind(ctx, projectID)
	tree := h.render(c, data)
	status := statusFor(data)

	switch data.State {
	case async.Pending:
		log.LogWarnf("Dashboard", "render timeout for project %s", projectID)
		c.Header("Refresh", strconv.Itoa(refreshSeconds(h.renderTimeout)))
	case async.Error:
		if status == http.StatusInternalServerError {
			log.LogError("Dashboard", data.Err)
		}
	}

	if wantsJSON(c) {
		resp := dashboardResponse{OK: data.State == async.Loaded, State: data.State.String(), View: tree}
		if err := publicError(data.Err); err != nil {
			resp.Error = err.Error()
		}
		c.JSON(status, resp)
		return
	}

	title := pageTitle
	if data.State == async.Loaded {
		title = data.Data.First.Name + " - " + pageTitle
	}

	var buf bytes.Buffer
	if err := view.RenderPage(&buf, title, tree); err != nil {
		log.LogError("Dashboard", err)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "render failed"})
		return
	}
	c.Data(status, "text/html; charset=utf-8", buf.Bytes())
}

func refreshSeconds(timeout time.Duration) int {
	return max(int(timeout.Seconds()), 1)
}
