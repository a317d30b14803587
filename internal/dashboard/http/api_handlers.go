package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/GoSim-25-26J-441/lhci-dashboard/internal/dashboard/domain"
	"github.com/GoSim-25-26J-441/lhci-dashboard/internal/logging"
)

const maxBuildLimit = 1000

func (h *Handler) listProjects(c *gin.Context) {
	items, err := h.svc.ListProjects(c.Request.Context())
	if err != nil {
		h.internalError(c, "ListProjects", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "projects": items})
}

func (h *Handler) createProject(c *gin.Context) {
	var req createProjectReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	p, err := h.svc.CreateProject(c.Request.Context(), domain.CreateProjectRequest{
		Name:        req.Name,
		ExternalURL: req.ExternalURL,
	})
	switch {
	case errors.Is(err, domain.ErrInvalidProject):
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "name is required"})
		return
	case errors.Is(err, domain.ErrProjectExists):
		c.JSON(http.StatusConflict, gin.H{"ok": false, "error": err.Error()})
		return
	case err != nil:
		h.internalError(c, "CreateProject", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"ok": true, "project": p})
}

func (h *Handler) getProject(c *gin.Context) {
	p, err := h.svc.GetProject(c.Request.Context(), c.Param("id"))
	if errors.Is(err, domain.ErrProjectNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "project not found"})
		return
	}
	if err != nil {
		h.internalError(c, "GetProject", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "project": p})
}

func (h *Handler) listBuilds(c *gin.Context) {
	limit := 0
	if s := c.Query("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid limit"})
			return
		}
		limit = min(n, maxBuildLimit)
	}

	builds, err := h.svc.ListBuilds(c.Request.Context(), c.Param("id"), limit)
	if errors.Is(err, domain.ErrProjectNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "project not found"})
		return
	}
	if err != nil {
		h.internalError(c, "ListBuilds", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "builds": builds})
}

func (h *Handler) createBuild(c *gin.Context) {
	var req createBuildReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	b, err := h.svc.CreateBuild(c.Request.Context(), domain.CreateBuildRequest{
		ProjectID:        c.Param("id"),
		Branch:           req.Branch,
		Hash:             req.Hash,
		ExternalBuildURL: req.ExternalBuildURL,
		CommitMessage:    req.CommitMessage,
		Author:           req.Author,
		RunAt:            req.RunAt,
		CreatedAt:        req.CreatedAt,
	})
	switch {
	case errors.Is(err, domain.ErrInvalidBuild):
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "branch and hash are required"})
		return
	case errors.Is(err, domain.ErrProjectNotFound):
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "project not found"})
		return
	case err != nil:
		h.internalError(c, "CreateBuild", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"ok": true, "build": b})
}

func (h *Handler) internalError(c *gin.Context, operation string, err error) {
	logging.NewLogger(c.Request.Context()).LogError(operation, err)
	c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "internal error"})
}
