package http

import "github.com/gin-gonic/gin"

// RegisterPages attaches the dashboard page routes. :id is a project ID or slug.
func (h *Handler) RegisterPages(rg *gin.RouterGroup) {
	rg.GET("/projects/:id/dashboard", h.Dashboard)
	rg.GET("/projects/:id/dashboard/stream", h.StreamDashboard)
}

// RegisterAPI attaches the JSON API. write guards the mutating routes.
func (h *Handler) RegisterAPI(rg *gin.RouterGroup, write ...gin.HandlerFunc) {
	projects := rg.Group("/projects")
	projects.GET("", h.listProjects)
	projects.GET("/:id", h.getProject)
	projects.GET("/:id/builds", h.listBuilds)

	writes := projects.Group("", write...)
	writes.POST("", h.createProject)
	writes.POST("/:id/builds", h.createBuild)
}
