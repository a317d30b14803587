package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/GoSim-25-26J-441/lhci-dashboard/internal/dashboard/async"
	"github.com/GoSim-25-26J-441/lhci-dashboard/internal/dashboard/view"
	"github.com/GoSim-25-26J-441/lhci-dashboard/internal/logging"
)

type stateEvent struct {
	State  string     `json:"state"`
	Status int        `json:"status"`
	Error  string     `json:"error,omitempty"`
	View   *view.Node `json:"view"`
}

// StreamDashboard streams the dashboard using Server-Sent Events: a
// "state" event with the loading placeholder, then one with the final
// render once both lookups have finished.
func (h *Handler) StreamDashboard(c *gin.Context) {
	projectID := c.Param("id")
	ctx := c.Request.Context()
	log := logging.NewLogger(ctx)

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no") // nginx: disable buffering

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "streaming unsupported"})
		return
	}

	c.SSEvent("state", stateEvent{
		State:  async.Pending.String(),
		Status: http.StatusAccepted,
		View:   view.Loader(async.Pending, nil),
	})
	flusher.Flush()

	result := make(chan dashboardData, 1)
	go func() {
		result <- h.bind(ctx, projectID)
	}()

	ticker := time.NewTicker(h.keepAlive)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			// Client disconnected
			return

		case <-ticker.C:
			c.Writer.WriteString(": keep-alive\n\n")
			flusher.Flush()

		case data := <-result:
			ev := stateEvent{
				State:  data.State.String(),
				Status: statusFor(data),
				View:   h.render(c, data),
			}
			if err := publicError(data.Err); err != nil {
				ev.Error = err.Error()
			}
			if ev.Status == http.StatusInternalServerError {
				log.LogError("StreamDashboard", data.Err)
			}
			c.SSEvent("state", ev)
			flusher.Flush()
			return
		}
	}
}
