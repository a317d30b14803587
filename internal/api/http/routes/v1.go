package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/GoSim-25-26J-441/lhci-dashboard/internal/api/http/middleware"
	dashhttp "github.com/GoSim-25-26J-441/lhci-dashboard/internal/dashboard/http"
)

type V1Deps struct {
	Dashboard *dashhttp.Handler
	APIKey    string
	RateLimit float64
	RateBurst int
}

// RegisterV1 mounts the JSON API under /api/v1 and the dashboard pages
// under /app. Write routes need the API key and are rate limited.
func RegisterV1(r *gin.Engine, dep V1Deps) {
	api := r.Group("/api/v1")
	dep.Dashboard.RegisterAPI(api,
		middleware.APIKeyMiddleware(dep.APIKey),
		middleware.NewRateLimiter(dep.RateLimit, dep.RateBurst).Middleware(),
	)

	app := r.Group("/app")
	dep.Dashboard.RegisterPages(app)
}
