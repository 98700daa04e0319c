package app

import (
	"context"
	"net/http"
	"time"

	"github.com/shashiranjanraj/logitrack/pkg/database"
	"github.com/shashiranjanraj/logitrack/pkg/logger"
	"github.com/shashiranjanraj/logitrack/pkg/metrics"
	"github.com/shashiranjanraj/logitrack/pkg/middleware"
	"github.com/shashiranjanraj/logitrack/pkg/reqid"
	"github.com/shashiranjanraj/logitrack/pkg/response"
)

// mountGlobal installs the middleware stack and the operational endpoints.
// Middleware order (outermost first):
//
//  1. metrics     accurate total latency
//  2. recovery    panics become a 500 problem body
//  3. request id  before anything logs
//  4. logger      request-scoped logger tagged with request_id
//  5. CORS
//  6. rate limit
//  7. body limit
func (a *Application) mountGlobal() {
	r := a.router
	r.Use(
		metrics.Middleware(),
		middleware.Recovery,
		reqid.Middleware(),
		middleware.Logger,
		middleware.CORS(middleware.DefaultCORSOptions()),
		a.limiter.Middleware,
		middleware.BodyLimit(a.Config.MaxBodyBytes),
	)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		response.NotFound(w, "The requested resource was not found.")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		response.Error(w, http.StatusMethodNotAllowed, "Method not allowed.")
	})

	r.HandleFunc("/metrics", metrics.Handler())
	r.Get("/healthz", "health", a.health)
}

func (a *Application) health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := database.Ping(ctx, a.DB); err != nil {
		logger.WithCtx(r.Context()).Error("health check failed", "error", err)
		response.Error(w, http.StatusServiceUnavailable, "Database unavailable.")
		return
	}
	response.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Handler returns the root HTTP handler.
func (a *Application) Handler() http.Handler {
	return a.router.Handler()
}
