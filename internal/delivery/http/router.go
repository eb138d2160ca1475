package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"linklytics/internal/ratelimit"
)

// RouterConfig bundles the limiters applied per protected operation.
type RouterConfig struct {
	CreateLimiter  *ratelimit.Limiter
	OverallLimiter *ratelimit.Limiter
}

// NewRouter builds the HTTP routing tree.
func NewRouter(h *Handler, cfg RouterConfig, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(LoggerMiddleware(logger))
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/url", func(r chi.Router) {
		r.With(RateLimit(cfg.CreateLimiter, "create")).Post("/shorten", h.CreateShortLink)
		r.Get("/{alias}", h.Redirect)
	})

	r.Route("/api/analytics", func(r chi.Router) {
		r.With(RateLimit(cfg.OverallLimiter, "overall")).Get("/overall", h.GetOverallAnalytics)
		r.Get("/topic/{topic}", h.GetTopicAnalytics)
		r.Get("/{alias}", h.GetLinkAnalytics)
	})

	return r
}
