package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"smartbanner/internal/observability"
)

func Router(h *BannerHandler, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()

	r.Use(observability.Measure)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(2 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Standalone"},
		ExposedHeaders:   []string{"X-Banner-Reason", "X-Banner-State"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Route("/v1/banner", func(r chi.Router) {
		r.Get("/", h.Banner)
		r.Post("/{instance}/close", h.Close)
		r.Post("/{instance}/install", h.Install)
	})
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", observability.MetricsHandler())
	return r
}
