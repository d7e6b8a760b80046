package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"

	"github.com/meetgrid/meetgrid/internal/backend"
	"github.com/meetgrid/meetgrid/internal/config"
	"github.com/meetgrid/meetgrid/internal/http/csrf"
	"github.com/meetgrid/meetgrid/internal/http/ratelimit"
	"github.com/meetgrid/meetgrid/internal/metrics"
	"github.com/meetgrid/meetgrid/internal/ui"
)

// NewRouter wires all HTTP routes for the dashboard.
func NewRouter(cfg *config.Config, uiHandler *ui.Handler, client *backend.Client) http.Handler {
	r := chi.NewRouter()

	// Search and booking hit the scheduling backend: 5 requests per
	// second, burst of 10.
	interactiveLimiter := ratelimit.NewIPRateLimiter(rate.Limit(5), 10, 5*time.Minute, cfg.TrustedProxies)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware())

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := client.Ping(ctx); err != nil {
			http.Error(w, "unready", http.StatusServiceUnavailable)
			return
		}

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	if cfg.PrometheusEnabled {
		r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
			metrics.Handler().ServeHTTP(w, r)
		})
	}

	r.Group(func(r chi.Router) {
		r.Use(csrf.Middleware(cfg))

		r.Get("/", uiHandler.Calendar)
		r.Get("/calendar/export.ics", uiHandler.ExportICS)

		r.Post("/calendar/view", uiHandler.SetView)
		r.Post("/calendar/navigate", uiHandler.Navigate)
		r.Post("/calendar/select", uiHandler.SelectDate)
		r.Post("/calendar/mininav", uiHandler.MiniNav)
		r.Post("/events/local", uiHandler.CreateLocalEvent)

		r.Post("/groups/select", uiHandler.SelectGroup)
		r.Post("/groups/joined", uiHandler.GroupJoined)

		r.Group(func(r chi.Router) {
			r.Use(interactiveLimiter.Middleware())
			r.Post("/search", uiHandler.Search)
			r.Post("/search/clear", uiHandler.ClearSearch)
			r.Post("/slots/select", uiHandler.SelectSlot)
			r.Post("/booking/confirm", uiHandler.ConfirmBooking)
			r.Post("/booking/cancel", uiHandler.CancelBooking)
		})
	})

	return r
}
