package routes

import (
	"context"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/grvbrk/tubepulse/internal/app"
	"github.com/grvbrk/tubepulse/internal/config"
)

// Run builds the application for cfg and serves the API until ctx is done.
// Both the root server binary and `tubepulse serve` start through here.
func Run(ctx context.Context, cfg config.Config) error {
	application, err := app.NewApplication(cfg)
	if err != nil {
		return err
	}
	return application.Serve(ctx, SetupRoutes(application))
}

func SetupRoutes(app *app.Application) *chi.Mux {
	r := chi.NewRouter()

	r.Use(app.MiddlewareHandler.RequestID)
	r.Use(app.MiddlewareHandler.RequestLogger)
	r.Use(app.MiddlewareHandler.Security)
	r.Use(httprate.LimitAll(app.Config.RateLimit.Global, time.Minute))

	r.Get("/healthz", app.HealthHandler.HandlerHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(httprate.LimitByIP(app.Config.RateLimit.API, time.Minute))
		r.Use(app.MiddlewareHandler.Cors)

		r.Get("/trending", app.FeedHandler.HandlerGetTrending)

		r.Route("/channel", func(r chi.Router) {
			r.Get("/", app.FeedHandler.HandlerGetChannelLatest)
			r.Get("/analytics", app.ChannelAnalyticsHandler.HandlerGetChannelAnalytics)
		})
	})

	return r
}
