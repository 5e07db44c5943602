package app

import (
	"github.com/rs/zerolog"

	"github.com/grvbrk/tubepulse/internal/config"
	"github.com/grvbrk/tubepulse/internal/feed"
	"github.com/grvbrk/tubepulse/internal/handlers"
	handler_analytics "github.com/grvbrk/tubepulse/internal/handlers/analytics"
	"github.com/grvbrk/tubepulse/internal/log"
	"github.com/grvbrk/tubepulse/internal/middlewares"
	"github.com/grvbrk/tubepulse/internal/store"
	"github.com/grvbrk/tubepulse/internal/store/analytics"
)

type Application struct {
	Config                  config.Config
	Logger                  zerolog.Logger
	FeedStore               store.FeedStore
	ReportStore             analytics.ChannelAnalyticsStore
	MiddlewareHandler       *middlewares.MiddlewareHandler
	FeedHandler             *handlers.FeedHandler
	HealthHandler           *handlers.HealthHandler
	ChannelAnalyticsHandler *handler_analytics.ChannelAnalyticsHandler
}

func NewApplication(cfg config.Config) (*Application, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := log.WithComponent("app")

	client := feed.NewClient(feed.Options{
		BaseURL:      cfg.Feed.BaseURL,
		UserAgent:    cfg.Feed.UserAgent,
		Timeout:      cfg.Feed.Timeout.Duration,
		MaxBodyBytes: cfg.Feed.MaxBodyBytes,
		Logger:       log.WithComponent("feed"),
	})

	feedStore := store.NewYoutubeFeedStore(client, log.WithComponent("store"))
	reportStore := analytics.NewFeedChannelAnalyticsStore(feedStore)

	feedHandler := handlers.NewFeedHandler(feedStore, reportStore, log.WithComponent("handlers"))
	healthHandler := handlers.NewHealthHandler()
	channelAnalyticsHandler := handler_analytics.NewChannelAnalyticsHandler(reportStore, log.WithComponent("handlers.analytics"))

	middlewareHandler := middlewares.NewMiddlewareHandler(log.WithComponent("http"), cfg.OriginAllowed)

	app := &Application{
		Config:                  cfg,
		Logger:                  logger,
		FeedStore:               feedStore,
		ReportStore:             reportStore,
		MiddlewareHandler:       middlewareHandler,
		FeedHandler:             feedHandler,
		HealthHandler:           healthHandler,
		ChannelAnalyticsHandler: channelAnalyticsHandler,
	}

	logger.Debug().
		Str("feed_base_url", cfg.Feed.BaseURL).
		Dur("feed_timeout", cfg.Feed.Timeout.Duration).
		Msg("application wired")

	return app, nil
}
