package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/matst80/slask-catalog/pkg/catalog"
	"github.com/matst80/slask-catalog/pkg/common"
	"github.com/matst80/slask-catalog/pkg/config"
	"github.com/matst80/slask-catalog/pkg/server"
	"github.com/matst80/slask-catalog/pkg/tracking"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"
)

type app struct {
	cfg     *config.Config
	conn    *amqp.Connection
	cache   *catalog.CachedSource
	redis   *catalog.RedisStore
	tracker tracking.Tracker
	web     *server.WebServer
}

func (a *app) source() catalog.Source {
	var src catalog.Source = catalog.FallbackSource{}
	if a.cfg.BackendURL != "" {
		src = catalog.NewHTTPSource(a.cfg.BackendURL)
	} else {
		log.Warn().Msg("BACKEND_URL not set, serving the embedded catalog")
	}

	var shared catalog.KV
	if a.cfg.Redis.URL != "" {
		a.redis = catalog.NewRedisStore(a.cfg.Redis.URL, a.cfg.Redis.Password, a.cfg.Redis.DB)
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := a.redis.Ping(ctx); err != nil {
			log.Warn().Err(err).Msg("redis not reachable, cache stays local until it is")
		}
		shared = a.redis
	}
	a.cache = catalog.NewCachedSource(src, shared, a.cfg.Country, a.cfg.Catalog.CacheTTL)
	return a.cache
}

func (a *app) connectTracking() {
	if a.cfg.RabbitURL == "" {
		a.tracker = tracking.LogTracker{Country: a.cfg.Country}
		return
	}
	tracker, err := tracking.NewRabbitTracking(a.cfg.RabbitURL, a.cfg.Country)
	if err != nil {
		log.Error().Err(err).Msg("failed to connect to rabbitmq for tracking")
		a.tracker = tracking.LogTracker{Country: a.cfg.Country}
		return
	}
	a.tracker = tracker
}

func (a *app) shutdown(ctx context.Context) error {
	if err := a.web.Close(ctx); err != nil {
		log.Warn().Err(err).Msg("failed to close tracking")
	}
	if a.conn != nil {
		a.conn.Close()
	}
	if a.redis != nil {
		return a.redis.Close()
	}
	return nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	config.SetupLogger(cfg)

	a := &app{cfg: cfg}
	src := a.source()
	a.connectTracking()
	a.web = server.NewWebServer(src, a.tracker, server.Options{
		PageSize:        cfg.Catalog.PageSize,
		DebounceWindow:  cfg.Catalog.DebounceWindow,
		AnnounceWindow:  cfg.Catalog.AnnounceWindow,
		SwipeThreshold:  cfg.Catalog.SwipeThreshold,
		FetchTimeout:    cfg.Catalog.FetchTimeout,
		ViewIdleTimeout: cfg.Catalog.ViewIdleTimeout,
		Hint:            catalog.CacheHint{MaxAge: cfg.Catalog.CacheTTL},
	})
	if cfg.RabbitURL != "" {
		if err := a.ConnectAmqp(cfg.RabbitURL); err != nil {
			log.Error().Err(err).Msg("catalog change listener disabled")
		}
	}

	ctx, stopReaper := context.WithCancel(context.Background())
	defer stopReaper()
	go a.web.Views.Run(ctx, cfg.Catalog.ViewIdleTimeout, time.Minute)

	timeouts := common.LoadTimeoutConfig(common.TimeoutConfig{
		ReadHeader: 5 * time.Second,
		Read:       15 * time.Second,
		Write:      30 * time.Second,
		Idle:       60 * time.Second,
		Shutdown:   15 * time.Second,
		Hook:       5 * time.Second,
	})
	srv := common.NewServerWithTimeouts(&http.Server{
		Addr:    cfg.ListenAddress,
		Handler: a.web.Handler(),
	}, timeouts)

	err = common.RunServerWithShutdown(srv, "slask-catalog", timeouts.Shutdown, timeouts.Hook,
		func(context.Context) error {
			stopReaper()
			return nil
		},
		a.shutdown,
	)
	if err != nil {
		log.Error().Err(err).Msg("server stopped with error")
		os.Exit(1)
	}
}
