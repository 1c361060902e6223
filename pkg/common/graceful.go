package common

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
)

// ShutdownHook runs after a termination signal and before the HTTP server
// shuts down. Errors are logged and shutdown continues.
type ShutdownHook func(ctx context.Context) error

// RunServerWithShutdown serves until SIGINT or SIGTERM and then shuts down
// gracefully. See RunServer.
func RunServerWithShutdown(server *http.Server, name string, shutdownTimeout, hookTimeout time.Duration, hooks ...ShutdownHook) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return RunServer(ctx, server, name, shutdownTimeout, hookTimeout, hooks...)
}

// RunServer starts server and blocks until ctx is done or the listener
// fails. Hooks then run in order, each bounded by hookTimeout (5s when
// zero), sharing the overall shutdownTimeout with the server shutdown.
func RunServer(ctx context.Context, server *http.Server, name string, shutdownTimeout, hookTimeout time.Duration, hooks ...ShutdownHook) error {
	if hookTimeout <= 0 {
		hookTimeout = 5 * time.Second
	}

	errs := make(chan error, 1)
	go func() {
		log.Info().Str("service", name).Str("addr", server.Addr).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs <- err
		}
		close(errs)
	}()

	var listenErr error
	select {
	case <-ctx.Done():
		log.Info().Str("service", name).Msg("shutdown signal received")
	case listenErr = <-errs:
		if listenErr != nil {
			log.Error().Err(listenErr).Str("service", name).Msg("listen error")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	for i, h := range hooks {
		if h == nil {
			continue
		}
		hCtx, hCancel := context.WithTimeout(shutdownCtx, hookTimeout)
		if err := h(hCtx); err != nil {
			log.Warn().Err(err).Int("hook", i).Msg("shutdown hook failed")
		}
		if errors.Is(hCtx.Err(), context.DeadlineExceeded) {
			log.Warn().Int("hook", i).Msg("shutdown hook timed out")
		}
		hCancel()
	}

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Str("service", name).Msg("graceful shutdown failed")
		return err
	}
	log.Info().Str("service", name).Msg("shutdown complete")
	return listenErr
}

// TimeoutConfig holds server and shutdown related timeouts.
type TimeoutConfig struct {
	ReadHeader time.Duration
	Read       time.Duration
	Write      time.Duration
	Idle       time.Duration
	Shutdown   time.Duration
	Hook       time.Duration
}

// LoadTimeoutConfig overrides defaults with environment variables holding
// whole seconds. Unparsable or non-positive values keep the default.
//
//	READ_HEADER_TIMEOUT
//	READ_TIMEOUT
//	WRITE_TIMEOUT
//	IDLE_TIMEOUT
//	SHUTDOWN_TIMEOUT
//	HOOK_TIMEOUT
func LoadTimeoutConfig(defaults TimeoutConfig) TimeoutConfig {
	apply := func(curr *time.Duration, env string) {
		if v := os.Getenv(env); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				*curr = time.Duration(n) * time.Second
			}
		}
	}
	apply(&defaults.ReadHeader, "READ_HEADER_TIMEOUT")
	apply(&defaults.Read, "READ_TIMEOUT")
	apply(&defaults.Write, "WRITE_TIMEOUT")
	apply(&defaults.Idle, "IDLE_TIMEOUT")
	apply(&defaults.Shutdown, "SHUTDOWN_TIMEOUT")
	apply(&defaults.Hook, "HOOK_TIMEOUT")
	return defaults
}

// NewServerWithTimeouts attaches timeout settings to base, creating a server
// when base is nil.
func NewServerWithTimeouts(base *http.Server, cfg TimeoutConfig) *http.Server {
	if base == nil {
		base = &http.Server{}
	}
	base.ReadHeaderTimeout = cfg.ReadHeader
	base.ReadTimeout = cfg.Read
	base.WriteTimeout = cfg.Write
	base.IdleTimeout = cfg.Idle
	return base
}
