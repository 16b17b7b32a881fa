// Command advisor polls the weather once (or on an interval with --watch) and
// tells the user when to open or close the windows.
//
// @title                       Window Advisor API
// @version                     1.0
// @description                 Operator API for the window open/close advisor.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"golang.org/x/time/rate"

	"window_advisor/internal/config"
	"window_advisor/internal/handlers"
	"window_advisor/internal/logger"
	"window_advisor/internal/notifier"
	"window_advisor/internal/repository"
	"window_advisor/internal/repository/db"
	"window_advisor/internal/scheduler"
	"window_advisor/internal/server"
	"window_advisor/internal/service"
	"window_advisor/internal/weather"
)

const (
	cycleTimeout    = 2 * time.Minute
	shutdownTimeout = 10 * time.Second
)

func main() {
	configPath := pflag.StringP("config", "c", "", "path to config file (default configs/config.yml)")
	watch := pflag.BoolP("watch", "w", false, "keep running and check every poll_interval")
	pflag.Parse()

	os.Exit(run(*configPath, *watch))
}

func run(configPath string, watch bool) int {
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "advisor: %v\n", err)
		return 1
	}

	log := logger.GetWithOptions(logger.Options{Level: cfg.Log.Level, File: cfg.Log.File})
	defer func() { _ = log.Sync() }()

	if cfg.Location.ZipCode == "" {
		log.Errorw("location.zip_code (ZIP_CODE) is required")
		return 1
	}

	conn, err := db.InitDB(cfg.DB.Path)
	if err != nil {
		log.Errorw("failed to init sqlite", "path", cfg.DB.Path, "err", err)
		return 1
	}
	defer closeDB(conn, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	n, err := notifier.New(ctx, cfg.Notifier)
	if err != nil {
		log.Errorw("failed to init notifier", "backend", cfg.Notifier.Backend, "err", err)
		return 1
	}

	services := service.NewService(service.Deps{
		Repos: repository.NewRepository(conn),
		Source: weather.NewOpenMeteo(weather.Options{
			ForecastURL: cfg.Weather.ForecastURL,
			GeocodeURL:  cfg.Weather.GeocodeURL,
			Timeout:     cfg.Weather.Timeout,
			Backoff:     weather.DefaultBackoff,
		}),
		Notifier: n,
		Config:   cfg,
		Log:      log,
	})

	if !watch {
		return runOnce(ctx, services, log)
	}
	return runWatch(cfg, services, log, cancel)
}

// runOnce is the cron-style invocation. A skipped cycle is not a failure.
func runOnce(ctx context.Context, services *service.Service, log *logger.Logger) int {
	ctx, cancel := context.WithTimeout(ctx, cycleTimeout)
	defer cancel()

	res, err := services.RunCycle(ctx)
	switch {
	case errors.Is(err, weather.ErrSourceUnavailable):
		return 0
	case err != nil:
		log.Errorw("cycle_failed", "err", err)
		return 1
	}
	log.Infow("cycle_done", "action", res.Action, "reason", res.Reason, "delivered", res.Delivered)
	return 0
}

func runWatch(cfg *config.Config, services *service.Service, log *logger.Logger, cancel context.CancelFunc) int {
	sched := scheduler.New(services, cfg.PollInterval, cycleTimeout, log)
	if err := sched.Start(); err != nil {
		log.Errorw("failed to start scheduler", "err", err)
		return 1
	}
	defer sched.Stop()

	var srv *server.Server
	if cfg.API.Enabled {
		limiter := handlers.NewRateLimiter(rate.Limit(cfg.API.RateLimit), cfg.API.RateBurst)
		srv = &server.Server{}
		runHTTPServer(srv, cfg.API.Port, handlers.NewHandler(services, log, limiter), log)
	}

	waitForShutdown(cancel, srv, log)
	return 0
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		log.Infow("api_listening", "port", port)
		if err := srv.Run(port, handler.InitRoutes()); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown blocks until SIGINT/SIGTERM, then drains the API.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down...")
	cancel()

	if srv == nil {
		return
	}
	// A signal that beats Run to the listener still stops it: Run returns
	// without serving once Shutdown has been called.
	ctx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}
}

func closeDB(conn *sql.DB, log *logger.Logger) {
	if err := conn.Close(); err != nil {
		log.Errorw("failed to close sqlite", "err", err)
	}
}
