package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"restaurant_reviews/internal/adapters/frest"
	server "restaurant_reviews/internal/adapters/http_server"
	"restaurant_reviews/internal/adapters/observability"
	"restaurant_reviews/internal/adapters/toast"
	"restaurant_reviews/internal/app"
	"restaurant_reviews/internal/shared"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, reg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// deps
	store, closeStore, err := shared.OpenStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("open store failed")
	}
	defer closeStore()

	client, err := frest.New(cfg.DatabaseURL, cfg.RemoteRPS)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize restaurant client")
	}
	toasts := toast.New(log.Logger, cfg.NotifyHistory)
	q := app.NewQueryService(store)
	syncSvc := app.NewSyncService(client, store, toasts)

	// warm the cache and flush a review left over from the last run; neither blocks startup
	go func() {
		_ = syncSvc.FetchRestaurants(ctx, func() { log.Info().Msg("restaurant cache warmed") })
		_ = syncSvc.CheckPendingRequests(ctx)
	}()

	// http
	srv := server.New(cfg.CORSOrigins...)
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{Q: q, S: syncSvc, Toasts: toasts})

	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux(), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Str("remote", cfg.DatabaseURL).Msg("API listening")
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown failed")
	}
}
