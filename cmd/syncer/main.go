package main

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"restaurant_reviews/internal/adapters/frest"
	"restaurant_reviews/internal/adapters/observability"
	"restaurant_reviews/internal/adapters/toast"
	"restaurant_reviews/internal/app"
	"restaurant_reviews/internal/domain"
	"restaurant_reviews/internal/shared"
)

// syncer does what a page load does: refresh the restaurant cache and replay the pending review.
func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	cfg := shared.Load()

	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	log.Info().
		Str("remote", cfg.DatabaseURL).
		Str("store", cfg.StoreBackend).
		Msg("syncer starting")

	store, closeStore, err := shared.OpenStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("open store failed")
	}
	defer closeStore()

	client, err := frest.New(cfg.DatabaseURL, cfg.RemoteRPS)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize restaurant client")
	}
	svc := app.NewSyncService(client, store, toast.New(log.Logger, cfg.NotifyHistory))

	// both run at once, as they do in the browser; they share no lock
	var g errgroup.Group
	g.Go(func() error {
		return svc.FetchRestaurants(ctx, func() { log.Info().Msg("restaurant cache refreshed") })
	})
	g.Go(func() error {
		return svc.CheckPendingRequests(ctx)
	})

	if err := g.Wait(); err != nil {
		if errors.Is(err, domain.ErrNetworkFailure) {
			log.Warn().Err(err).Msg("sync incomplete; remote service unreachable")
			return
		}
		log.Fatal().Err(err).Msg("sync failed")
	}
	log.Info().Msg("sync completed")
}
