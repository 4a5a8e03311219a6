package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ecomcore/storefront/internal/api"
	"github.com/ecomcore/storefront/internal/api/middleware"
	"github.com/ecomcore/storefront/internal/cache"
	"github.com/ecomcore/storefront/internal/kvstore"
	"github.com/ecomcore/storefront/internal/query"
	"github.com/ecomcore/storefront/internal/repository"
	"github.com/ecomcore/storefront/internal/service"
	"github.com/ecomcore/storefront/internal/views"
	"github.com/ecomcore/storefront/pkg/db"
	"github.com/ecomcore/storefront/pkg/redisdb"
)

const catalogPath = "products"

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	conn, err := db.NewPostgresConnection(db.LoadPostgresConfig())
	if err != nil {
		log.Fatal().Err(err).Msg("db connect")
	}
	defer conn.Close()

	rdb, err := redisdb.NewClient(redisdb.LoadConfig())
	if err != nil {
		log.Fatal().Err(err).Msg("redis connect")
	}
	defer rdb.Close()

	// catalog store, seeded from postgres and kept in sync by the repos
	catalogStore := kvstore.NewMemory()

	campaignRepo := repository.NewCampaignRepo(conn)
	productRepo := repository.NewProductRepo(conn, catalogStore)
	orderRepo := repository.NewOrderRepo(conn)

	seedCtx, cancelSeed := context.WithTimeout(context.Background(), 30*time.Second)
	if err := productRepo.Seed(seedCtx); err != nil {
		cancelSeed()
		log.Fatal().Err(err).Msg("catalog seed")
	}
	cancelSeed()

	viewCounter := views.NewCounter(rdb)
	campaignCache := cache.NewCampaignCache(time.Minute)
	planner := query.NewPlanner(catalogStore, viewCounter, catalogPath)

	catalogSvc := service.NewCatalogService(planner, productRepo, campaignRepo, campaignCache, viewCounter)
	orderSvc := service.NewOrderService(productRepo, orderRepo, productRepo, campaignRepo, campaignCache)

	handler := api.NewRouter(api.Deps{
		Catalog:       catalogSvc,
		Orders:        orderSvc,
		Campaigns:     campaignRepo,
		Products:      productRepo,
		CampaignCache: campaignCache,
	})

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Mount("/", handler)

	// no WriteTimeout: /products/watch holds its response open
	srv := &http.Server{
		Addr:        ":8080",
		Handler:     r,
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	// graceful shutdown
	idleConnsClosed := make(chan struct{})
	go func() {
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt)
		<-c
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Error().Err(err).Msg("HTTP server shutdown")
		}
		close(idleConnsClosed)
	}()

	log.Info().Str("addr", srv.Addr).Msg("starting storefront")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("listen")
	}

	<-idleConnsClosed
	log.Info().Msg("server stopped")
}
