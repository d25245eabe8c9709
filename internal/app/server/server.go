package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"smartbanner/internal/api"
	"smartbanner/internal/catalog"
	"smartbanner/internal/config"
	"smartbanner/internal/listener"
	"smartbanner/internal/storage"
	"smartbanner/internal/suppression"
)

func Run(cfg config.Config) {
	rootCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Page catalog
	cat := catalog.New()
	if cfg.PostgresEnabled() {
		store, err := storage.New(rootCtx, cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("init storage")
		}
		defer store.Close()

		if err := cat.BuildSnapshot(rootCtx, store); err != nil {
			log.Fatal().Err(err).Msg("initial catalog build")
		}
		// Listener (LISTEN/NOTIFY)
		go listener.ListenAndRefresh(rootCtx, store, cat, cfg.Listener.Channel, cfg.Backoff())
	} else if err := cat.BuildSnapshot(rootCtx, StaticPages(cfg.Pages)); err != nil {
		log.Fatal().Err(err).Msg("initial catalog build")
	}

	// Suppression
	stores, closeStores := suppressionStores(rootCtx, cfg)
	defer closeStores()

	// HTTP
	h := api.NewBannerHandler(cat, stores, cfg.Banners)
	r := api.Router(h, cfg.Server.AllowedOrigins)

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 3 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Server goroutine
	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Int("banners", len(cfg.Banners)).Msg("http server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server crashed")
		}
	}()

	// Wait for signal
	waitForSignal()
	log.Info().Msg("shutdown...")

	// Graceful shutdown
	shCtx, shCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shCancel()
	cancel() // stop background goroutines
	_ = srv.Shutdown(shCtx)
}

// StaticPages turns configured page entries into catalog rows.
func StaticPages(pages []config.PageEntry) storage.StaticLoader {
	rows := make(storage.StaticLoader, 0, len(pages))
	for _, p := range pages {
		rows = append(rows, storage.MetaRow{Site: p.Site, Kind: p.Kind, Name: p.Name, Value: p.Value})
	}
	return rows
}

func suppressionStores(ctx context.Context, cfg config.Config) (api.StoreFactory, func()) {
	if cfg.Suppression.Backend != "redis" {
		return api.CookieStores{}, func() {}
	}
	rc := cfg.Suppression.Redis
	client, err := suppression.NewRedisClient(ctx, rc.Addr, rc.Password, rc.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("init redis")
	}
	log.Info().Str("addr", rc.Addr).Msg("suppression flags stored in redis")
	return api.RedisStores{Client: client}, func() { _ = client.Close() }
}

func waitForSignal() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c
}
