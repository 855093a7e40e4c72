package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shopbridge/internal/config"
	httpx "shopbridge/internal/http"
	"shopbridge/internal/platform"
	"shopbridge/internal/services/branding"
	"shopbridge/internal/services/compliance"
	"shopbridge/internal/services/install"
	"shopbridge/internal/store/postgres"
	"shopbridge/internal/store/redisstore"

	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init stores
	pool := postgres.MustOpen(ctx, cfg.DB.DSN)
	defer pool.Close()
	rdb := redisstore.MustOpen(ctx, cfg.Redis.Addr)
	defer rdb.Close()

	credRepo := postgres.NewCredentialRepository(pool)
	brandingRepo := postgres.NewBrandingRepository(pool)
	cartRepo := postgres.NewCartRepository(pool)
	auditRepo := postgres.NewAuditRepository(pool)
	stateRepo := redisstore.NewStateRepository(rdb)

	// Platform API client
	api := platform.NewClient(cfg.Shopify, cfg.HTTP.Timeout)

	// Services
	installSvc := install.NewService(cfg, api, credRepo, stateRepo)
	brandingSvc := branding.NewService(brandingRepo)
	complianceSvc := compliance.NewService(credRepo, brandingRepo, cartRepo, auditRepo)

	// Router
	r := httpx.NewRouter(httpx.RouterDependencies{
		Config:            cfg,
		InstallService:    installSvc,
		BrandingService:   brandingSvc,
		ComplianceService: complianceSvc,
		CartRepo:          cartRepo,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info().Msgf("ShopBridge API listening on :%s", cfg.App.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	cancel()
	ctx2, cancel2 := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	log.Info().Msg("server stopped")
}
