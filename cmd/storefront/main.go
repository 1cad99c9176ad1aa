// cmd/storefront/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/music-storefront/internal/config"
	"github.com/your-org/music-storefront/internal/domain/cart"
	"github.com/your-org/music-storefront/internal/domain/checkout"
	"github.com/your-org/music-storefront/internal/domain/identity"
	"github.com/your-org/music-storefront/internal/domain/order"
	"github.com/your-org/music-storefront/internal/domain/product"
	"github.com/your-org/music-storefront/internal/domain/session"
	"github.com/your-org/music-storefront/internal/domain/wishlist"
	"github.com/your-org/music-storefront/internal/infrastructure/database/postgres"
	"github.com/your-org/music-storefront/internal/infrastructure/database/redis"
	"github.com/your-org/music-storefront/internal/interfaces/http"
	"github.com/your-org/music-storefront/internal/interfaces/http/routes"
	"github.com/your-org/music-storefront/internal/pkg/apiclient"
	"github.com/your-org/music-storefront/internal/pkg/logger"
	"github.com/your-org/music-storefront/internal/pkg/pdf"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	log := logger.New(cfg)
	log.WithFields(logrus.Fields{
		"name":        cfg.App.Name,
		"version":     cfg.App.Version,
		"environment": cfg.App.Environment,
	}).Info("Starting storefront")

	// Connect to Redis
	redisClient, err := redis.NewConnection(cfg, log)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	checks := map[string]http.Pinger{"redis": redisClient}

	ctx, stopBackground := context.WithCancel(context.Background())
	defer stopBackground()

	// The checkout journal is optional; without a database checkout still works
	var journal checkout.Journal
	db, err := postgres.NewConnection(cfg, log)
	if err != nil {
		log.WithError(err).Warn("Database unavailable, checkout journal disabled")
	} else {
		defer db.Close()

		migration := postgres.NewMigration(db.GetDB(), log)
		if err := migration.RunAutoMigrations(); err != nil {
			log.Fatalf("Database migration failed: %v", err)
		}
		if err := migration.CreateIndexes(); err != nil {
			log.Warnf("Index creation failed: %v", err)
		}

		journal = checkout.NewGormJournal(db.GetDB())
		checks["database"] = db

		if days := cfg.Database.AttemptRetentionDays; days > 0 {
			go migration.RunAttemptCleanup(ctx, cfg.Database.CleanupInterval, days)
		}
	}

	// Store client and domain services
	client := apiclient.NewClient(cfg, log)
	sessions := session.NewStore(redisClient.GetClient(), cfg)
	mirror := cart.NewRedisMirror(redisClient.GetClient(), sessions.TTL())
	cartService := cart.NewService(client, mirror, log)

	deps := routes.Dependencies{
		Config:   cfg,
		Logger:   log,
		Sessions: sessions,
		Identity: identity.NewService(sessions, mirror, client, log),
		Cart:     cartService,
		Checkout: checkout.NewService(client, cartService, journal, log),
		Orders:   order.NewService(client, log),
		Products: product.NewService(client, log),
		Wishlist: wishlist.NewService(client, cartService, log),
		Invoices: pdf.NewService(cfg),
	}

	server := http.NewServer(cfg, log, redisClient.GetClient(), deps, checks)

	go func() {
		if err := server.Start(); err != nil {
			log.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down gracefully")
	stopBackground()

	// Give server 30 seconds to shutdown gracefully
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Stop(shutdownCtx); err != nil {
		log.WithError(err).Error("Failed to shutdown HTTP server gracefully")
	}

	log.Info("Server shutdown completed")
}
