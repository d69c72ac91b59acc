// README: Entry point; loads config, wires the dialog machine and its
// dependencies, starts the HTTP server and background maintenance.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"farelink/internal/config"
	"farelink/internal/dates"
	"farelink/internal/dialog"
	"farelink/internal/flights"
	httptransport "farelink/internal/http"
	"farelink/internal/infra"
	"farelink/internal/logging"
	"farelink/internal/memory"
	"farelink/internal/nlu"
	"farelink/internal/quota"
	"farelink/internal/search"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	production := cfg.Env == "production"
	logger, err := logging.New(production)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loc, err := time.LoadLocation(cfg.Dialog.Timezone)
	if err != nil {
		logger.Fatal("invalid timezone", zap.String("timezone", cfg.Dialog.Timezone), zap.Error(err))
	}

	if cfg.GeminiKey == "" {
		logger.Fatal("GEMINI_API_KEY is required")
	}
	extractor, err := nlu.NewGeminiExtractor(ctx, cfg.GeminiKey)
	if err != nil {
		logger.Fatal("gemini init", zap.Error(err))
	}
	defer extractor.Close()

	redisClient := infra.NewRedis(cfg.RedisAddr)

	// the database pool is only needed for the postgres memory backend
	// and for NLU usage metering
	var store memory.Store
	var limiter *quota.Service
	switch cfg.Memory.Backend {
	case "postgres":
		dbPool, err := infra.NewDB(ctx, cfg.PostgresDSN)
		if err != nil {
			logger.Fatal("postgres init", zap.Error(err))
		}
		defer dbPool.Close()
		pgStore := memory.NewPostgresStore(dbPool, cfg.Memory.Retention())
		if err := pgStore.EnsureSchema(ctx); err != nil {
			logger.Fatal("postgres schema", zap.Error(err))
		}
		go runReaper(ctx, pgStore, logger)
		store = pgStore

		quotaStore := quota.NewStore(dbPool)
		if err := quotaStore.EnsureSchema(ctx); err != nil {
			logger.Fatal("quota schema", zap.Error(err))
		}
		limiter = quota.NewService(quotaStore)
	default:
		store, err = memory.NewStore(cfg.Memory, redisClient, nil)
		if err != nil {
			logger.Fatal("memory init", zap.Error(err))
		}
	}

	gateway := flights.NewGateway(cfg.Upstream, logger)
	strategy := search.NewStrategy(gateway, cfg.Search, logger)
	machine := dialog.NewMachine(store, extractor, dates.NewResolver(loc), strategy, cfg.Dialog, logger)
	if limiter != nil {
		machine.WithLimiter(limiter)
	}

	handler := httptransport.NewServer(httptransport.ServerDeps{
		Dialog:     machine,
		APIKey:     cfg.APIKey,
		RatePerSec: cfg.Search.RatePerSecond,
		Production: production,
		Log:        logger,
	})

	server := &http.Server{Addr: cfg.HTTPAddr, Handler: handler.Routes()}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Warn("shutdown", zap.Error(err))
		}
	}()

	logger.Info("listening", zap.String("addr", cfg.HTTPAddr), zap.String("env", cfg.Env))
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server", zap.Error(err))
	}
}

// runReaper deletes expired conversations once an hour.
func runReaper(ctx context.Context, store *memory.PostgresStore, logger *zap.Logger) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := store.ReapExpired(ctx)
			if err != nil {
				logger.Warn("reaping expired conversations", zap.Error(err))
				continue
			}
			if n > 0 {
				logger.Info("reaped expired conversations", zap.Int64("count", n))
			}
		}
	}
}
