package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/avendall/stockfolio/internal/adapter/httpapi"
	"github.com/avendall/stockfolio/internal/adapter/pricing"
	"github.com/avendall/stockfolio/internal/adapter/repository/memstore"
	"github.com/avendall/stockfolio/internal/adapter/repository/sqlstore"
	"github.com/avendall/stockfolio/internal/config"
	"github.com/avendall/stockfolio/internal/domain"
	"github.com/avendall/stockfolio/internal/usecase/portfolio"
	"github.com/avendall/stockfolio/pkg/logger"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		fallback := logger.New(logger.Config{Level: "info", Pretty: true})
		fallback.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Pretty: cfg.DevMode})

	// 2. Open the ledger store
	var ledger domain.Ledger
	switch cfg.DBDriver {
	case "memory":
		ledger = memstore.New()
		log.Warn().Msg("using in-memory ledger, state is lost on exit")
	default:
		store, err := sqlstore.Open(sqlstore.Config{Driver: cfg.DBDriver, DSN: cfg.DBConnStr}, log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to open ledger store")
		}
		defer store.Close()
		ledger = store
	}

	// 3. Wire the price source and the engine
	var prices domain.PriceSource = pricing.NewYahooSource(log)
	if cfg.PriceSource == "static" {
		prices = pricing.NewStaticSource(nil)
	}
	service := portfolio.NewService(ledger, prices, log)

	// 4. Start the HTTP server
	server := httpapi.New(httpapi.Config{
		Log:     log,
		Port:    cfg.Port,
		Service: service,
	})

	go func() {
		if err := server.Start(); err != nil {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)
	sig := <-sigChan
	log.Info().Str("signal", sig.String()).Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("shutdown failed")
	}
}
