// Package main is the entry point for the freight-rate HTTP server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"freight-rate/api"
	"freight-rate/core/cache"
	"freight-rate/core/nmfc"
	"freight-rate/core/rating"
	"freight-rate/core/types"
	"freight-rate/core/zone"
	"freight-rate/db/loader"
	"freight-rate/internal/config"
	"freight-rate/internal/logging"
)

const version = "0.1.0"

func main() {
	cfgFile := flag.String("config", "", "config file path")
	addr := flag.String("addr", "", "listen address (overrides config)")
	documents := flag.String("documents", "", "carrier rate document directory (overrides config)")
	flag.Parse()

	if *cfgFile != "" {
		cfg, err := config.Load(*cfgFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
		config.Set(cfg)
	}
	cfg := config.Get()

	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
	}
	defer logging.Sync()

	dir := cfg.Rating.DocumentDir
	if *documents != "" {
		dir = *documents
	}
	store, err := loader.LoadDir(dir)
	if err != nil {
		logging.Error("failed to load rate documents", zap.String("dir", dir), zap.Error(err))
		os.Exit(1)
	}

	zones := cache.New("zones", cfg.Cache.Zones.MaxSize,
		time.Duration(cfg.Cache.Zones.TTLSeconds)*time.Second)
	rates := cache.New("rates", cfg.Cache.Rates.MaxSize,
		time.Duration(cfg.Cache.Rates.TTLSeconds)*time.Second)
	carriers := cache.New("carrier_configs", cfg.Cache.CarrierConfigs.MaxSize,
		time.Duration(cfg.Cache.CarrierConfigs.TTLSeconds)*time.Second)

	engine := rating.NewEngine(rating.EngineParams{
		Store:           store,
		Registry:        rating.DefaultRegistry(store, nmfc.NewResolver(store), cfg.Rating.SkidFootprintSqIn),
		Zones:           zone.NewResolver(store, zones),
		RateCache:       rates,
		CarrierCache:    carriers,
		DefaultCurrency: types.Currency(cfg.Rating.DefaultCurrency),
	})

	listen := cfg.Server.Addr
	if *addr != "" {
		listen = *addr
	}
	srv := &http.Server{
		Addr:    listen,
		Handler: api.NewServer(engine, version),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logging.Info("server listening",
			zap.String("addr", listen),
			zap.String("documents", dir),
			zap.String("version", version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error("server failed", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error("shutdown failed", zap.Error(err))
	}
	logging.Info("server stopped")
}
