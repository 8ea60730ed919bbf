package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"guildbanner/internal/assets"
	"guildbanner/internal/banner"
	"guildbanner/internal/config"
	"guildbanner/internal/httpserver"
	"guildbanner/internal/logging"
	"guildbanner/internal/upstream"
)

func main() {
	cfg := config.Load()
	log := logging.New(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "err", err)
		os.Exit(1)
	}

	limiter := upstream.NewRateLimiter(cfg.ProviderRPS)
	defer limiter.Close()

	client := upstream.NewClient(upstream.ClientOptions{
		BaseURL:  cfg.ProviderURL,
		Email:    cfg.ProviderEmail,
		Password: cfg.ProviderPassword,
		Timeout:  cfg.FetchTimeout,
		Limiter:  limiter,
		Logger:   log,
	})
	resolver := assets.NewResolver(cfg.AssetPaths)
	svc := banner.New(client, resolver, cfg.DefaultTheme, log)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httpserver.New(svc, log),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       90 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info("listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", "err", err)
	}
}
