package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"deasciifier/internal/config"
	"deasciifier/internal/customdict"
	"deasciifier/internal/engine"
	"deasciifier/internal/logging"
	"deasciifier/internal/server"
)

func main() {
	configPath := flag.String("config", getenv("DEASCIIFIER_CONFIG", "deasciifier.toml"), "config file (TOML, YAML or JSON)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	logger := logging.New(cfg.Logging(), os.Stderr)

	eng, err := engine.New(cfg, logger)
	if err != nil {
		log.Fatalf("init error: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var store server.Store = server.NewMemoryStore()
	if cfg.Redis.Enabled {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer client.Close()
		dict := customdict.New(client, cfg.Redis.Key)
		if err := dict.Ping(ctx); err != nil {
			log.Fatalf("redis %s: %v", cfg.Redis.Addr, err)
		}
		store = dict
	}

	srv := server.New(eng.Processor, eng.Corrections, eng.Generated, store, logger)
	if err := srv.Reload(ctx); err != nil {
		log.Fatalf("load custom corrections: %v", err)
	}

	httpServer := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	logger.Info("listening", "addr", cfg.HTTP.Addr, "redis", cfg.Redis.Enabled)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}

func getenv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}
