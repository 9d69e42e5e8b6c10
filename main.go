// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/danielhkuo/quickly-pick-rooms/cache"
	"github.com/danielhkuo/quickly-pick-rooms/cliparse"
	"github.com/danielhkuo/quickly-pick-rooms/db"
	"github.com/danielhkuo/quickly-pick-rooms/live"
	"github.com/danielhkuo/quickly-pick-rooms/metrics"
	"github.com/danielhkuo/quickly-pick-rooms/router"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		slog.Error("Server exited", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cliparse.LoadEnv(ctx, ".env")

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		return err
	}
	if cfg.InsecureSecret {
		slog.Warn("POLL_HASH_SECRET not set, using development secret")
	}

	dbConn, err := db.Open(ctx, cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer dbConn.Close()

	// Create schema (tables)
	if err := db.CreateSchema(dbConn); err != nil {
		return err
	}
	slog.Info("Database schema ready", "type", cfg.DatabaseType)

	var store db.Store = db.NewSQLStore(dbConn, cfg.DatabaseType)
	hub := live.NewHub()
	var broadcaster live.Broadcaster = hub

	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return err
		}
		client := redis.NewClient(opts)
		defer client.Close()

		if err := client.Ping(ctx).Err(); err != nil {
			return err
		}

		store = cache.NewCachedStore(store, cache.NewRedisRoomCache(client, cache.DefaultTTL))

		relay := live.NewRedisRelay(client, hub, live.DefaultChannel)
		go func() {
			if err := relay.Run(ctx); err != nil {
				slog.Error("live relay stopped", "error", err)
			}
		}()
		broadcaster = relay
		slog.Info("Redis enabled", "addr", opts.Addr)
	}

	metrics.MustRegister()

	// Create server
	server := &http.Server{
		Handler:           router.NewRouter(store, cfg, hub, broadcaster),
		Addr:              ":" + strconv.Itoa(cfg.Port),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("Shutdown failed", "error", err)
		}
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port)
	err = server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	slog.Info("Server closed")
	return nil
}
