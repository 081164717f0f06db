// Command server runs the Rook game service: HTTP token and room endpoints
// plus one websocket per connected player.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jason-s-yu/rook/service/internal/auth"
	"github.com/jason-s-yu/rook/service/internal/cache"
	"github.com/jason-s-yu/rook/service/internal/config"
	"github.com/jason-s-yu/rook/service/internal/database"
	"github.com/jason-s-yu/rook/service/internal/game"
	"github.com/jason-s-yu/rook/service/internal/lobby"
	"github.com/jason-s-yu/rook/service/internal/logging"
	"github.com/jason-s-yu/rook/service/internal/server"
	"github.com/sirupsen/logrus"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Loading config")
	}
	logger, err := logging.Setup(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		logrus.WithError(err).Fatal("Configuring logger")
	}
	log := logrus.NewEntry(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	connectStores(ctx, cfg, log)
	defer cache.Close()
	defer database.Close()

	registry := game.NewRegistry(log)
	rooms := lobby.New(registry, cfg.Settings(), log)
	srv := server.New(rooms, registry, auth.NewIssuer(cfg.JWTSecret, 0), log)

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithField("port", cfg.Port).Info("Listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("HTTP server failed")
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("Graceful shutdown failed")
	}
}

// connectStores attaches Redis and Postgres when configured. Either may be
// missing; the service then runs without that side channel.
func connectStores(ctx context.Context, cfg config.Config, log *logrus.Entry) {
	if cfg.RedisAddr != "" {
		cache.HistorianStream = cfg.HistorianStream
		if err := cache.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB); err != nil {
			log.WithError(err).Warn("Redis unavailable, action history disabled")
		} else {
			log.WithField("addr", cfg.RedisAddr).Info("Connected to Redis")
		}
	}
	if cfg.DatabaseURL != "" {
		if err := database.Connect(ctx, cfg.DatabaseURL); err != nil {
			log.WithError(err).Warn("Postgres unavailable, results will not be stored")
		} else {
			log.Info("Connected to Postgres")
		}
	}
}
