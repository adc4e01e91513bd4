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

	"github.com/wildjack/wildjack-server/internal/broadcast"
	"github.com/wildjack/wildjack-server/internal/config"
	"github.com/wildjack/wildjack-server/internal/game"
	"github.com/wildjack/wildjack-server/internal/repository"
	"github.com/wildjack/wildjack-server/internal/repository/migrations"
	"github.com/wildjack/wildjack-server/internal/server"
	"github.com/wildjack/wildjack-server/internal/store"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	configPath = flag.String("config", "config/config.yaml", "path to configuration file")
	version    = "dev" // set via ldflags during build
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := initLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting wildjack server",
		zap.String("version", version),
		zap.String("config", *configPath),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// The archive store is optional: without a database URL finished games
	// are only dropped from the live registry.
	var archive game.Archiver
	if cfg.Database.URL != "" {
		if err := migrations.Migrate(cfg.Database.URL); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
		db, err := repository.NewDB(ctx, cfg.Database, logger)
		if err != nil {
			logger.Fatal("failed to connect to database", zap.Error(err))
		}
		defer db.Close()

		stats := db.Stats()
		logger.Info("database connection pool initialized",
			zap.Int32("total_conns", stats.TotalConns()),
			zap.Int32("idle_conns", stats.IdleConns()),
		)
		archive = repository.NewFinishedGameRepository(db)
	} else {
		logger.Warn("database not configured; finished games will not be archived")
	}

	// The mirror is optional too: without Redis the registry is purely
	// in-memory and games do not survive an instance restart.
	var mirror game.Mirror
	if cfg.Redis.Address != "" {
		redisMirror, err := store.NewRedisMirror(ctx, cfg.Redis, logger)
		if err != nil {
			logger.Fatal("failed to connect to redis", zap.Error(err))
		}
		defer redisMirror.Close()
		mirror = redisMirror
		logger.Info("redis mirror initialized", zap.String("address", cfg.Redis.Address))
	} else {
		logger.Warn("redis not configured; games are in-memory only")
	}

	gameMgr := game.NewManager(mirror, archive, logger)
	logger.Info("game manager initialized")

	hub := broadcast.NewHub(logger)

	srv := server.NewServer(gameMgr, hub, logger)

	sweeper := server.NewSweeper(gameMgr, hub, cfg.Sweep.Interval, logger)
	go sweeper.Run(ctx)
	logger.Info("timeout sweeper started", zap.Duration("interval", cfg.Sweep.Interval))

	httpServer := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: srv.Router(),
	}

	go func() {
		logger.Info("starting HTTP server", zap.String("address", cfg.Server.Address))
		if serveErr := httpServer.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			logger.Error("HTTP server error", zap.Error(serveErr))
		}
	}()

	logger.Info("wildjack server initialized",
		zap.String("version", version),
		zap.String("address", cfg.Server.Address),
	)

	sig := <-sigChan
	logger.Info("received shutdown signal", zap.String("signal", sig.String()))

	logger.Info("shutting down gracefully...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", zap.Error(err))
	}

	logger.Info("wildjack server stopped")
}

// initLogger initializes the zap logger based on configuration
func initLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	switch cfg.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "info":
		level = zapcore.InfoLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
