package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"github.com/suspectgrid/suspect-server-go/internal/config"
	"github.com/suspectgrid/suspect-server-go/internal/repository"
	"github.com/suspectgrid/suspect-server-go/internal/server"
	"github.com/suspectgrid/suspect-server-go/internal/session"
)

const shutdownTimeout = 10 * time.Second

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

	logger.Info("starting suspect server",
		zap.String("version", version),
		zap.String("config", *configPath),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server stopped with error", zap.Error(err))
		os.Exit(1)
	}
	logger.Info("suspect server stopped")
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	sessions := session.NewManager(session.Options{
		CodeLength:      cfg.Game.CodeLength,
		MinPlayers:      cfg.Game.MinPlayers,
		MaxPlayers:      cfg.Game.MaxPlayers,
		CompactionDelay: cfg.Game.CompactionDelay,
	}, logger)
	logger.Info("session manager initialized",
		zap.Int("min_players", cfg.Game.MinPlayers),
		zap.Int("max_players", cfg.Game.MaxPlayers),
		zap.Duration("compaction_delay", cfg.Game.CompactionDelay),
	)

	var results *repository.ResultRepository
	db, err := repository.NewDB(ctx, cfg.Database, logger)
	switch {
	case errors.Is(err, repository.ErrDisabled):
		logger.Info("database not configured; match results will not be recorded")
	case err != nil:
		return fmt.Errorf("connect to database: %w", err)
	default:
		defer db.Close()
		stats := db.Stats()
		logger.Info("database connection pool initialized",
			zap.Int32("total_conns", stats.TotalConns()),
			zap.Int32("max_conns", stats.MaxConns()),
		)
		results = repository.NewResultRepository(db)
		sessions.SetRecorder(results)
	}

	hub := server.NewHub(sessions, cfg.Server.WebSocket, logger)
	if results != nil {
		hub.SetResults(results)
	}
	httpServer := &http.Server{
		Addr:              cfg.Server.WebSocket.Address,
		Handler:           hub.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	var health *server.HealthServer
	var grpcListener net.Listener
	if cfg.Server.GRPC.Enabled {
		grpcListener, err = net.Listen("tcp", cfg.Server.GRPC.Address)
		if err != nil {
			return fmt.Errorf("listen on %s: %w", cfg.Server.GRPC.Address, err)
		}
		health = server.NewHealthServer(logger)
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting WebSocket server", zap.String("address", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("websocket server: %w", err)
		}
		return nil
	})

	if health != nil {
		g.Go(func() error {
			if err := health.Serve(grpcListener); err != nil {
				return fmt.Errorf("grpc server: %w", err)
			}
			return nil
		})
	}

	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down gracefully...")

		if health != nil {
			health.Stop()
		}
		hub.CloseAll("server shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err := httpServer.Shutdown(shutdownCtx)

		sessions.CloseAll()
		sessions.Wait()
		return err
	})

	logger.Info("suspect server initialized",
		zap.String("version", version),
		zap.String("websocket_address", cfg.Server.WebSocket.Address),
		zap.String("grpc_address", cfg.Server.GRPC.Address),
		zap.Bool("grpc_enabled", cfg.Server.GRPC.Enabled),
	)

	return g.Wait()
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
