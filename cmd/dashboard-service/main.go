package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/LavaJover/shvark-dashboard-service/internal/app/setup"
	"github.com/LavaJover/shvark-dashboard-service/internal/config"
	"github.com/LavaJover/shvark-dashboard-service/internal/infrastructure/logger"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("failed to load .env")
	}
	// Reading config
	cfg := config.MustLoad()
	zl := logger.MustNew(cfg.Env, cfg.LogConfig)
	defer func() { _ = zl.Sync() }()

	deps, err := setup.InitializeDependencies(cfg, zl)
	if err != nil {
		zl.Fatal("failed to initialize dependencies", zap.Error(err))
	}
	ucs := setup.InitializeUseCases(deps)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	httpServer := setup.InitializeHTTPServer(deps, ucs)
	grpcServer := setup.InitializeGRPCServer(deps)
	tasks := setup.InitializeBackgroundTasks(deps, ucs)

	lis, err := net.Listen("tcp", cfg.GRPCServer.Addr())
	if err != nil {
		zl.Fatal("failed to listen", zap.String("addr", cfg.GRPCServer.Addr()), zap.Error(err))
	}

	go func() {
		zl.Info("gRPC server started", zap.String("addr", cfg.GRPCServer.Addr()))
		if err := grpcServer.Serve(lis); err != nil {
			zl.Error("gRPC server stopped", zap.Error(err))
			stop()
		}
	}()

	go func() {
		zl.Info("HTTP server started", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Error("HTTP server stopped", zap.Error(err))
			stop()
		}
	}()

	tasks.StartAll(ctx)

	<-ctx.Done()
	zl.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	deps.Health.Shutdown()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zl.Warn("HTTP shutdown", zap.Error(err))
	}
	grpcServer.GracefulStop()

	tasks.Wait()
	ucs.RateCache.Wait()

	if err := deps.Close(); err != nil {
		zl.Warn("failed to release dependencies", zap.Error(err))
	}
	zl.Info("stopped")
}
