package main

import (
	"alumni-chat/auth"
	"alumni-chat/infrastructure/grpc/chatapi"
	"alumni-chat/infrastructure/grpc/server"
	"alumni-chat/infrastructure/storage"
	"alumni-chat/internal"
	"alumni-chat/observability"
	"alumni-chat/runtime"
	"alumni-chat/services"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/database"
	"github.com/mama165/sdk-go/logs"
	"google.golang.org/grpc"

	grpc3 "github.com/mama165/sdk-go/grpc"
)

// Exit codes to provide meaningful status to the operating system or service manager (e.g., systemd).
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

const shutdownTimeout = 5 * time.Second

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Server terminated with error: %v\n", err)
	}
	os.Exit(code)
}

// run wires every component and blocks until a signal or a server failure.
// Deferred cleanups run before the exit code reaches main.
func run() (int, error) {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}

	logger := logs.GetLoggerFromString(config.LogLevel)
	ctx := context.Background()

	// 2. Database (BadgerDB)
	db, err := badger.Open(buildBadgerOpts(config, logger, ctx))
	if err != nil {
		return exitRuntime, fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		logger.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	if logger.Enabled(ctx, slog.LevelDebug) {
		endpoint := "/inspect"
		logger.Info("Debug Badger inspector available", "url", fmt.Sprintf("http://localhost:%d%s", config.DebugPort, endpoint))
		database.StartDebugServer(db, config.DebugPort, endpoint, inspectMapper)
	}

	// 3. Engine
	registry := runtime.NewRegistry(logger)
	chatRepository := storage.NewChatRepository(db, logger, storage.NewServerClock(), registry)
	profileRepository := storage.NewProfileRepository(db)

	profileService, err := services.NewProfileService(logger, profileRepository, registry,
		config.ProfileCacheSize, config.ProfileCacheTTL)
	if err != nil {
		return exitConfig, err
	}
	defer profileService.Close()
	chatService := services.NewChatService(logger, registry, chatRepository, profileService)

	// 4. Context & Signals
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errChan := make(chan error, 2)

	// 5. gRPC Server Setup
	address := fmt.Sprintf("%s:%d", config.Host, config.Port)
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return exitRuntime, fmt.Errorf("failed to listen on %s: %w", address, err)
	}

	interceptor := auth.NewInterceptor(auth.NewTokenManager(config.JWTSecret, config.AuthTokenDuration), server.PublicMethods...)
	s := grpc.NewServer(
		grpc.ForceServerCodec(chatapi.Codec{}),
		grpc.ChainUnaryInterceptor(
			grpc3.UnaryLoggingInterceptor(logger),
			interceptor.Unary(),
		),
		grpc.ChainStreamInterceptor(interceptor.Stream()),
	)
	chatServer := server.NewChatServer(logger, chatService, profileService, config.ConnectionBufferSize)
	chatapi.RegisterChatServiceServer(s, chatServer)

	go func() {
		logger.Info("Starting gRPC server", "address", address, "at", time.Now().UTC())
		for serviceName := range s.GetServiceInfo() {
			logger.Debug("📡 gRPC exposed services", "name", serviceName)
		}
		if err := s.Serve(listener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			errChan <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()

	// 6. Ops HTTP (health & metrics)
	opsServer := &http.Server{
		Addr: fmt.Sprintf("%s:%d", config.Host, config.HTTPPort),
		Handler: observability.NewOpsRouter(func() error {
			return db.View(func(*badger.Txn) error { return nil })
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info("Starting ops HTTP server", "address", opsServer.Addr)
		if err := opsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("ops server error: %w", err)
		}
	}()

	// 7. Wait for Stop or Error
	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case err := <-errChan:
		s.Stop()
		return exitRuntime, err
	}

	// 8. Graceful Shutdown: live streams end with the client contexts.
	logger.Info("Shutting down gracefully...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	_ = opsServer.Shutdown(shutdownCtx)
	stopGRPC(s, shutdownCtx)
	logger.Info("Program stopped cleanly")

	return exitOK, nil
}

// stopGRPC waits for in-flight calls, then cuts the open subscription
// streams once the deadline is reached.
func stopGRPC(s *grpc.Server, ctx context.Context) {
	done := make(chan struct{})
	go func() {
		s.GracefulStop()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		s.Stop()
	}
}

func buildBadgerOpts(config internal.Config, logger *slog.Logger, ctx context.Context) badger.Options {
	options := badger.DefaultOptions(config.BadgerFilepath)

	if logger.Enabled(ctx, slog.LevelDebug) {
		options = options.WithLoggingLevel(badger.DEBUG).
			WithBypassLockGuard(true)
	} else {
		options = options.WithLoggingLevel(badger.INFO)
	}

	return options
}

func inspectMapper(key string, val []byte) database.InspectRow {
	row := database.DefaultMapper(key, val)
	chatRow := internal.ChatMapper(key, val)
	row.Type = chatRow.Type
	row.Detail = chatRow.Detail
	return row
}
