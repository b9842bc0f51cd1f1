package main

import (
	"context"
	"database/sql"
	"errors"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/rl1809/stockpile/internal/adapter/handler"
	"github.com/rl1809/stockpile/internal/adapter/storage"
	"github.com/rl1809/stockpile/internal/config"
	"github.com/rl1809/stockpile/internal/core/service"
	"github.com/rl1809/stockpile/internal/logging"
	"github.com/rl1809/stockpile/internal/port"
)

func main() {
	cfg := config.New()

	logger, err := logging.New(cfg.AppEnv)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Snapshot backend: Redis when configured, flat file otherwise.
	var snapshot port.SnapshotRepository
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Fatal("failed to connect redis", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		}
		defer rdb.Close()
		snapshot = storage.NewRedisAdapter(rdb)
		logger.Info("using redis snapshot backend", zap.String("addr", cfg.RedisAddr))
	} else {
		snapshot = storage.NewFileAdapter(cfg.SnapshotPath)
		logger.Info("using file snapshot backend", zap.String("path", cfg.SnapshotPath))
	}

	// Optional durable journal.
	var journal port.JournalRepository
	if cfg.MySQLDSN != "" {
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			logger.Fatal("failed to open mysql", zap.Error(err))
		}
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)
		if err := db.PingContext(ctx); err != nil {
			logger.Fatal("failed to ping mysql", zap.Error(err))
		}
		defer db.Close()

		mysqlAdapter := storage.NewMySQLAdapter(db)
		if err := mysqlAdapter.EnsureSchema(ctx); err != nil {
			logger.Fatal("failed to ensure mysql schema", zap.Error(err))
		}
		journal = mysqlAdapter
		logger.Info("journaling operations to mysql")
	}

	inventory := service.NewInventoryService(snapshot, journal, logger)

	if err := inventory.Load(ctx); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Warn("snapshot not found, starting empty", zap.String("path", cfg.SnapshotPath))
		} else {
			logger.Fatal("failed to load snapshot", zap.Error(err))
		}
	}

	mux := http.NewServeMux()
	handler.NewHTTPHandler(inventory, journal, cfg.LowThreshold).Register(mux)

	httpServer := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: mux,
	}

	go func() {
		logger.Info("HTTP server listening", zap.String("addr", cfg.HTTPAddr))
		if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("HTTP server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	httpServer.Shutdown(shutdownCtx)
	logger.Info("HTTP server stopped")

	// No requests in flight past this point; persist the final state.
	if err := inventory.Save(shutdownCtx); err != nil {
		logger.Error("failed to save snapshot on shutdown", zap.Error(err))
	}
}
