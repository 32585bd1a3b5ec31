package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"tasklist/internal/config"
	"tasklist/internal/logger"
	"tasklist/internal/manager"
	"tasklist/internal/models"
	"tasklist/internal/server"
	"tasklist/internal/storage"
)

func main() {
	if err := run(); err != nil {
		logger.Error(context.Background(), err, "Сервис задач остановлен с ошибкой")
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	logger.SetLevel(logger.ParseLevel(cfg.LogLevel))

	st, err := newStorage(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	tm := manager.NewTaskManagerWithStorage(st)

	srv := &http.Server{
		Addr:    cfg.Addr(),
		Handler: server.NewRouter(tm),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error(shutdownCtx, err, "Ошибка остановки HTTP-сервера")
		}
	}()

	logger.Info(ctx, "Сервер запущен", "port", cfg.Port, "env", cfg.Env, "storage", cfg.Storage)
	logger.Info(ctx, fmt.Sprintf("API доступен по адресу http://localhost:%d", cfg.Port))

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	logger.Info(context.Background(), "Сервер остановлен")
	return nil
}

func newStorage(ctx context.Context, cfg *config.Config) (storage.Storage, error) {
	switch cfg.Storage {
	case config.StorageMemory:
		return storage.NewMemoryStorage(models.SeedTasks()...), nil
	case config.StorageSQLite:
		st, err := storage.NewSQLiteStorage(ctx, cfg.SQLiteDSN, models.SeedTasks()...)
		if err != nil {
			return nil, fmt.Errorf("ошибка инициализации SQLite хранилища: %w", err)
		}
		logger.Info(ctx, "SQLite хранилище успешно инициализировано", "dsn", cfg.SQLiteDSN)
		return st, nil
	default:
		return nil, fmt.Errorf("неизвестный тип хранилища %q (memory|sqlite)", cfg.Storage)
	}
}
