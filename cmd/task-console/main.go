package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"tasklist/internal/config"
	"tasklist/internal/console"
	"tasklist/internal/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	logger.SetLevel(logger.ParseLevel(cfg.LogLevel))

	c := console.New(console.NewClient(cfg.APIURL, nil))
	// Первичная загрузка, как при открытии страницы
	c.Load(ctx)

	srv := &http.Server{
		Addr:    cfg.ConsoleAddr(),
		Handler: console.NewHandler(c),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info(ctx, "Консоль запущена", "port", cfg.ConsolePort, "api", cfg.APIURL)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error(ctx, err, "Ошибка HTTP-сервера консоли")
		os.Exit(1)
	}
}
