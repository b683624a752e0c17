package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mohammadpnp/rendimientos-admin/internal/bootstrap"
	"github.com/mohammadpnp/rendimientos-admin/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}
	logger := cfg.Logger(os.Stdout)

	db, pool, err := bootstrap.OpenDatabase(context.Background(), cfg)
	if err != nil {
		logger.WithError(err).Fatal("failed to open database")
	}
	defer pool.Close()

	server := bootstrap.NewHTTPServer(bootstrap.NewServices(cfg, db, pool, logger), cfg.Import.MaxUpload, logger)

	go func() {
		logger.WithField("addr", cfg.Address()).Info("http server listening")
		if err := server.Start(cfg.Address()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.WithError(err).Fatal("graceful shutdown failed")
	}
	logger.Info("server stopped")
}
