package main

import (
	"context"
	stderrors "errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"taskmanager/internal/logging"
	"taskmanager/internal/server"
	"taskmanager/repository"
	"time"

	"github.com/sirupsen/logrus"
)

const shutdownTimeout = 30 * time.Second

func main() {
	cfg, err := server.ReadConfig(os.Args[1:])
	if err != nil {
		os.Exit(2)
	}

	logger := logging.New(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile})
	logConfigWarnings(logger, cfg)

	if err := run(cfg, logger, shutdownSignals()); err != nil {
		logger.WithField("event", "SERVICE_FAILED").Fatalf("task service stopped: %v", err)
	}
	logger.WithField("event", "SERVICE_STOPPED").Info("task service stopped")
}

func logConfigWarnings(logger *logrus.Logger, cfg *server.Config) {
	for _, w := range cfg.Warnings {
		logger.WithField("event", "CONFIG_WARNING").Warn(w)
	}
}

func shutdownSignals() <-chan os.Signal {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	return sigChan
}

// run serves until a signal arrives on stop or the listener fails.
func run(cfg *server.Config, logger *logrus.Logger, stop <-chan os.Signal) error {
	logger.WithFields(logrus.Fields{"event": "SERVICE_STARTING", "store": cfg.Store}).Info("starting task service")

	store, err := repository.OpenGuarded(cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	api := server.NewTaskAPI(store, store, cfg, logger)

	serverErr := make(chan error, 1)
	go func() {
		if err := api.Start(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case sig := <-stop:
		logger.WithFields(logrus.Fields{"event": "SHUTDOWN_STARTED", "signal": sig.String()}).Info("graceful shutdown")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := api.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	case err := <-serverErr:
		return err
	}
}
