package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Dan9191/card-ledger/internal/config"
	"github.com/Dan9191/card-ledger/internal/handler"
	"github.com/Dan9191/card-ledger/internal/integrations/rates"
	"github.com/Dan9191/card-ledger/internal/repository"
	"github.com/Dan9191/card-ledger/internal/seed"
	"github.com/Dan9191/card-ledger/internal/service"
	"github.com/sirupsen/logrus"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logLevel, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	// Initialize layers
	repo := repository.NewRepository()
	svc := service.NewService(repo, logger, cfg)
	h := handler.NewHandler(svc, cfg, logger)

	// Currency rates
	var refresher *rates.Refresher
	if cfg.RatesSource != "" {
		ratesClient := rates.NewClient(cfg, logger)
		refresher = rates.NewRefresher(ratesClient, svc.SetRates, logger)
		if err := refresher.Refresh(); err != nil {
			logger.Fatalf("Failed to load currency rates: %v", err)
		}
		if cfg.RatesRefresh != "" {
			if err := refresher.Start(cfg.RatesRefresh); err != nil {
				logger.Fatalf("Failed to schedule rate refresh: %v", err)
			}
		}
	}

	if cfg.SeedDemo {
		if _, err := seed.Load(context.Background(), svc, logger); err != nil {
			logger.Fatalf("Failed to load demo data: %v", err)
		}
	}

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      h.Router(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		logger.Fatalf("Failed to listen on %s: %v", addr, err)
	}
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	logger.Infof("Starting server on %s", addr)
	if err := serve(server, ln, stop, refresher, logger); err != nil {
		logger.Fatalf("Server failed: %v", err)
	}
	logger.Info("Server stopped")
}

// serve runs server on ln until stop fires, then stops the rate refresher and
// returns once in-flight requests have drained or the shutdown timed out
func serve(server *http.Server, ln net.Listener, stop <-chan os.Signal, refresher *rates.Refresher, logger *logrus.Logger) error {
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		<-stop

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if refresher != nil {
			<-refresher.Stop().Done()
		}
		if err := server.Shutdown(ctx); err != nil {
			logger.Errorf("Shutdown failed: %v", err)
		}
	}()

	if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	<-stopped
	return nil
}
