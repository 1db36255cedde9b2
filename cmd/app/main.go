package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fulfillment/cmd"
	"fulfillment/internal/adapters/out/postgres/orderrepo"
	"fulfillment/internal/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const shutdownTimeout = 30 * time.Second

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	configs, err := cmd.LoadConfig()
	if err != nil {
		logger.WithError(err).Fatal("failed to load configuration")
	}
	if level, parseErr := logrus.ParseLevel(configs.LogLevel); parseErr == nil {
		logger.SetLevel(level)
	} else {
		logger.WithError(parseErr).Warn("unknown LOG_LEVEL, using info")
	}

	if err = run(configs, logger); err != nil {
		logger.WithError(err).Fatal("fulfillment service stopped with an error")
	}
}

func run(configs cmd.Config, logger *logrus.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gormDB, err := gorm.Open(postgres.Open(configs.DSN()), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	if err = orderrepo.Migrate(gormDB); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics.Register(registry)

	app, err := cmd.NewCompositionRoot(configs, gormDB, logger)
	if err != nil {
		return fmt.Errorf("wire application: %w", err)
	}
	defer func() {
		if closeErr := app.Close(); closeErr != nil {
			logger.WithError(closeErr).Warn("failed to close event publisher")
		}
	}()

	go app.EscrowFeed().Run(ctx)

	jobManager := app.CreateJobManager()
	if err = jobManager.StartAll(); err != nil {
		return err
	}
	defer jobManager.StopAll()

	router, err := app.CreateRouter(registry)
	if err != nil {
		return fmt.Errorf("build router: %w", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.WithField("port", configs.HTTPPort).Info("starting fulfillment service")
		if startErr := router.Start(fmt.Sprintf("0.0.0.0:%s", configs.HTTPPort)); !errors.Is(startErr, http.ErrServerClosed) {
			serverErr <- startErr
		}
	}()

	select {
	case err = <-serverErr:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return router.Shutdown(shutdownCtx)
}
