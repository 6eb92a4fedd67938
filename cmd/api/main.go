package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Dan9191/cashflow-service/internal/config"
	"github.com/Dan9191/cashflow-service/internal/handler"
	"github.com/Dan9191/cashflow-service/internal/integrations/cbr"
	"github.com/Dan9191/cashflow-service/internal/repository"
	"github.com/Dan9191/cashflow-service/internal/scheduler"
	"github.com/Dan9191/cashflow-service/internal/service"
	"github.com/Dan9191/cashflow-service/internal/utils/email"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	logLevel, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Initialize database
	db, err := sql.Open("postgres", cfg.DBConn)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := db.PingContext(ctx); err != nil {
		cancel()
		logger.Fatalf("Failed to ping database: %v", err)
	}
	repo := repository.NewRepository(db)
	if err := repo.Migrate(ctx); err != nil {
		cancel()
		logger.Fatalf("Failed to migrate database: %v", err)
	}
	cancel()

	// Initialize layers
	cbrClient := cbr.NewCBRClient(cfg, logger)
	sender := email.NewSender(cfg, logger)
	svc := service.NewService(repo, cbrClient, sender, logger, cfg)
	h := handler.NewHandler(svc, logger)

	reminders, err := scheduler.NewScheduler(cfg.ReminderCron, cfg.Location, svc, logger)
	if err != nil {
		logger.Fatalf("Failed to create scheduler: %v", err)
	}
	reminders.Start()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      handler.NewRouter(h, cfg),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	go func() {
		logger.Infof("Starting server on %s", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("Server failed: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	logger.Info("Shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Server shutdown failed: %v", err)
	}
	reminders.Stop(shutdownCtx)
}
