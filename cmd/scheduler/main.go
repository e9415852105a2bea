package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/nurlyy/course_ui/internal/client"
	"github.com/nurlyy/course_ui/internal/service"
	"github.com/nurlyy/course_ui/pkg/config"
	applogger "github.com/nurlyy/course_ui/pkg/logger"
	"github.com/nurlyy/course_ui/pkg/metrics"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := applogger.NewLogger(cfg.App.LogLevel, cfg.App.IsProduction())
	logger.Info("Starting backend prober", map[string]interface{}{
		"backend": cfg.Backend.BaseURL,
		"cron":    cfg.Scheduler.BackendProbeCron,
	})

	m := metrics.New()
	backend, err := client.NewClient(&cfg.Backend, logger, m)
	if err != nil {
		logger.Fatal("Failed to initialize backend client", err)
	}

	schedulerService := service.NewSchedulerService(backend, &cfg.Scheduler, m, logger)
	if err := schedulerService.Start(ctx); err != nil {
		logger.Fatal("Failed to start scheduler service", err)
	}

	// Блокируем основную горутину до получения сигнала остановки
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("Shutting down backend prober")
	cancel()

	if status, ok := schedulerService.Status(); ok {
		logger.Info("Last backend status", map[string]interface{}{
			"up":         status.Up,
			"checked_at": status.CheckedAt,
		})
	}
}
