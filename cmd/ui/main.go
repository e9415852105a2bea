package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nurlyy/course_ui/internal/api"
	"github.com/nurlyy/course_ui/internal/app"
	"github.com/nurlyy/course_ui/pkg/config"
	"github.com/nurlyy/course_ui/pkg/logger"
)

func main() {
	// Создаем контекст с возможностью отмены
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Загружаем конфигурацию
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log := logger.NewLogger(cfg.App.LogLevel, cfg.App.IsProduction())
	log.Info("Starting UI server", map[string]interface{}{
		"app_name": cfg.App.Name,
		"env":      cfg.App.Environment,
		"backend":  cfg.Backend.BaseURL,
	})

	application, err := app.NewApplication(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize application", err)
	}
	defer application.Close()

	// Проверка доступности API для /health
	if err := application.Services.SchedulerService.Start(ctx); err != nil {
		log.Fatal("Failed to start backend probe", err)
	}

	server, err := api.NewServer(cfg, log, application.Metrics, application.RedisClient(), application.Services)
	if err != nil {
		log.Fatal("Failed to initialize HTTP server", err)
	}

	go func() {
		if err := server.Start(ctx); err != nil {
			log.Error("HTTP server error", err)
			cancel()
		}
	}()

	// Настройка graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		log.Info("Shutting down server...")
	case <-ctx.Done():
		log.Info("Shutting down server due to context cancellation...")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown error", err)
	}
	cancel()

	log.Info("Server gracefully stopped")
}
