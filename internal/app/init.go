package app

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"

	"github.com/nurlyy/course_ui/internal/api"
	"github.com/nurlyy/course_ui/internal/client"
	"github.com/nurlyy/course_ui/internal/messaging"
	"github.com/nurlyy/course_ui/internal/service"
	"github.com/nurlyy/course_ui/pkg/auth"
	"github.com/nurlyy/course_ui/pkg/cache"
	"github.com/nurlyy/course_ui/pkg/config"
	"github.com/nurlyy/course_ui/pkg/logger"
	"github.com/nurlyy/course_ui/pkg/metrics"
)

// Application содержит все компоненты приложения
type Application struct {
	Config    *config.Config
	Logger    logger.Logger
	Metrics   *metrics.Metrics
	Client    *client.Client
	Redis     *cache.Redis
	Publisher messaging.Publisher
	Services  *api.Services
}

// NewApplication создает приложение с инициализированными компонентами
func NewApplication(ctx context.Context, cfg *config.Config, log logger.Logger) (*Application, error) {
	m := metrics.New()

	backend, err := client.NewClient(&cfg.Backend, log, m)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize backend client: %w", err)
	}

	app := &Application{
		Config:    cfg,
		Logger:    log,
		Metrics:   m,
		Client:    backend,
		Publisher: messaging.NopPublisher{},
	}

	if cfg.Redis.Enabled {
		app.Redis, err = cache.NewRedis(ctx, &cfg.Redis, log)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Redis: %w", err)
		}
	}

	if cfg.Kafka.Enabled {
		app.Publisher = messaging.NewKafkaProducer(cfg.Kafka.Brokers, cfg.Kafka.AuditTopic, log)
	}

	app.Services = initServices(app)
	return app, nil
}

// RedisClient возвращает клиент Redis или nil, если Redis выключен
func (app *Application) RedisClient() *redis.Client {
	if app.Redis == nil {
		return nil
	}
	return app.Redis.Client
}

// Close закрывает все соединения с внешними сервисами
func (app *Application) Close() {
	if app.Redis != nil {
		if err := app.Redis.Close(); err != nil {
			app.Logger.Error("Error closing Redis connection", err)
		}
	}

	if err := app.Publisher.Close(); err != nil {
		app.Logger.Error("Error closing Kafka producer", err)
	}
}

// initServices собирает сервисы поверх клиента API
func initServices(app *Application) *api.Services {
	cfg := app.Config

	// nil-интерфейс вместо typed nil, чтобы LookupService видел отсутствие кэша
	var lookupCache service.Cache
	if app.Redis != nil {
		lookupCache = app.Redis
	}
	lookup := service.NewLookupService(app.Client, lookupCache, cfg.Redis.DefaultTTL, app.Logger)

	var inspector *auth.TokenInspector
	if cfg.Session.InspectToken {
		inspector = auth.NewTokenInspector(&cfg.Session)
	}

	return &api.Services{
		GroupService:     service.NewGroupService(app.Client, lookup, app.Publisher, app.Metrics, app.Logger),
		StudentService:   service.NewStudentService(app.Client, app.Publisher, app.Metrics, app.Logger),
		LookupService:    lookup,
		AuthService:      service.NewAuthService(app.Client, inspector, app.Logger),
		SchedulerService: service.NewSchedulerService(app.Client, &cfg.Scheduler, app.Metrics, app.Logger),
	}
}
