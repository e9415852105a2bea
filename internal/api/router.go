package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"
	"github.com/go-redis/redis/v8"

	"github.com/nurlyy/course_ui/internal/api/handlers"
	mw "github.com/nurlyy/course_ui/internal/api/middleware"
	"github.com/nurlyy/course_ui/internal/service"
	"github.com/nurlyy/course_ui/pkg/config"
	"github.com/nurlyy/course_ui/pkg/logger"
	"github.com/nurlyy/course_ui/pkg/metrics"
	"github.com/nurlyy/course_ui/pkg/validator"
)

const requestTimeout = 60 * time.Second

// Server представляет HTTP сервер интерфейса
type Server struct {
	router      chi.Router
	httpServer  *http.Server
	logger      logger.Logger
	config      *config.Config
	metrics     *metrics.Metrics
	redis       *redis.Client
	baseHandler handlers.BaseHandler
	services    *Services
	rateLimiter *mw.RateLimiter
}

// Services содержит все сервисы для обработчиков
type Services struct {
	GroupService     *service.GroupService
	StudentService   *service.StudentService
	LookupService    *service.LookupService
	AuthService      *service.AuthService
	SchedulerService *service.SchedulerService
}

// NewServer создает новый экземпляр сервера. redisClient может быть nil
func NewServer(cfg *config.Config, log logger.Logger, m *metrics.Metrics, redisClient *redis.Client, services *Services) (*Server, error) {
	views, err := handlers.NewViews()
	if err != nil {
		return nil, err
	}

	server := &Server{
		router:      chi.NewRouter(),
		logger:      log,
		config:      cfg,
		metrics:     m,
		redis:       redisClient,
		baseHandler: handlers.NewBaseHandler(log, validator.NewValidator(), views, cfg.HTTP.MaxUploadSize),
		services:    services,
	}

	server.setupRoutes()
	server.httpServer = &http.Server{
		Addr:         ":" + cfg.HTTP.Port,
		Handler:      server.router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}
	return server, nil
}

// setupRoutes настраивает маршруты
func (s *Server) setupRoutes() {
	homeHandler := handlers.NewHomeHandler(s.baseHandler)
	accountHandler := handlers.NewAccountHandler(s.baseHandler, s.services.AuthService, &s.config.Session)
	groupHandler := handlers.NewGroupHandler(s.baseHandler, s.services.GroupService)
	studentHandler := handlers.NewStudentHandler(s.baseHandler, s.services.StudentService, s.services.LookupService)

	authMiddleware := mw.NewAuthMiddleware(s.services.AuthService, &s.config.Session, handlers.LoginPath, s.logger)
	loggingMiddleware := mw.NewLoggingMiddleware(s.logger, s.metrics)

	s.rateLimiter = mw.NewRateLimiter(mw.RateLimiterConfig{
		Limit:    s.config.RateLimit.Limit,
		Period:   s.config.RateLimit.Period,
		Strategy: mw.RateLimitStrategy(s.config.RateLimit.Strategy),
	}, s.redis, s.logger)

	s.router.Use(middleware.RealIP)
	s.router.Use(loggingMiddleware.LogRequest)
	s.router.Use(mw.Recoverer(s.logger, homeHandler.Panic))
	s.router.Use(middleware.Timeout(requestTimeout))

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.config.HTTP.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Requested-With", "X-CSRF-Token"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	s.router.NotFound(homeHandler.NotFound)

	s.router.Get("/health", s.health)
	if s.config.Monitoring.PrometheusEnabled {
		s.router.Handle(s.config.Monitoring.MetricsPath, s.metrics.Handler())
	}

	s.router.Group(func(r chi.Router) {
		r.Use(authMiddleware.LoadSession)
		r.Use(s.rateLimiter.Limit)

		r.Get("/", homeHandler.Index)
		r.Get("/home/error", homeHandler.Error)

		r.Route("/account", func(r chi.Router) {
			r.Get("/login", accountHandler.LoginPage)
			r.Post("/login", accountHandler.Login)
			r.Get("/logout", accountHandler.Logout)
		})

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.RequireSession)

			r.Route("/group", func(r chi.Router) {
				r.Get("/", groupHandler.Index)
				r.Get("/create", groupHandler.CreatePage)
				r.Post("/create", groupHandler.Create)
				r.Get("/edit/{id}", groupHandler.EditPage)
				r.Post("/edit/{id}", groupHandler.Edit)
				r.HandleFunc("/delete/{id}", groupHandler.Delete)
			})

			r.Route("/student", func(r chi.Router) {
				r.Get("/", studentHandler.Index)
				r.Get("/create", studentHandler.CreatePage)
				r.Post("/create", studentHandler.Create)
				r.Get("/edit/{id}", studentHandler.EditPage)
				r.Post("/edit/{id}", studentHandler.Edit)
				r.HandleFunc("/delete/{id}", studentHandler.Delete)
			})
		})
	})
}

// health отдает состояние интерфейса и последнюю проверку API
func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	resp := map[string]interface{}{"status": "OK"}

	if s.services.SchedulerService != nil {
		if backend, ok := s.services.SchedulerService.Status(); ok {
			resp["backend"] = backend
			if !backend.Up {
				resp["status"] = "DEGRADED"
			}
		}
	}

	if s.redis != nil {
		if err := s.redis.Ping(r.Context()).Err(); err != nil {
			s.logger.Warn("Redis ping failed", map[string]interface{}{"error": err.Error()})
			resp["redis"] = "DOWN"
			resp["status"] = "DEGRADED"
		} else {
			resp["redis"] = "OK"
		}
	}

	render.JSON(w, r, resp)
}

// ServeHTTP реализует интерфейс http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Start запускает HTTP сервер и блокируется до его остановки
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("Starting UI server", map[string]interface{}{
		"port": s.config.HTTP.Port,
	})

	s.rateLimiter.StartCleanupTask(ctx)

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown корректно останавливает HTTP сервер, дожидаясь текущих запросов
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down UI server")
	return s.httpServer.Shutdown(ctx)
}
