package service

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/nurlyy/course_ui/pkg/config"
	"github.com/nurlyy/course_ui/pkg/logger"
	"github.com/nurlyy/course_ui/pkg/metrics"
)

// Pinger проверяет доступность API. Реализуется client.Client
type Pinger interface {
	Ping(ctx context.Context) (int, error)
}

// BackendStatus - результат последней проверки API
type BackendStatus struct {
	Up         bool      `json:"up"`
	LastStatus int       `json:"last_status,omitempty"`
	CheckedAt  time.Time `json:"checked_at"`
	Error      string    `json:"error,omitempty"`
}

// SchedulerService периодически проверяет доступность API
type SchedulerService struct {
	pinger  Pinger
	cron    *cron.Cron
	config  *config.SchedulerConfig
	metrics *metrics.Metrics
	logger  logger.Logger
	status  atomic.Pointer[BackendStatus]
}

// NewSchedulerService создает новый экземпляр сервиса планировщика
func NewSchedulerService(pinger Pinger, cfg *config.SchedulerConfig, m *metrics.Metrics, log logger.Logger) *SchedulerService {
	return &SchedulerService{
		pinger: pinger,
		// Планировщик с поддержкой секунд
		cron:    cron.New(cron.WithSeconds()),
		config:  cfg,
		metrics: m,
		logger:  log.With("service", "scheduler"),
	}
}

// Start регистрирует проверку и запускает планировщик
func (s *SchedulerService) Start(ctx context.Context) error {
	s.logger.Info("Starting scheduler service", map[string]interface{}{
		"cron": s.config.BackendProbeCron,
	})

	if _, err := s.cron.AddFunc(s.config.BackendProbeCron, func() { s.Probe(ctx) }); err != nil {
		return fmt.Errorf("failed to schedule backend probe: %w", err)
	}

	// Первая проверка сразу, не дожидаясь расписания
	go s.Probe(ctx)

	s.cron.Start()

	go func() {
		<-ctx.Done()
		s.logger.Info("Stopping scheduler service")
		<-s.cron.Stop().Done()
	}()

	return nil
}

// Probe выполняет одну проверку API
func (s *SchedulerService) Probe(ctx context.Context) BackendStatus {
	ctx, cancel := context.WithTimeout(ctx, s.config.BackendProbeTimeout)
	defer cancel()

	status, err := s.pinger.Ping(ctx)
	result := BackendStatus{
		Up:         err == nil,
		LastStatus: status,
		CheckedAt:  time.Now().UTC(),
	}
	if err != nil {
		result.Error = err.Error()
	}

	prev := s.status.Swap(&result)
	s.metrics.SetBackendUp(result.Up)

	switch {
	case err != nil:
		s.logger.Warn("Backend probe failed", map[string]interface{}{"error": result.Error})
	case prev == nil || !prev.Up:
		s.logger.Info("Backend is reachable", map[string]interface{}{"status": status})
	default:
		s.logger.Debug("Backend probe completed", map[string]interface{}{"status": status})
	}

	return result
}

// Status возвращает результат последней проверки. false, если проверок еще не было
func (s *SchedulerService) Status() (BackendStatus, bool) {
	st := s.status.Load()
	if st == nil {
		return BackendStatus{}, false
	}
	return *st, true
}
