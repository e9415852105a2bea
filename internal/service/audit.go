package service

import (
	"context"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/nurlyy/course_ui/internal/messaging"
	"github.com/nurlyy/course_ui/pkg/auth"
	"github.com/nurlyy/course_ui/pkg/logger"
	"github.com/nurlyy/course_ui/pkg/metrics"
)

const auditPublishTimeout = 3 * time.Second

// auditor публикует события об успешных изменениях.
// Ошибка публикации только логируется: изменение уже принято API
type auditor struct {
	publisher messaging.Publisher
	metrics   *metrics.Metrics
	logger    logger.Logger
}

func newAuditor(publisher messaging.Publisher, m *metrics.Metrics, log logger.Logger) *auditor {
	if publisher == nil {
		publisher = messaging.NopPublisher{}
	}
	return &auditor{publisher: publisher, metrics: m, logger: log}
}

func (a *auditor) record(ctx context.Context, eventType messaging.EventType, resource string, resourceID int) {
	event := messaging.NewAuditEvent(eventType, resource, resourceID)
	event.Actor = auth.UserFromContext(ctx)
	event.RequestID = middleware.GetReqID(ctx)

	ctx, cancel := context.WithTimeout(ctx, auditPublishTimeout)
	defer cancel()

	err := a.publisher.PublishAudit(ctx, event)
	a.metrics.ObserveAudit(string(eventType), err)
	if err != nil {
		a.logger.Warn("Failed to publish audit event", map[string]interface{}{
			"type":        eventType,
			"resource_id": resourceID,
			"error":       err.Error(),
		})
	}
}
