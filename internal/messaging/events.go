package messaging

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// EventType определяет тип события аудита
type EventType string

const (
	EventTypeGroupCreated   EventType = "group.created"
	EventTypeGroupUpdated   EventType = "group.updated"
	EventTypeGroupDeleted   EventType = "group.deleted"
	EventTypeStudentCreated EventType = "student.created"
	EventTypeStudentUpdated EventType = "student.updated"
	EventTypeStudentDeleted EventType = "student.deleted"
)

// AuditEvent описывает изменение, успешно принятое API
type AuditEvent struct {
	ID         string    `json:"id"`
	Type       EventType `json:"type"`
	Resource   string    `json:"resource"`
	ResourceID int       `json:"resource_id,omitempty"`
	Actor      string    `json:"actor,omitempty"`
	RequestID  string    `json:"request_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewAuditEvent создает событие с новым идентификатором
func NewAuditEvent(eventType EventType, resource string, resourceID int) *AuditEvent {
	return &AuditEvent{
		ID:         uuid.NewString(),
		Type:       eventType,
		Resource:   resource,
		ResourceID: resourceID,
		CreatedAt:  time.Now().UTC(),
	}
}

// Publisher отправляет события аудита
type Publisher interface {
	PublishAudit(ctx context.Context, event *AuditEvent) error
	Close() error
}

// NopPublisher используется, когда Kafka выключена
type NopPublisher struct{}

func (NopPublisher) PublishAudit(context.Context, *AuditEvent) error { return nil }
func (NopPublisher) Close() error                                    { return nil }
