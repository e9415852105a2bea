package messaging

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurlyy/course_ui/pkg/logger"
)

func TestNewAuditEvent(t *testing.T) {
	event := NewAuditEvent(EventTypeGroupCreated, "group", 12)

	assert.NotEmpty(t, event.ID)
	assert.Equal(t, EventTypeGroupCreated, event.Type)
	assert.False(t, event.CreatedAt.IsZero())

	data, err := json.Marshal(event)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"type":"group.created"`)
	assert.Contains(t, string(data), `"resource_id":12`)
}

func TestWrapLogger(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewLoggerWithWriter("debug", true, &buf)

	wrapLogger(log, true)("writing %d messages failed", 3)
	assert.Contains(t, buf.String(), `"level":"warn"`)
	assert.Contains(t, buf.String(), "writing 3 messages failed")
}

func TestNopPublisher(t *testing.T) {
	var p Publisher = NopPublisher{}
	assert.NoError(t, p.PublishAudit(context.Background(), NewAuditEvent(EventTypeStudentDeleted, "student", 1)))
	assert.NoError(t, p.Close())
}
