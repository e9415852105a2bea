package service

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nurlyy/course_ui/internal/client"
	"github.com/nurlyy/course_ui/internal/domain"
	"github.com/nurlyy/course_ui/internal/messaging"
	"github.com/nurlyy/course_ui/pkg/config"
	"github.com/nurlyy/course_ui/pkg/logger"
	"github.com/nurlyy/course_ui/pkg/metrics"
)

func newBackend(t *testing.T, handler http.HandlerFunc) *client.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := client.NewClient(&config.BackendConfig{
		BaseURL: srv.URL + "/api/",
		Timeout: 5 * time.Second,
	}, logger.NewNopLogger(), nil)
	require.NoError(t, err)
	return c
}

func reply(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

type fakePublisher struct {
	mu     sync.Mutex
	events []*messaging.AuditEvent
	err    error
}

func (p *fakePublisher) PublishAudit(_ context.Context, event *messaging.AuditEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

func (p *fakePublisher) Close() error { return nil }

func (p *fakePublisher) types() []messaging.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []messaging.EventType
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type fakeCache struct {
	mu      sync.Mutex
	data    map[string]string
	err     error
	deletes int
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: map[string]string{}}
}

func (c *fakeCache) Get(_ context.Context, key string) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return "", false, c.err
	}
	v, ok := c.data[key]
	return v, ok, nil
}

func (c *fakeCache) Set(_ context.Context, key string, value string, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.data[key] = value
	return nil
}

func (c *fakeCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deletes++
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

type fakePinger struct {
	calls  atomic.Int32
	status int
	err    error
}

func (p *fakePinger) Ping(context.Context) (int, error) {
	p.calls.Add(1)
	return p.status, p.err
}

var errBoom = errors.New("boom")

func newTestMetrics() *metrics.Metrics {
	return metrics.New()
}

func domainLogin() domain.LoginRequest {
	return domain.LoginRequest{UserName: "admin", Password: "secret"}
}
