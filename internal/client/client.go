package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/nurlyy/course_ui/pkg/auth"
	"github.com/nurlyy/course_ui/pkg/config"
	"github.com/nurlyy/course_ui/pkg/logger"
	"github.com/nurlyy/course_ui/pkg/metrics"
)

const maxLoggedBody = 512

// Client отправляет действия пользователя во внешний API.
// Заголовок Authorization собирается для каждого запроса из контекста,
// поэтому один Client безопасно использовать из разных горутин.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     logger.Logger
	metrics    *metrics.Metrics
}

// NewClient создает клиент API
func NewClient(cfg *config.BackendConfig, log logger.Logger, m *metrics.Metrics) (*Client, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid backend base url: %w", err)
	}
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}

	return &Client{
		baseURL: base,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger:  log.With("component", "backend_client"),
		metrics: m,
	}, nil
}

// BaseURL возвращает адрес API
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// resolve строит адрес ресурса относительно базового адреса
func (c *Client) resolve(path string, query url.Values) string {
	u := c.baseURL.ResolveReference(&url.URL{Path: strings.TrimPrefix(path, "/")})
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// newRequest создает запрос и добавляет токен сессии, если он есть в контексте
func (c *Client) newRequest(ctx context.Context, method, target string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if token, ok := auth.TokenFromContext(ctx); ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

// send выполняет запрос и читает тело ответа целиком
func (c *Client) send(req *http.Request) (int, []byte, error) {
	operation := c.operationName(req)
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.ObserveBackend(operation, 0, time.Since(start))
		c.logger.Error("Backend request failed", err, map[string]interface{}{
			"operation": operation,
		})
		return 0, nil, fmt.Errorf("%s: %w", operation, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	elapsed := time.Since(start)
	c.metrics.ObserveBackend(operation, resp.StatusCode, elapsed)
	if err != nil {
		return 0, nil, fmt.Errorf("%s: failed to read response body: %w", operation, err)
	}

	fields := map[string]interface{}{
		"operation": operation,
		"status":    resp.StatusCode,
		"duration":  elapsed.String(),
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		c.logger.Debug("Backend request completed", fields)
	} else {
		fields["body"] = truncate(body, maxLoggedBody)
		c.logger.Warn("Backend request returned error status", fields)
	}

	return resp.StatusCode, body, nil
}

// do отправляет запрос и разбирает ответ в out
func (c *Client) do(req *http.Request, out interface{}) error {
	status, body, err := c.send(req)
	if err != nil {
		return err
	}
	return decodeResponse(status, body, out)
}

// Ping проверяет, что API отвечает. Любой HTTP-ответ считается доступностью
func (c *Client) Ping(ctx context.Context) (int, error) {
	req, err := c.newRequest(ctx, http.MethodGet, c.baseURL.String(), nil)
	if err != nil {
		return 0, err
	}
	status, _, err := c.send(req)
	return status, err
}

// operationName - метка вызова для логов и метрик: метод и первый сегмент пути
func (c *Client) operationName(req *http.Request) string {
	rel := strings.TrimPrefix(req.URL.Path, c.baseURL.Path)
	resource, _, _ := strings.Cut(rel, "/")
	if resource == "" {
		resource = "root"
	}
	return req.Method + " " + resource
}

func truncate(body []byte, n int) string {
	if len(body) <= n {
		return string(body)
	}
	return string(body[:n]) + "..."
}
