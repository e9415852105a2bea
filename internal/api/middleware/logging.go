package middleware

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/nurlyy/course_ui/pkg/logger"
	"github.com/nurlyy/course_ui/pkg/metrics"
)

// LoggingMiddleware предоставляет middleware для логирования HTTP запросов
type LoggingMiddleware struct {
	logger  logger.Logger
	metrics *metrics.Metrics
}

// NewLoggingMiddleware создает новый экземпляр LoggingMiddleware
func NewLoggingMiddleware(logger logger.Logger, m *metrics.Metrics) *LoggingMiddleware {
	return &LoggingMiddleware{
		logger:  logger,
		metrics: m,
	}
}

// LogRequest логирует запрос и ответ и присваивает запросу ID
func (m *LoggingMiddleware) LogRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		// ID кладется под ключ chi, чтобы его видел middleware.GetReqID
		ctx := context.WithValue(r.Context(), chimw.RequestIDKey, requestID)
		r = r.WithContext(ctx)

		rwWithStatus := newResponseWriterWithStatus(w)
		startTime := time.Now()

		m.logger.Debug("Incoming request", map[string]interface{}{
			"request_id":  requestID,
			"method":      r.Method,
			"path":        r.URL.Path,
			"query":       r.URL.RawQuery,
			"remote_addr": r.RemoteAddr,
			"user_agent":  r.UserAgent(),
		})

		w.Header().Set("X-Request-ID", requestID)

		next.ServeHTTP(rwWithStatus, r)

		duration := time.Since(startTime)
		m.metrics.ObserveHTTP(r.Method, rwWithStatus.statusCode)

		logData := map[string]interface{}{
			"request_id":  requestID,
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      rwWithStatus.statusCode,
			"duration":    duration.String(),
			"duration_ms": duration.Milliseconds(),
		}

		if rwWithStatus.statusCode >= 500 {
			m.logger.Error("Request completed with server error", nil, logData)
		} else if rwWithStatus.statusCode >= 400 {
			m.logger.Warn("Request completed with client error", logData)
		} else {
			m.logger.Info("Request completed successfully", logData)
		}
	})
}

// responseWriterWithStatus - обертка для http.ResponseWriter, которая отслеживает код статуса
type responseWriterWithStatus struct {
	http.ResponseWriter
	statusCode  int
	wroteHeader bool
}

func newResponseWriterWithStatus(w http.ResponseWriter) *responseWriterWithStatus {
	return &responseWriterWithStatus{
		ResponseWriter: w,
		statusCode:     http.StatusOK,
	}
}

// WriteHeader переопределяет метод для отслеживания кода статуса
func (rw *responseWriterWithStatus) WriteHeader(statusCode int) {
	if !rw.wroteHeader {
		rw.statusCode = statusCode
		rw.wroteHeader = true
	}
	rw.ResponseWriter.WriteHeader(statusCode)
}

func (rw *responseWriterWithStatus) Write(b []byte) (int, error) {
	rw.wroteHeader = true
	return rw.ResponseWriter.Write(b)
}

func (rw *responseWriterWithStatus) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if hijacker, ok := rw.ResponseWriter.(http.Hijacker); ok {
		return hijacker.Hijack()
	}
	return nil, nil, fmt.Errorf("underlying ResponseWriter does not support Hijack")
}

func (rw *responseWriterWithStatus) Flush() {
	if flusher, ok := rw.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

// Unwrap нужен http.ResponseController
func (rw *responseWriterWithStatus) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}
