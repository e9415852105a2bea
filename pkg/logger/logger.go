package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Logger - интерфейс для логирования
type Logger interface {
	Debug(msg string, fields ...map[string]interface{})
	Info(msg string, fields ...map[string]interface{})
	Warn(msg string, fields ...map[string]interface{})
	Error(msg string, err error, fields ...map[string]interface{})
	Fatal(msg string, err error, fields ...map[string]interface{})
	With(key string, value interface{}) Logger
}

// ZeroLogger - реализация логгера на основе zerolog
type ZeroLogger struct {
	logger zerolog.Logger
}

// NewLogger создает логгер, пишущий в stdout
func NewLogger(level string, isJSON bool) *ZeroLogger {
	return NewLoggerWithWriter(level, isJSON, os.Stdout)
}

// NewLoggerWithWriter создает логгер с произвольным приемником вывода
func NewLoggerWithWriter(level string, isJSON bool, out io.Writer) *ZeroLogger {
	logLevel, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || logLevel == zerolog.NoLevel {
		logLevel = zerolog.InfoLevel
	}
	zerolog.TimeFieldFormat = time.RFC3339

	if !isJSON {
		// Для разработки используем консольный вывод
		out = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: "2006-01-02 15:04:05",
		}
	}

	return &ZeroLogger{
		logger: zerolog.New(out).Level(logLevel).With().Timestamp().Logger(),
	}
}

// NewNopLogger возвращает логгер, который ничего не пишет
func NewNopLogger() *ZeroLogger {
	return &ZeroLogger{logger: zerolog.Nop()}
}

func (l *ZeroLogger) Debug(msg string, fields ...map[string]interface{}) {
	withFields(l.logger.Debug(), fields).Msg(msg)
}

func (l *ZeroLogger) Info(msg string, fields ...map[string]interface{}) {
	withFields(l.logger.Info(), fields).Msg(msg)
}

func (l *ZeroLogger) Warn(msg string, fields ...map[string]interface{}) {
	withFields(l.logger.Warn(), fields).Msg(msg)
}

func (l *ZeroLogger) Error(msg string, err error, fields ...map[string]interface{}) {
	withFields(l.logger.Error().Err(err), fields).Msg(msg)
}

// Fatal логирует критическую ошибку и завершает программу
func (l *ZeroLogger) Fatal(msg string, err error, fields ...map[string]interface{}) {
	withFields(l.logger.Fatal().Err(err), fields).Msg(msg)
}

// With добавляет постоянное поле к логгеру
func (l *ZeroLogger) With(key string, value interface{}) Logger {
	return &ZeroLogger{
		logger: l.logger.With().Interface(key, value).Logger(),
	}
}

func withFields(event *zerolog.Event, fields []map[string]interface{}) *zerolog.Event {
	for _, set := range fields {
		for k, v := range set {
			event = event.Interface(k, v)
		}
	}
	return event
}
