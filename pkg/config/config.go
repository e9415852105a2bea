package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config содержит все конфигурационные параметры приложения
type Config struct {
	App        AppConfig
	HTTP       HTTPConfig
	Backend    BackendConfig
	Session    SessionConfig
	Redis      RedisConfig
	Kafka      KafkaConfig
	Scheduler  SchedulerConfig
	RateLimit  RateLimitConfig
	Monitoring MonitoringConfig
}

// AppConfig содержит общие настройки приложения
type AppConfig struct {
	Name        string
	Environment string
	LogLevel    string
}

// HTTPConfig содержит настройки HTTP-сервера
type HTTPConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	AllowedOrigins  []string
	MaxUploadSize   int64
}

// BackendConfig описывает внешний API, в который проксируются действия пользователя
type BackendConfig struct {
	BaseURL string
	Timeout time.Duration
}

// SessionConfig содержит настройки cookie с токеном
type SessionConfig struct {
	CookieName   string
	CookieTTL    time.Duration
	SecureCookie bool
	// InspectToken включает проверку срока действия JWT до обращения к API
	InspectToken bool
	// JWTSecret - если задан, подпись токена проверяется по HMAC
	JWTSecret string
}

// RedisConfig содержит настройки подключения к Redis
type RedisConfig struct {
	Enabled    bool
	Host       string
	Port       string
	Password   string
	DB         int
	DefaultTTL time.Duration
}

// KafkaConfig содержит настройки для публикации событий аудита
type KafkaConfig struct {
	Enabled    bool
	Brokers    []string
	AuditTopic string
}

// SchedulerConfig содержит настройки планировщика
type SchedulerConfig struct {
	BackendProbeCron    string
	BackendProbeTimeout time.Duration
}

// RateLimitConfig содержит настройки ограничителя запросов
type RateLimitConfig struct {
	Limit    int
	Period   int
	Strategy string
}

// MonitoringConfig содержит настройки мониторинга
type MonitoringConfig struct {
	PrometheusEnabled bool
	MetricsPath       string
}

// Load загружает конфигурацию из переменных окружения
func Load() (*Config, error) {
	// Загружаем .env файл, если он существует
	_ = godotenv.Load()

	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "course-ui"),
			Environment: getEnv("APP_ENV", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
		},
		HTTP: HTTPConfig{
			Port:            getEnv("HTTP_PORT", "8080"),
			ReadTimeout:     getEnvAsDuration("HTTP_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    getEnvAsDuration("HTTP_WRITE_TIMEOUT", 40*time.Second),
			ShutdownTimeout: getEnvAsDuration("HTTP_SHUTDOWN_TIMEOUT", 5*time.Second),
			AllowedOrigins:  getEnvAsSlice("HTTP_ALLOWED_ORIGINS", []string{"http://localhost:8080"}),
			MaxUploadSize:   int64(getEnvAsInt("HTTP_MAX_UPLOAD_SIZE", 10<<20)),
		},
		Backend: BackendConfig{
			BaseURL: getEnv("BACKEND_BASE_URL", "https://localhost:44392/api/"),
			Timeout: getEnvAsDuration("BACKEND_TIMEOUT", 30*time.Second),
		},
		Session: SessionConfig{
			CookieName:   getEnv("SESSION_COOKIE_NAME", "token"),
			CookieTTL:    getEnvAsDuration("SESSION_COOKIE_TTL", 8*time.Hour),
			SecureCookie: getEnvAsBool("SESSION_SECURE_COOKIE", false),
			InspectToken: getEnvAsBool("SESSION_INSPECT_TOKEN", true),
			JWTSecret:    getEnv("SESSION_JWT_SECRET", ""),
		},
		Redis: RedisConfig{
			Enabled:    getEnvAsBool("REDIS_ENABLED", false),
			Host:       getEnv("REDIS_HOST", "localhost"),
			Port:       getEnv("REDIS_PORT", "6379"),
			Password:   getEnv("REDIS_PASSWORD", ""),
			DB:         getEnvAsInt("REDIS_DB", 0),
			DefaultTTL: getEnvAsDuration("REDIS_DEFAULT_TTL", time.Minute),
		},
		Kafka: KafkaConfig{
			Enabled:    getEnvAsBool("KAFKA_ENABLED", false),
			Brokers:    getEnvAsSlice("KAFKA_BROKERS", []string{"localhost:9092"}),
			AuditTopic: getEnv("KAFKA_TOPIC_AUDIT", "course_ui_audit"),
		},
		Scheduler: SchedulerConfig{
			BackendProbeCron:    getEnv("SCHEDULER_BACKEND_PROBE_CRON", "*/30 * * * * *"),
			BackendProbeTimeout: getEnvAsDuration("SCHEDULER_BACKEND_PROBE_TIMEOUT", 5*time.Second),
		},
		RateLimit: RateLimitConfig{
			Limit:    getEnvAsInt("RATE_LIMIT", 300),
			Period:   getEnvAsInt("RATE_LIMIT_PERIOD", 60),
			Strategy: getEnv("RATE_LIMIT_STRATEGY", "ip"),
		},
		Monitoring: MonitoringConfig{
			PrometheusEnabled: getEnvAsBool("PROMETHEUS_ENABLED", true),
			MetricsPath:       getEnv("PROMETHEUS_PATH", "/metrics"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate проверяет согласованность параметров
func (c *Config) Validate() error {
	u, err := url.ParseRequestURI(c.Backend.BaseURL)
	if err != nil || u.Host == "" {
		return fmt.Errorf("invalid backend base URL: %q", c.Backend.BaseURL)
	}
	if c.Backend.Timeout <= 0 {
		return errors.New("backend timeout must be positive")
	}
	if c.Session.CookieName == "" {
		return errors.New("session cookie name must not be empty")
	}
	if c.RateLimit.Limit <= 0 || c.RateLimit.Period <= 0 {
		return errors.New("rate limit and period must be positive")
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return errors.New("kafka is enabled but no brokers are configured")
	}
	return nil
}

// IsProduction сообщает, запущено ли приложение в production-окружении
func (c *AppConfig) IsProduction() bool {
	return c.Environment == "production"
}

// RedisAddr возвращает адрес подключения к Redis
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// Утилитарные функции для получения переменных окружения

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	var values []string
	for _, v := range strings.Split(valueStr, ",") {
		if v = strings.TrimSpace(v); v != "" {
			values = append(values, v)
		}
	}
	return values
}
