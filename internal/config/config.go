package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Config конфигурация сервиса, загружается из config.toml
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Database  DatabaseConfig  `toml:"database"`
	Logs      LogsConfig      `toml:"logs"`
	Metrics   MetricsConfig   `toml:"metrics"`
	Redis     RedisConfig     `toml:"redis"`
	Events    EventsConfig    `toml:"events"`
	RateLimit RateLimitConfig `toml:"rate_limit"`
	CORS      CORSConfig      `toml:"cors"`
}

// ServerConfig настройки HTTP сервера (таймауты в секундах)
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// DatabaseConfig настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
}

// LogsConfig настройки логирования
type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// MetricsConfig настройки Prometheus
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// RedisConfig настройки Redis. Пустой Addr отключает Redis
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// EventsConfig настройки outbox релея и брокера
type EventsConfig struct {
	Kind            string `toml:"kind"`    // kafka | rabbitmq | none
	Brokers         string `toml:"brokers"` // для kafka: host1:9092,host2:9092
	URL             string `toml:"url"`     // для rabbitmq: amqp://...
	Exchange        string `toml:"exchange"`
	PollInterval    int    `toml:"poll_interval_ms"`
	BatchSize       int    `toml:"batch_size"`
	MaxAttempts     int    `toml:"max_attempts"`
	BreakerFailures uint32 `toml:"breaker_failures"`
	BreakerTimeout  int    `toml:"breaker_timeout"`  // секунды
	BreakerInterval int    `toml:"breaker_interval"` // секунды
	BreakerHalfOpen uint32 `toml:"breaker_half_open_requests"`
}

// RateLimitConfig ограничение частоты запросов на запись бронирований
type RateLimitConfig struct {
	Enabled  bool `toml:"enabled"`
	Requests int  `toml:"requests"`
	Window   int  `toml:"window"` // секунды
	Burst    int  `toml:"burst"`
	FailOpen bool `toml:"fail_open"`
}

// CORSConfig настройки CORS
type CORSConfig struct {
	AllowedOrigins   []string `toml:"allowed_origins"`
	AllowCredentials bool     `toml:"allow_credentials"`
	MaxAge           int      `toml:"max_age"`
}

// Load загружает .env (если есть), затем config.toml, затем применяет переменные окружения.
// Отсутствующий файл конфигурации не ошибка: используются значения по умолчанию.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config: decode %s: %w", path, err)
		}
	}

	cfg.applyDefaults()
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	setDefault(&c.Server.HTTPPort, 8080)
	setDefault(&c.Server.ReadTimeout, 15)
	setDefault(&c.Server.WriteTimeout, 15)
	setDefault(&c.Server.IdleTimeout, 60)
	setDefault(&c.Server.ShutdownTimeout, 10)

	setDefaultString(&c.Database.Host, "localhost")
	setDefault(&c.Database.Port, 5432)
	setDefaultString(&c.Database.User, "postgres")
	setDefaultString(&c.Database.DBName, "booking")
	setDefaultString(&c.Database.SSLMode, "disable")
	setDefault(&c.Database.MaxOpenConns, 25)
	setDefault(&c.Database.MaxIdleConns, 5)
	setDefault(&c.Database.ConnMaxLifetime, 300)

	setDefaultString(&c.Logs.Level, "info")

	setDefaultString(&c.Metrics.Path, "/metrics")
	setDefaultString(&c.Metrics.ServiceName, "booking-service")

	setDefaultString(&c.Events.Kind, "none")
	setDefaultString(&c.Events.Exchange, "bookings.events")
	setDefault(&c.Events.PollInterval, 2000)
	setDefault(&c.Events.BatchSize, 50)
	setDefault(&c.Events.MaxAttempts, 10)
	setDefault(&c.Events.BreakerTimeout, 30)
	setDefault(&c.Events.BreakerInterval, 60)
	if c.Events.BreakerFailures == 0 {
		c.Events.BreakerFailures = 5
	}
	if c.Events.BreakerHalfOpen == 0 {
		c.Events.BreakerHalfOpen = 1
	}

	setDefault(&c.RateLimit.Requests, 30)
	setDefault(&c.RateLimit.Window, 60)
	setDefault(&c.RateLimit.Burst, 10)
}

// applyEnv переопределяет секреты и адреса окружения
func (c *Config) applyEnv() error {
	envString(&c.Database.Host, "DB_HOST")
	envString(&c.Database.User, "DB_USER")
	envString(&c.Database.Password, "DB_PASSWORD")
	envString(&c.Database.DBName, "DB_NAME")
	envString(&c.Logs.Level, "LOG_LEVEL")
	envString(&c.Redis.Addr, "REDIS_ADDR")
	envString(&c.Redis.Password, "REDIS_PASSWORD")
	envString(&c.Events.Kind, "EVENTS_KIND")
	envString(&c.Events.Brokers, "KAFKA_BROKERS")
	envString(&c.Events.URL, "RABBITMQ_URL")

	if err := envInt(&c.Database.Port, "DB_PORT"); err != nil {
		return err
	}
	if err := envInt(&c.Server.HTTPPort, "HTTP_PORT"); err != nil {
		return err
	}
	return nil
}

// Validate проверяет согласованность настроек
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("config: invalid server.http_port %d", c.Server.HTTPPort)
	}

	switch c.Events.Kind {
	case "none":
	case "kafka":
		if strings.TrimSpace(c.Events.Brokers) == "" {
			return errors.New("config: events.brokers is required for kafka")
		}
	case "rabbitmq":
		if strings.TrimSpace(c.Events.URL) == "" {
			return errors.New("config: events.url is required for rabbitmq")
		}
	default:
		return fmt.Errorf("config: unknown events.kind %q", c.Events.Kind)
	}

	if c.RateLimit.Enabled && c.RateLimit.Requests <= 0 {
		return errors.New("config: rate_limit.requests must be positive")
	}
	return nil
}

// DSN строка подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.DBName,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

// PollIntervalDuration интервал опроса outbox
func (e EventsConfig) PollIntervalDuration() time.Duration {
	return time.Duration(e.PollInterval) * time.Millisecond
}

// WindowDuration окно лимитера
func (r RateLimitConfig) WindowDuration() time.Duration {
	return time.Duration(r.Window) * time.Second
}

func setDefault(v *int, def int) {
	if *v == 0 {
		*v = def
	}
}

func setDefaultString(v *string, def string) {
	if *v == "" {
		*v = def
	}
}

func envString(v *string, key string) {
	if value := os.Getenv(key); value != "" {
		*v = value
	}
}

func envInt(v *int, key string) error {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("config: %s must be an integer: %w", key, err)
	}
	*v = n
	return nil
}
