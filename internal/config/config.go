package config

import (
	"errors"
	"fmt"
	"net/netip"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// ErrInvalidConfig возвращается при некорректной конфигурации
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config конфигурация приложения
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Database  DatabaseConfig  `toml:"database"`
	Logs      LogsConfig      `toml:"logs"`
	Metrics   MetricsConfig   `toml:"metrics"`
	Booking   BookingConfig   `toml:"booking"`
	Events    EventsConfig    `toml:"events"`
	RateLimit RateLimitConfig `toml:"rate_limit"`
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
	ConnMaxLifetime int    `toml:"conn_max_lifetime"`
	MigrateOnStart  bool   `toml:"migrate_on_start"`
}

// DSN строка подключения для lib/pq
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// URL строка подключения в формате URL (нужна golang-migrate)
func (c DatabaseConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode)
}

// LogsConfig настройки логирования
type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// MetricsConfig настройки prometheus
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	ServiceName string `toml:"service_name"`
	Path        string `toml:"path"`
}

// BookingConfig правила расписания и бронирования
type BookingConfig struct {
	SlotStepMinutes      int    `toml:"slot_step_minutes"`
	OvertimeMinutes      int    `toml:"overtime_minutes"`
	HorizonDays          int    `toml:"horizon_days"`
	DefaultBufferMinutes int    `toml:"default_buffer_minutes"`
	GateTimeoutSeconds   int    `toml:"gate_timeout_seconds"`
	Timezone             string `toml:"timezone"`
}

// GateTimeout таймаут ожидания гейта; 0 - ждать без ограничения
func (c BookingConfig) GateTimeout() time.Duration {
	return time.Duration(c.GateTimeoutSeconds) * time.Second
}

// Location часовой пояс филиалов
func (c BookingConfig) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

// EventsConfig настройки публикации событий бронирований
type EventsConfig struct {
	// Driver: none, webhook, kafka, redis
	Driver    string        `toml:"driver"`
	QueueSize int           `toml:"queue_size"`
	Webhook   WebhookConfig `toml:"webhook"`
	Kafka     KafkaConfig   `toml:"kafka"`
	Redis     RedisConfig   `toml:"redis"`
}

type WebhookConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"`
}

type KafkaConfig struct {
	Brokers []string `toml:"brokers"`
	Topic   string   `toml:"topic"`
}

type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	Channel  string `toml:"channel"`
}

// RateLimitConfig ограничение частоты запросов с одного IP
type RateLimitConfig struct {
	Enabled           bool    `toml:"enabled"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
	Burst             int     `toml:"burst"`
	// TrustedProxies адреса или CIDR балансировщиков, которым доверяем X-Forwarded-For.
	// Пусто - клиент определяется только по адресу соединения.
	TrustedProxies []string `toml:"trusted_proxies"`
}

// TrustedPrefixes разбирает TrustedProxies; одиночный адрес превращается в /32 или /128
func (c RateLimitConfig) TrustedPrefixes() ([]netip.Prefix, error) {
	prefixes := make([]netip.Prefix, 0, len(c.TrustedProxies))
	for _, raw := range c.TrustedProxies {
		raw = strings.TrimSpace(raw)
		if strings.Contains(raw, "/") {
			prefix, err := netip.ParsePrefix(raw)
			if err != nil {
				return nil, fmt.Errorf("trusted proxy %q: %w", raw, err)
			}
			prefixes = append(prefixes, prefix.Masked())
			continue
		}
		addr, err := netip.ParseAddr(raw)
		if err != nil {
			return nil, fmt.Errorf("trusted proxy %q: %w", raw, err)
		}
		prefixes = append(prefixes, netip.PrefixFrom(addr.Unmap(), addr.Unmap().BitLen()))
	}
	return prefixes, nil
}

const (
	EventsDriverNone    = "none"
	EventsDriverWebhook = "webhook"
	EventsDriverKafka   = "kafka"
	EventsDriverRedis   = "redis"
)

// Load читает конфигурацию из TOML файла, подставляет значения по умолчанию
// и секреты из окружения
func Load(path string) (*Config, error) {
	cfg := Default()

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Default конфигурация по умолчанию
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     15,
			WriteTimeout:    15,
			IdleTimeout:     60,
			ShutdownTimeout: 10,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs: LogsConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			ServiceName: "spa-booking-service",
			Path:        "/metrics",
		},
		Booking: BookingConfig{
			SlotStepMinutes:      30,
			OvertimeMinutes:      30,
			HorizonDays:          7,
			DefaultBufferMinutes: 30,
			GateTimeoutSeconds:   10,
			Timezone:             "UTC",
		},
		Events: EventsConfig{
			Driver:    EventsDriverNone,
			QueueSize: 256,
			Webhook:   WebhookConfig{Timeout: 5},
			Kafka:     KafkaConfig{Topic: "spa.bookings"},
			Redis:     RedisConfig{Addr: "localhost:6379", Channel: "spa:bookings"},
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 10,
			Burst:             20,
		},
	}
}

// applyEnv секреты не хранятся в config.toml
func applyEnv(cfg *Config) {
	if v := os.Getenv("DATABASE_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("DATABASE_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Events.Redis.Password = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		cfg.Events.Kafka.Brokers = strings.Split(v, ",")
	}
}

// Validate проверяет согласованность конфигурации
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 {
		return fmt.Errorf("%w: server.http_port must be positive", ErrInvalidConfig)
	}
	if c.Booking.SlotStepMinutes <= 0 {
		return fmt.Errorf("%w: booking.slot_step_minutes must be positive", ErrInvalidConfig)
	}
	if c.Booking.OvertimeMinutes < 0 {
		return fmt.Errorf("%w: booking.overtime_minutes must not be negative", ErrInvalidConfig)
	}
	if c.Booking.HorizonDays < 0 {
		return fmt.Errorf("%w: booking.horizon_days must not be negative", ErrInvalidConfig)
	}
	if c.Booking.DefaultBufferMinutes < 0 {
		return fmt.Errorf("%w: booking.default_buffer_minutes must not be negative", ErrInvalidConfig)
	}
	if _, err := c.Booking.Location(); err != nil {
		return fmt.Errorf("%w: booking.timezone: %v", ErrInvalidConfig, err)
	}

	switch c.Events.Driver {
	case EventsDriverNone:
	case EventsDriverWebhook:
		if c.Events.Webhook.URL == "" {
			return fmt.Errorf("%w: events.webhook.url is required", ErrInvalidConfig)
		}
	case EventsDriverKafka:
		if len(c.Events.Kafka.Brokers) == 0 || c.Events.Kafka.Topic == "" {
			return fmt.Errorf("%w: events.kafka.brokers and topic are required", ErrInvalidConfig)
		}
	case EventsDriverRedis:
		if c.Events.Redis.Addr == "" || c.Events.Redis.Channel == "" {
			return fmt.Errorf("%w: events.redis.addr and channel are required", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown events.driver %q", ErrInvalidConfig, c.Events.Driver)
	}

	if c.RateLimit.Enabled && (c.RateLimit.RequestsPerSecond <= 0 || c.RateLimit.Burst <= 0) {
		return fmt.Errorf("%w: rate_limit values must be positive", ErrInvalidConfig)
	}
	if _, err := c.RateLimit.TrustedPrefixes(); err != nil {
		return fmt.Errorf("%w: rate_limit.trusted_proxies: %v", ErrInvalidConfig, err)
	}

	return nil
}
