package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
	_ "time/tzdata" // зоны для business.timezone без системной базы

	"github.com/BurntSushi/toml"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	getAvailability "github.com/m04kA/SMC-AvailabilityService/internal/usecase/get_availability"
)

// DefaultPath путь к файлу конфигурации по умолчанию
const DefaultPath = "config.toml"

// PathEnv переменная окружения, переопределяющая путь к конфигурации
const PathEnv = "CONFIG_PATH"

// ErrInvalidConfig возвращается при некорректных значениях конфигурации
var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Server    ServerConfig    `toml:"server"`
	Database  DatabaseConfig  `toml:"database"`
	Logs      LogsConfig      `toml:"logs"`
	Metrics   MetricsConfig   `toml:"metrics"`
	Tracing   TracingConfig   `toml:"tracing"`
	Telemetry TelemetryConfig `toml:"telemetry"`
	RateLimit RateLimitConfig `toml:"rate_limit"`
	CORS      CORSConfig      `toml:"cors"`
	Business  BusinessConfig  `toml:"business"`
}

// ServerConfig таймауты в секундах
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
	RequestTimeout  int `toml:"request_timeout"`
}

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

// DSN строка подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"` // пусто - stdout
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

type TracingConfig struct {
	Enabled      bool    `toml:"enabled"`
	OTLPEndpoint string  `toml:"otlp_endpoint"`
	SampleRatio  float64 `toml:"sample_ratio"`
}

type TelemetryConfig struct {
	Enabled        bool     `toml:"enabled"`
	Brokers        []string `toml:"brokers"`
	Topic          string   `toml:"topic"`
	PublishTimeout int      `toml:"publish_timeout"` // секунды
}

// RateLimitConfig backend: memory или redis
type RateLimitConfig struct {
	Enabled           bool    `toml:"enabled"`
	Backend           string  `toml:"backend"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
	Burst             int     `toml:"burst"`
	RequestsPerWindow int     `toml:"requests_per_window"`
	WindowSeconds     int     `toml:"window_seconds"`
	RedisAddr         string  `toml:"redis_addr"`
	RedisPassword     string  `toml:"redis_password"`
	RedisDB           int     `toml:"redis_db"`
	FailOpen          bool    `toml:"fail_open"`
}

const (
	RateLimitBackendMemory = "memory"
	RateLimitBackendRedis  = "redis"
)

type CORSConfig struct {
	AllowedOrigins []string `toml:"allowed_origins"`
}

// BusinessConfig правила расчета доступности
type BusinessConfig struct {
	Timezone                      string         `toml:"timezone"`
	StartHour                     int            `toml:"start_hour"`
	EndHour                       int            `toml:"end_hour"`
	Days                          []string       `toml:"days"`
	SlotStepMinutes               int            `toml:"slot_step_minutes"`
	TravelBufferMinutes           int            `toml:"travel_buffer_minutes"`
	AssumedBookingDurationMinutes int            `toml:"assumed_booking_duration_minutes"`
	EventDurations                map[string]int `toml:"event_durations"`
}

// Default конфигурация по умолчанию, поверх нее декодируется файл
func Default() *Config {
	durations := domain.DefaultEventDurations()
	eventDurations := make(map[string]int, len(durations))
	for t, minutes := range durations {
		eventDurations[string(t)] = minutes
	}

	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     10,
			WriteTimeout:    10,
			IdleTimeout:     60,
			ShutdownTimeout: 10,
			RequestTimeout:  5,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			User:            "postgres",
			DBName:          "bookings",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs: LogsConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Enabled:     true,
			Path:        "/metrics",
			ServiceName: "availability-service",
		},
		Tracing: TracingConfig{
			OTLPEndpoint: "localhost:4317",
			SampleRatio:  1,
		},
		Telemetry: TelemetryConfig{
			Brokers:        []string{"localhost:9092"},
			Topic:          "booking.availability.events",
			PublishTimeout: 3,
		},
		RateLimit: RateLimitConfig{
			Enabled:           true,
			Backend:           RateLimitBackendMemory,
			RequestsPerSecond: 5,
			Burst:             20,
			RequestsPerWindow: 120,
			WindowSeconds:     60,
			RedisAddr:         "localhost:6379",
			FailOpen:          true,
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{"*"},
		},
		Business: BusinessConfig{
			Timezone:                      "UTC",
			StartHour:                     8,
			EndHour:                       18,
			Days:                          []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"},
			SlotStepMinutes:               domain.DefaultSlotStepMinutes,
			TravelBufferMinutes:           domain.DefaultTravelBufferMinutes,
			AssumedBookingDurationMinutes: domain.DefaultAssumedBookingDurationMinutes,
			EventDurations:                eventDurations,
		},
	}
}

// Path путь к конфигурации с учетом CONFIG_PATH
func Path() string {
	if p := os.Getenv(PathEnv); p != "" {
		return p
	}
	return DefaultPath
}

// Load читает TOML файл поверх значений по умолчанию и проверяет результат
func Load(path string) (*Config, error) {
	cfg := Default()
	defaults := cfg.Business.EventDurations

	// toml дописывает ключи в существующую map, справочник из файла заменяет дефолтный целиком
	cfg.Business.EventDurations = nil

	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}
	if !meta.IsDefined("business", "event_durations") {
		cfg.Business.EventDurations = defaults
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("%w: unknown keys: %s", ErrInvalidConfig, strings.Join(keys, ", "))
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate проверяет значения конфигурации
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("%w: server.http_port %d out of range", ErrInvalidConfig, c.Server.HTTPPort)
	}
	if c.Server.RequestTimeout < 0 {
		return fmt.Errorf("%w: server.request_timeout must not be negative", ErrInvalidConfig)
	}

	if c.Telemetry.Enabled {
		if len(c.Telemetry.Brokers) == 0 || c.Telemetry.Topic == "" {
			return fmt.Errorf("%w: telemetry requires brokers and topic", ErrInvalidConfig)
		}
	}

	if c.RateLimit.Enabled {
		switch c.RateLimit.Backend {
		case RateLimitBackendMemory:
			if c.RateLimit.RequestsPerSecond <= 0 || c.RateLimit.Burst <= 0 {
				return fmt.Errorf("%w: rate_limit.requests_per_second and burst must be positive", ErrInvalidConfig)
			}
		case RateLimitBackendRedis:
			if c.RateLimit.RequestsPerWindow <= 0 || c.RateLimit.WindowSeconds <= 0 {
				return fmt.Errorf("%w: rate_limit.requests_per_window and window_seconds must be positive", ErrInvalidConfig)
			}
		default:
			return fmt.Errorf("%w: unknown rate_limit.backend %q", ErrInvalidConfig, c.RateLimit.Backend)
		}
	}

	if _, err := c.Business.Rules(); err != nil {
		return err
	}
	return nil
}

// Rules переводит секцию [business] в правила use case
func (b BusinessConfig) Rules() (getAvailability.Rules, error) {
	loc, err := time.LoadLocation(b.Timezone)
	if err != nil {
		return getAvailability.Rules{}, fmt.Errorf("%w: business.timezone: %v", ErrInvalidConfig, err)
	}

	days := make([]time.Weekday, 0, len(b.Days))
	for _, name := range b.Days {
		day, err := parseWeekday(name)
		if err != nil {
			return getAvailability.Rules{}, err
		}
		days = append(days, day)
	}

	hours := domain.BusinessHours{
		StartHour: b.StartHour,
		EndHour:   b.EndHour,
		Days:      days,
	}
	if err := hours.Validate(); err != nil {
		return getAvailability.Rules{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	if b.SlotStepMinutes <= 0 || 60%b.SlotStepMinutes != 0 {
		return getAvailability.Rules{}, fmt.Errorf("%w: business.slot_step_minutes must divide an hour", ErrInvalidConfig)
	}
	if b.TravelBufferMinutes < 0 || b.AssumedBookingDurationMinutes <= 0 {
		return getAvailability.Rules{}, fmt.Errorf("%w: business buffer and booking duration must be positive", ErrInvalidConfig)
	}

	durations := make(domain.EventDurations, len(b.EventDurations))
	for name, minutes := range b.EventDurations {
		if minutes < domain.MinDurationMinutes || minutes > domain.MaxDurationMinutes {
			return getAvailability.Rules{}, fmt.Errorf("%w: business.event_durations.%s=%d out of range [%d, %d]",
				ErrInvalidConfig, name, minutes, domain.MinDurationMinutes, domain.MaxDurationMinutes)
		}
		durations[domain.EventType(name)] = minutes
	}
	if _, ok := durations.For(domain.DefaultEventType); !ok {
		return getAvailability.Rules{}, fmt.Errorf("%w: business.event_durations must define %s",
			ErrInvalidConfig, domain.DefaultEventType)
	}

	return getAvailability.Rules{
		BusinessHours:                 hours,
		EventDurations:                durations,
		SlotStepMinutes:               b.SlotStepMinutes,
		TravelBufferMinutes:           b.TravelBufferMinutes,
		AssumedBookingDurationMinutes: b.AssumedBookingDurationMinutes,
		Location:                      loc,
	}, nil
}

func parseWeekday(name string) (time.Weekday, error) {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.EqualFold(d.String(), name) || strings.EqualFold(d.String()[:3], name) {
			return d, nil
		}
	}
	return time.Sunday, fmt.Errorf("%w: unknown weekday %q", ErrInvalidConfig, name)
}
