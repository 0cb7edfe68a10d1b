package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/m04kA/SMC-AppointmentService/internal/catalog"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// Config конфигурация сервиса
type Config struct {
	Server   ServerConfig    `toml:"server"`
	Database DatabaseConfig  `toml:"database"`
	Logs     LogsConfig      `toml:"logs"`
	Metrics  MetricsConfig   `toml:"metrics"`
	Redis    RedisConfig     `toml:"redis"`
	Auth     AuthConfig      `toml:"auth"`
	Booking  BookingConfig   `toml:"booking"`
	Services []ServiceConfig `toml:"services"`
}

// ServerConfig настройки HTTP сервера, таймауты в секундах
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// DatabaseConfig настройки PostgreSQL
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
	TxMaxRetries    int    `toml:"tx_max_retries"`
}

// DSN возвращает строку подключения в формате URL
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

// LogsConfig настройки логирования
type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// MetricsConfig настройки prometheus
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// RedisConfig настройки блокировок слотов
type RedisConfig struct {
	Enabled        bool   `toml:"enabled"`
	Addr           string `toml:"addr"`
	Username       string `toml:"username"`
	Password       string `toml:"password"`
	DB             int    `toml:"db"`
	LockTTLMillis  int    `toml:"lock_ttl_ms"`
	LockWaitMillis int    `toml:"lock_wait_ms"`
}

// AuthConfig проверка JWT администратора
type AuthConfig struct {
	JWTSecret string `toml:"jwt_secret"`
}

// BookingConfig бизнес-настройки записи
type BookingConfig struct {
	Timezone             string `toml:"timezone"`
	AdvanceBookingMonths int    `toml:"advance_booking_months"`
	ConflictMode         string `toml:"conflict_mode"`
	ICSDomain            string `toml:"ics_domain"`
}

// ServiceConfig элемент каталога услуг
type ServiceConfig struct {
	ID              string   `toml:"id"`
	Name            string   `toml:"name"`
	Category        string   `toml:"category"`
	DurationMinutes int      `toml:"duration"`
	Price           float64  `toml:"price"`
	Features        []string `toml:"features"`
}

// Catalog собирает каталог услуг из секций [[services]]
func (c *Config) Catalog() (*catalog.Catalog, error) {
	entries := make([]catalog.Service, 0, len(c.Services))
	for _, s := range c.Services {
		entries = append(entries, catalog.Service{
			ID:              s.ID,
			Name:            s.Name,
			Category:        s.Category,
			DurationMinutes: s.DurationMinutes,
			Price:           s.Price,
			Features:        s.Features,
		})
	}
	return catalog.New(entries)
}

// Load читает TOML файл, затем переменные окружения (и .env, если есть)
func Load(path string) (*Config, error) {
	// .env не обязателен
	_ = godotenv.Load()

	cfg := &Config{}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}

	cfg.applyEnv()
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		c.Database.Password = v
	}
	if v := os.Getenv("DB_HOST"); v != "" {
		c.Database.Host = v
	}
	if v := os.Getenv("DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Database.Port = port
		}
	}
	if v := os.Getenv("AUTH_JWT_SECRET"); v != "" {
		c.Auth.JWTSecret = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Redis.Password = v
	}
}

func (c *Config) applyDefaults() {
	if c.Server.HTTPPort == 0 {
		c.Server.HTTPPort = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 10
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 10
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 15
	}
	if c.Database.Port == 0 {
		c.Database.Port = 5432
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 25
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Database.ConnMaxLifetime == 0 {
		c.Database.ConnMaxLifetime = 300
	}
	if c.Database.TxMaxRetries == 0 {
		c.Database.TxMaxRetries = 3
	}
	if c.Logs.Level == "" {
		c.Logs.Level = "info"
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Metrics.ServiceName == "" {
		c.Metrics.ServiceName = "appointment-service"
	}
	if c.Redis.LockTTLMillis == 0 {
		c.Redis.LockTTLMillis = 5000
	}
	if c.Redis.LockWaitMillis == 0 {
		c.Redis.LockWaitMillis = c.Redis.LockTTLMillis
	}
	if c.Booking.Timezone == "" {
		c.Booking.Timezone = domain.DefaultTimezone
	}
	if c.Booking.AdvanceBookingMonths == 0 {
		c.Booking.AdvanceBookingMonths = domain.DefaultAdvanceBookingMonths
	}
	if c.Booking.ConflictMode == "" {
		c.Booking.ConflictMode = string(domain.ConflictModeOverlap)
	}
	if c.Booking.ICSDomain == "" {
		c.Booking.ICSDomain = "appointments.local"
	}
}

// Validate проверяет согласованность конфигурации
func (c *Config) Validate() error {
	var errs []error

	if c.Database.Host == "" {
		errs = append(errs, errors.New("database.host is required"))
	}
	if c.Database.DBName == "" {
		errs = append(errs, errors.New("database.dbname is required"))
	}
	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("auth.jwt_secret is required (or AUTH_JWT_SECRET)"))
	}
	if c.Database.TxMaxRetries < 0 {
		errs = append(errs, errors.New("database.tx_max_retries must not be negative"))
	}
	if c.Redis.Enabled && c.Redis.Addr == "" {
		errs = append(errs, errors.New("redis.addr is required when redis is enabled"))
	}
	if !domain.ConflictMode(c.Booking.ConflictMode).IsValid() {
		errs = append(errs, fmt.Errorf("booking.conflict_mode must be %q or %q", domain.ConflictModeOverlap, domain.ConflictModeExact))
	}
	if c.Booking.AdvanceBookingMonths < 0 {
		errs = append(errs, errors.New("booking.advance_booking_months must not be negative"))
	}
	if len(c.Services) == 0 {
		errs = append(errs, errors.New("at least one [[services]] entry is required"))
	}
	for i, s := range c.Services {
		if s.ID == "" || s.Name == "" {
			errs = append(errs, fmt.Errorf("services[%d]: id and name are required", i))
		}
		if !domain.IsValidServiceDuration(s.DurationMinutes) {
			errs = append(errs, fmt.Errorf("services[%d]: duration must be within [%d, %d]",
				i, domain.MinServiceDurationMinutes, domain.MaxServiceDurationMinutes))
		}
		if s.Price < 0 {
			errs = append(errs, fmt.Errorf("services[%d]: price must not be negative", i))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}
