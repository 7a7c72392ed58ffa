package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App      AppConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	RabbitMQ RabbitMQConfig
	Logger   LoggerConfig
	Auth     AuthConfig
	Pricing  PricingConfig
	Realtime RealtimeConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
	CORSAllowOrigins      string
}

// PostgresConfig holds DB connection values. An empty DSN selects the in-memory store.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr            string
	Password        string
	DB              int
	MenuCacheTTLSec int
}

// RabbitMQConfig configures the order event relay. An empty URL disables it.
type RabbitMQConfig struct {
	URL      string
	Exchange string
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines authentication parameters.
//
// SessionTTLMinutes is the lifetime of tokens issued by the login flow. TokenTTLMinutes
// is the signer default, used when SessionTTLMinutes is zero or negative. AdminUsername
// and AdminPassword seed the first administrator on startup.
type AuthConfig struct {
	JWTSecret         string
	TokenTTLMinutes   int
	SessionTTLMinutes int
	BcryptCost        int
	AdminUsername     string
	AdminPassword     string
}

// PricingConfig holds the delivery fee tiers and preparation window.
type PricingConfig struct {
	CentralZone        string `yaml:"central_zone"`
	CentralFee         int64  `yaml:"central_fee"`
	StandardFee        int64  `yaml:"standard_fee"`
	PreparationMinutes int    `yaml:"preparation_minutes"`
}

// RealtimeConfig tunes websocket subscribers.
type RealtimeConfig struct {
	WriteTimeoutSeconds int
	OutboxSize          int
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	maxConns := int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10))
	minConns := int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2))
	runMigrations := getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true)
	connMaxIdle := int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30))
	connMaxLife := int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300))

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "food-ordering-service"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
			CORSAllowOrigins:      getEnv("CORS_ALLOW_ORIGINS", "*"),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       maxConns,
			MinConns:       minConns,
			RunMigrations:  runMigrations,
			ConnMaxIdleSec: connMaxIdle,
			ConnMaxLifeSec: connMaxLife,
		},
		Redis: RedisConfig{
			Addr:            os.Getenv("REDIS_ADDR"),
			Password:        os.Getenv("REDIS_PASSWORD"),
			DB:              redisDB,
			MenuCacheTTLSec: getEnvAsInt("REDIS_MENU_CACHE_TTL_SECONDS", 300),
		},
		RabbitMQ: RabbitMQConfig{
			URL:      os.Getenv("RABBITMQ_URL"),
			Exchange: getEnv("RABBITMQ_EXCHANGE", "order_events"),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret:         getEnv("AUTH_JWT_SECRET", "dev-secret"),
			TokenTTLMinutes:   getEnvAsInt("AUTH_TOKEN_TTL_MINUTES", 30),
			SessionTTLMinutes: getEnvAsInt("AUTH_SESSION_TTL_MINUTES", 480),
			BcryptCost:        getEnvAsInt("AUTH_BCRYPT_COST", 12),
			AdminUsername:     os.Getenv("ADMIN_USERNAME"),
			AdminPassword:     os.Getenv("ADMIN_PASSWORD"),
		},
		Pricing: PricingConfig{
			CentralZone:        getEnv("PRICING_CENTRAL_ZONE", "centro"),
			CentralFee:         int64(getEnvAsInt("PRICING_CENTRAL_FEE", 15000)),
			StandardFee:        int64(getEnvAsInt("PRICING_STANDARD_FEE", 20000)),
			PreparationMinutes: getEnvAsInt("PRICING_PREPARATION_MINUTES", 45),
		},
		Realtime: RealtimeConfig{
			WriteTimeoutSeconds: getEnvAsInt("WS_WRITE_TIMEOUT_SECONDS", 5),
			OutboxSize:          getEnvAsInt("WS_OUTBOX_SIZE", 32),
		},
	}

	if path := os.Getenv("PRICING_FILE"); path != "" {
		if err := cfg.Pricing.mergeFile(path); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// mergeFile overrides pricing fields present in a YAML document.
func (p *PricingConfig) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read pricing file: %w", err)
	}
	var override PricingConfig
	if err := yaml.Unmarshal(data, &override); err != nil {
		return fmt.Errorf("parse pricing file: %w", err)
	}
	if override.CentralZone != "" {
		p.CentralZone = override.CentralZone
	}
	if override.CentralFee > 0 {
		p.CentralFee = override.CentralFee
	}
	if override.StandardFee > 0 {
		p.StandardFee = override.StandardFee
	}
	if override.PreparationMinutes > 0 {
		p.PreparationMinutes = override.PreparationMinutes
	}
	return nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// SessionTTL is the lifetime of tokens issued at login. Zero means the signer default.
func (a AuthConfig) SessionTTL() time.Duration {
	if a.SessionTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(a.SessionTTLMinutes) * time.Minute
}

// MenuCacheTTL returns the lifetime of cached menu items.
func (r RedisConfig) MenuCacheTTL() time.Duration {
	return time.Duration(r.MenuCacheTTLSec) * time.Second
}

// PreparationWindow is the offset between order creation and estimated delivery.
func (p PricingConfig) PreparationWindow() time.Duration {
	return time.Duration(p.PreparationMinutes) * time.Minute
}

// WriteTimeout bounds a single websocket write.
func (r RealtimeConfig) WriteTimeout() time.Duration {
	if r.WriteTimeoutSeconds <= 0 {
		return 5 * time.Second
	}
	return time.Duration(r.WriteTimeoutSeconds) * time.Second
}

// Outbox is the number of messages queued per subscriber before it is dropped.
func (r RealtimeConfig) Outbox() int {
	if r.OutboxSize <= 0 {
		return 32
	}
	return r.OutboxSize
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
