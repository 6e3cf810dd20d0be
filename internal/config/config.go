package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App          AppConfig
	Postgres     PostgresConfig
	Redis        RedisConfig
	Logger       LoggerConfig
	Auth         AuthConfig
	Notification NotificationConfig
	Assignment   AssignmentConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string `validate:"required"`
	Env                   string `validate:"required"`
	Host                  string
	Port                  string `validate:"required,numeric"`
	Version               string
	RequestTimeoutSeconds int `validate:"gte=0"`
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN             string
	ApplicationName string
	MaxConns        int32 `validate:"gte=0"`
	MinConns        int32 `validate:"gte=0,ltefield=MaxConns"`
	RunMigrations   bool
	ConnMaxIdleSec  int32 `validate:"gte=0"`
	ConnMaxLifeSec  int32 `validate:"gte=0"`
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr          string `validate:"required,hostname_port"`
	Password      string
	DB            int `validate:"gte=0"`
	TimeoutMillis int `validate:"gte=0"`
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level    string `validate:"required,oneof=debug info warn error dpanic panic fatal"`
	Encoding string `validate:"oneof=json console"`
	Service  string
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	JWTSecret             string `validate:"required,min=8"`
	AccessTokenTTLMinutes int    `validate:"gt=0"`
	BcryptCost            int    `validate:"gte=4,lte=31"`
}

// NotificationConfig toggles assignment notification fan-out.
type NotificationConfig struct {
	NotifyStudents    bool
	NotifySuperAdmins bool
}

// AssignmentConfig tunes the grievance distribution service.
type AssignmentConfig struct {
	DefaultCapacity        int    `validate:"gt=0"`
	DefaultStrategy        string `validate:"oneof=balanced priority_based category_based"`
	RecommendationLimit    int    `validate:"gt=0,lte=20"`
	StaffCacheTTLSeconds   int    `validate:"gte=0"`
	UnassignedPageSize     int    `validate:"gt=0,lte=500"`
	MaxGrievancesPerAssign int    `validate:"gt=0"`
}

var validate = validator.New()

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "grievance-service"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:             os.Getenv("POSTGRES_DSN"),
			ApplicationName: getEnv("POSTGRES_APPLICATION_NAME", "grievance-service"),
			MaxConns:        int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:        int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:   getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec:  int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec:  int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:          getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password:      os.Getenv("REDIS_PASSWORD"),
			DB:            redisDB,
			TimeoutMillis: getEnvAsInt("REDIS_TIMEOUT_MS", 500),
		},
		Logger: LoggerConfig{
			Level:    getEnv("LOG_LEVEL", "info"),
			Encoding: getEnv("LOG_ENCODING", "json"),
			Service:  getEnv("APP_NAME", "grievance-service"),
		},
		Auth: AuthConfig{
			JWTSecret:             getEnv("AUTH_JWT_SECRET", "dev-secret"),
			AccessTokenTTLMinutes: getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", 60),
			BcryptCost:            getEnvAsInt("AUTH_BCRYPT_COST", 12),
		},
		Notification: NotificationConfig{
			NotifyStudents:    getEnvAsBool("NOTIFY_STUDENTS", true),
			NotifySuperAdmins: getEnvAsBool("NOTIFY_SUPER_ADMINS", true),
		},
		Assignment: AssignmentConfig{
			DefaultCapacity:        getEnvAsInt("ASSIGNMENT_DEFAULT_CAPACITY", 25),
			DefaultStrategy:        getEnv("ASSIGNMENT_DEFAULT_STRATEGY", "balanced"),
			RecommendationLimit:    getEnvAsInt("ASSIGNMENT_RECOMMENDATION_LIMIT", 3),
			StaffCacheTTLSeconds:   getEnvAsInt("ASSIGNMENT_STAFF_CACHE_TTL_SECONDS", 30),
			UnassignedPageSize:     getEnvAsInt("ASSIGNMENT_UNASSIGNED_PAGE_SIZE", 50),
			MaxGrievancesPerAssign: getEnvAsInt("ASSIGNMENT_MAX_BATCH_SIZE", 200),
		},
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks struct constraints on a loaded configuration.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
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

// StaffCacheTTL returns how long a staff directory snapshot stays cached.
func (a AssignmentConfig) StaffCacheTTL() time.Duration {
	return time.Duration(a.StaffCacheTTLSeconds) * time.Second
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
