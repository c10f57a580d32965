package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// Config represents the application configuration
type Config struct {
	ServiceName string
	Server      ServerConfig
	Storage     StorageConfig
	Upload      UploadConfig
	Admin       AdminConfig
	JWT         JWTConfig
	DB          DBConfig
	Log         LogConfig
	Metrics     MetricsConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port      string
	Env       string
	PublicDir string
}

// StorageConfig selects the backend holding the goods document
type StorageConfig struct {
	Driver   string
	DataFile string
	// DocumentName is the row key used by the postgres backend
	DocumentName string
}

// UploadConfig holds photo upload configuration
type UploadConfig struct {
	Dir       string
	URLPrefix string
	MaxFiles  int
}

// AdminConfig holds the admin panel credentials
type AdminConfig struct {
	Username     string
	Password     string
	PasswordHash string
	RequireToken bool
}

// JWTConfig holds JWT-related configuration
type JWTConfig struct {
	SigningKey     string
	ExpirationTime time.Duration
}

// DBConfig holds database configuration
type DBConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

// GetDSN returns the PostgreSQL connection string
func (c *DBConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string
}

// MetricsConfig holds metrics-related configuration
type MetricsConfig struct {
	Prefix string
}

// Load loads the application configuration from environment variables
func Load() (*Config, error) {
	// Load environment variables from .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		ServiceName: "goods-tracker",
		Server: ServerConfig{
			Port:      getEnv("SERVER_PORT", getEnv("PORT", "3000")),
			Env:       getEnv("APP_ENV", "development"),
			PublicDir: getEnv("PUBLIC_DIR", "public"),
		},
		Storage: StorageConfig{
			Driver:       getEnv("STORAGE_DRIVER", "file"),
			DataFile:     getEnv("DATA_FILE", "data/goods.json"),
			DocumentName: getEnv("STORAGE_DOCUMENT", "goods"),
		},
		Upload: UploadConfig{
			Dir:       getEnv("UPLOAD_DIR", "public/uploads"),
			URLPrefix: getEnv("UPLOAD_URL_PREFIX", "/uploads"),
			MaxFiles:  getEnvAsInt("UPLOAD_MAX_FILES", 5),
		},
		Admin: AdminConfig{
			Username:     getEnv("ADMIN_USERNAME", "cblprolog"),
			Password:     getEnv("ADMIN_PASSWORD", "cblpro001"),
			PasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
			RequireToken: getEnvAsBool("ADMIN_REQUIRE_TOKEN", false),
		},
		JWT: JWTConfig{
			SigningKey:     getEnv("JWT_SIGNING_KEY", "goodstrackersecretkey"),
			ExpirationTime: getEnvAsDuration("JWT_EXPIRATION", 24*time.Hour),
		},
		DB: DBConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "postgres"),
			Name:            getEnv("DB_NAME", "goods_tracker"),
			SSLMode:         getEnv("DB_SSL_MODE", "disable"),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 2),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 10),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", 1*time.Hour),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Metrics: MetricsConfig{
			Prefix: getEnv("METRICS_PREFIX", "goods_tracker"),
		},
	}

	switch cfg.Storage.Driver {
	case "file", "memory", "postgres":
	default:
		return nil, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.Storage.Driver)
	}

	return cfg, nil
}

// LogFields returns the configuration as zap fields, secrets left out
func (c *Config) LogFields() []zap.Field {
	return []zap.Field{
		zap.String("service", c.ServiceName),
		zap.String("environment", c.Server.Env),
		zap.String("server_port", c.Server.Port),
		zap.String("storage_driver", c.Storage.Driver),
		zap.String("data_file", c.Storage.DataFile),
		zap.String("upload_dir", c.Upload.Dir),
		zap.Bool("admin_require_token", c.Admin.RequireToken),
	}
}

// Helper functions to get environment variables with defaults
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
