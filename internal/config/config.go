package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var DefaultEnvConfig *envConfig

const (
	DataSourceExcel    = "excel"
	DataSourcePostgres = "postgres"

	// IntervalPolicyEmpty lets an inverted range silently match nothing.
	IntervalPolicyEmpty = "empty"
	// IntervalPolicyReject answers an inverted range with a validation error.
	IntervalPolicyReject = "reject"
)

type envConfig struct {
	// server config
	APP_PORT string
	// dataset config
	DATA_SOURCE     string
	DATA_FILE_PATH  string
	INTERVAL_POLICY string
	// auth config
	DASHBOARD_PASSWORD      string
	DASHBOARD_PASSWORD_HASH string
	SESSION_TTL             time.Duration
	// cache config
	SUMMARY_CACHE_SIZE int
	// database config (DATA_SOURCE=postgres)
	DB_HOST              string
	DB_PORT              int
	DB_USER              string
	DB_PASSWORD          string
	DB_NAME              string
	DB_SSL_MODE          string
	DB_CONN_MAX_LIFETIME time.Duration
	DB_MAX_IDLE_CONNS    int
	DB_MAX_OPEN_CONNS    int
	// logger config
	LOG_FILE_PATH string
	LOG_LEVEL     string
}

// LoadEnvConfig reads .env (when present) and the process environment into DefaultEnvConfig.
func LoadEnvConfig() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}

	cfg := &envConfig{
		APP_PORT:                getEnvString("APP_PORT", "8080"),
		DATA_SOURCE:             strings.ToLower(getEnvString("DATA_SOURCE", DataSourceExcel)),
		DATA_FILE_PATH:          getEnvString("DATA_FILE_PATH", "Mock_Compensation_Data_2024_2025.xlsx"),
		INTERVAL_POLICY:         strings.ToLower(getEnvString("INTERVAL_POLICY", IntervalPolicyEmpty)),
		DASHBOARD_PASSWORD:      getEnvString("DASHBOARD_PASSWORD", ""),
		DASHBOARD_PASSWORD_HASH: getEnvString("DASHBOARD_PASSWORD_HASH", ""),
		SESSION_TTL:             getEnvDuration("SESSION_TTL", 12*time.Hour),
		SUMMARY_CACHE_SIZE:      getEnvInt("SUMMARY_CACHE_SIZE", 256),
		DB_HOST:                 getEnvString("DB_HOST", "localhost"),
		DB_PORT:                 getEnvInt("DB_PORT", 5432),
		DB_USER:                 getEnvString("DB_USER", "postgres"),
		DB_PASSWORD:             getEnvString("DB_PASSWORD", "postgres"),
		DB_NAME:                 getEnvString("DB_NAME", "postgres"),
		DB_SSL_MODE:             getEnvString("DB_SSL_MODE", "disable"),
		DB_CONN_MAX_LIFETIME:    getEnvDuration("DB_CONN_MAX_LIFETIME", 20*time.Minute),
		DB_MAX_IDLE_CONNS:       getEnvInt("DB_MAX_IDLE_CONNS", 10),
		DB_MAX_OPEN_CONNS:       getEnvInt("DB_MAX_OPEN_CONNS", 100),
		LOG_FILE_PATH:           getEnvString("LOG_FILE_PATH", ""),
		LOG_LEVEL:               getEnvString("LOG_LEVEL", "info"),
	}
	if err := cfg.validate(); err != nil {
		return err
	}

	DefaultEnvConfig = cfg
	return nil
}

func (c *envConfig) validate() error {
	switch c.DATA_SOURCE {
	case DataSourceExcel, DataSourcePostgres:
	default:
		return fmt.Errorf("unsupported DATA_SOURCE %q", c.DATA_SOURCE)
	}
	switch c.INTERVAL_POLICY {
	case IntervalPolicyEmpty, IntervalPolicyReject:
	default:
		return fmt.Errorf("unsupported INTERVAL_POLICY %q", c.INTERVAL_POLICY)
	}
	if c.SUMMARY_CACHE_SIZE < 0 {
		return fmt.Errorf("SUMMARY_CACHE_SIZE must be >= 0, got %d", c.SUMMARY_CACHE_SIZE)
	}
	return nil
}

func getEnvString(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
		if i, err := strconv.Atoi(val); err == nil {
			return time.Duration(i) * time.Second
		}
	}
	return fallback
}
