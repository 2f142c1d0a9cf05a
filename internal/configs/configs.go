package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
)

const (
	BackendSQLite = "sqlite"
	BackendAzure  = "azure"
	BackendRedis  = "redis"
)

type Config struct {
	AppURL                 string
	Backend                string
	SQLitePath             string
	AzureTableName         string
	AzureConnectionString  string
	AzureAccountName       string
	AzureAccountURL        string
	UseWorkloadIdentity    bool
	RedisAddr              string
	RateLimit              int
	ShutdownTimeoutSeconds int
}

func Load() Config {
	appHost := getEnv("APP_HOST", "127.0.0.1")
	appPort := getEnv("APP_PORT", "8080")
	redisHost := getEnv("REDIS_HOST", "127.0.0.1")
	redisPort := getEnv("REDIS_PORT", "6379")

	cfg := Config{
		AppURL:                 fmt.Sprintf("%s:%s", appHost, appPort),
		Backend:                getEnv("TODO_BACKEND", BackendSQLite),
		SQLitePath:             getEnv("SQLITE_DB_PATH", "todo.db"),
		AzureTableName:         getEnv("AZURE_TABLE_NAME", "todos"),
		AzureConnectionString:  getEnv("AZURE_STORAGE_CONNECTION_STRING", ""),
		AzureAccountName:       getEnv("AZURE_STORAGE_ACCOUNT_NAME", ""),
		AzureAccountURL:        getEnv("AZURE_STORAGE_ACCOUNT_URL", ""),
		UseWorkloadIdentity:    getEnvAsBool("USE_WORKLOAD_IDENTITY", false),
		RedisAddr:              fmt.Sprintf("%s:%s", redisHost, redisPort),
		RateLimit:              getEnvAsInt("RATE_LIMIT_PER_MINUTE", 60),
		ShutdownTimeoutSeconds: getEnvAsInt("SHUTDOWN_TIMEOUT_SECONDS", 20),
	}

	validate(cfg)
	return cfg
}

func validate(cfg Config) {
	if cfg.AppURL == "" {
		log.Fatal("APP_URL must not be empty (e.g. 127.0.0.1:8080)")
	}
	if cfg.Backend == BackendSQLite && cfg.SQLitePath == "" {
		log.Fatal("SQLITE_DB_PATH must not be empty")
	}
	if cfg.RateLimit <= 0 {
		log.Fatal("RATE_LIMIT_PER_MINUTE must be greater than 0")
	}
	if cfg.ShutdownTimeoutSeconds <= 0 {
		log.Fatal("SHUTDOWN_TIMEOUT_SECONDS must be greater than 0")
	}
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err != nil {
			log.Fatalf("invalid integer value for %s", key)
		}
		return i
	}
	return defaultVal
}

func getEnvAsBool(key string, defaultVal bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			log.Fatalf("invalid boolean value for %s", key)
		}
		return b
	}
	return defaultVal
}
