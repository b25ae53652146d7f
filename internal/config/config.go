package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Pipeline PipelineConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	RedisURL           string
}

type DatabaseConfig struct {
	Connection string
}

// PipelineConfig carries the processing tunables. The defaults are the
// documented heuristics; treat them as starting points, not precision
// requirements.
type PipelineConfig struct {
	BatchSize        int
	WorkerCount      int
	BatchTimeout     time.Duration
	HeartbeatTimeout time.Duration
	TitleThreshold   float64
	StatusCacheTTL   time.Duration
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Pipeline: PipelineConfig{
			BatchSize:        getEnvAsInt("PIPELINE_BATCH_SIZE", 50),
			WorkerCount:      getEnvAsInt("PIPELINE_WORKER_COUNT", 4),
			BatchTimeout:     getEnvAsDuration("PIPELINE_BATCH_TIMEOUT", 2*time.Minute),
			HeartbeatTimeout: getEnvAsDuration("PIPELINE_HEARTBEAT_TIMEOUT", 5*time.Minute),
			TitleThreshold:   getEnvAsFloat("PIPELINE_TITLE_THRESHOLD", 0.95),
			StatusCacheTTL:   getEnvAsDuration("PIPELINE_STATUS_CACHE_TTL", 2*time.Second),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}
