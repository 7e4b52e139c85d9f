package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	// Application
	Version     string
	Environment string
	MonitorID   string
	Port        int
	LogLevel    string

	// Logdy (lightweight web log viewer)
	LogdyEnabled bool
	LogdyHost    string
	LogdyPort    int

	// Reading / settings store (Postgres)
	DatabaseURL    string
	StoreTimeout   time.Duration
	StoreListLimit int // readings pulled per refresh cycle

	// Live count feed (HTTP URL or local file path)
	FeedURL     string
	FeedPath    string
	FeedTimeout time.Duration

	// Refresh pipeline
	RefreshInterval time.Duration

	// External analysis service (people counting)
	AnalysisURL     string
	AnalysisTimeout time.Duration

	// Image uploads
	UploadDir string

	// NATS (for messaging and alerts)
	// Default: nats://localhost:4222 (works with Docker Compose setup)
	// Docker: Use nats://nats:4222 if running monitor in Docker
	NatsURL            string
	NatsConnectTimeout time.Duration
	NatsReconnectWait  time.Duration
	NatsMaxReconnects  int
	NatsDrainTimeout   time.Duration // For graceful shutdown

	// Alerting via NATS
	AlertsSubject  string
	AlertsCooldown time.Duration

	// Location defaults (YAML seed for threshold settings)
	LocationsFile string

	// Swagger Configuration
	SwaggerHost string
	SwaggerPort int

	// Graceful Shutdown
	ShutdownTimeout time.Duration
}

func Load() *Config {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("No .env file found or error loading .env file, using environment variables and defaults")
	} else {
		log.Info().Msg("Loaded configuration from .env file")
	}

	return &Config{
		// Application
		Version:     getEnv("VERSION", "1.0.0"),
		Environment: getEnv("ENVIRONMENT", "development"),
		MonitorID:   getEnv("MONITOR_ID", "monitor-1"),
		Port:        getEnvInt("PORT", 8000),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		// Logdy (lightweight web log viewer)
		LogdyEnabled: getEnvBool("LOGDY_ENABLED", false),
		LogdyHost:    getEnv("LOGDY_HOST", "localhost"),
		LogdyPort:    getEnvInt("LOGDY_PORT", 8080),

		// Store
		DatabaseURL:    getEnv("DATABASE_URL", "postgres://localhost:5432/crowdwatch"),
		StoreTimeout:   getEnvDuration("STORE_TIMEOUT", 10*time.Second),
		StoreListLimit: getEnvInt("STORE_LIST_LIMIT", 100),

		// Feed (FEED_PATH wins over FEED_URL when both are set)
		FeedURL:     getEnv("FEED_URL", "http://localhost:5001/counts.csv"),
		FeedPath:    getEnv("FEED_PATH", ""),
		FeedTimeout: getEnvDuration("FEED_TIMEOUT", 5*time.Second),

		// Refresh pipeline
		RefreshInterval: getEnvDuration("REFRESH_INTERVAL", 30*time.Second),

		// Analysis service
		AnalysisURL:     getEnv("ANALYSIS_URL", "http://localhost:5002/analyze"),
		AnalysisTimeout: getEnvDuration("ANALYSIS_TIMEOUT", 30*time.Second),

		// Uploads
		UploadDir: getEnv("UPLOAD_DIR", "uploads"),

		// NATS (configured for Docker Compose setup)
		NatsURL:            getNatsURL(),
		NatsConnectTimeout: getEnvDuration("NATS_CONNECT_TIMEOUT", 10*time.Second),
		NatsReconnectWait:  getEnvDuration("NATS_RECONNECT_WAIT", 2*time.Second),
		NatsMaxReconnects:  getEnvInt("NATS_MAX_RECONNECTS", -1), // -1 = unlimited
		NatsDrainTimeout:   getEnvDuration("NATS_DRAIN_TIMEOUT", 5*time.Second),

		// Alerting via NATS
		AlertsSubject:  getEnv("ALERTS_SUBJECT", "alerts"),
		AlertsCooldown: getEnvDuration("ALERTS_COOLDOWN", 5*time.Minute),

		// Location defaults
		LocationsFile: getEnv("LOCATIONS_FILE", "locations.yaml"),

		// Swagger Configuration
		SwaggerHost: getEnv("SWAGGER_HOST", "localhost"),
		SwaggerPort: getEnvInt("SWAGGER_PORT", 8000),

		// Graceful Shutdown
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 30*time.Second),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// Helper functions for Docker environment detection
func isRunningInDocker() bool {
	// Check for Docker-specific environment indicators
	if os.Getenv("DOCKER_CONTAINER") == "true" {
		return true
	}

	// Check for .dockerenv file
	if _, err := os.Stat("/.dockerenv"); err == nil {
		return true
	}

	return false
}

// getNatsURL returns the appropriate NATS URL based on environment
func getNatsURL() string {
	if envURL := os.Getenv("NATS_URL"); envURL != "" {
		return envURL
	}

	// If running in Docker, use service name; otherwise use localhost
	if isRunningInDocker() {
		return "nats://nats:4222"
	}

	return "nats://localhost:4222"
}
