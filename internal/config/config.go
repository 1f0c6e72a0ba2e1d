package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration loaded from environment.
type Config struct {
	DB struct {
		DSN  string // Postgres DSN; takes precedence when set
		Path string // SQLite file path for single-node deployments
	}
	Kafka struct {
		Broker  string
		Topic   string
		GroupID string
	}
	Oracle struct {
		URL        string
		APIKey     string
		Model      string
		TimeoutSec int
	}
	API struct {
		Port     string
		BasePath string
	}
	Logging struct {
		Dir   string
		Level string
	}
	Monitor struct {
		SitesFile    string
		HorizonHours int
	}
}

// Load reads environment variables, applies defaults, and returns a Config.
func Load() (Config, error) {
	// Load .env if present
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("failed to load .env file: %w", err)
	}

	var cfg Config

	// Store settings: Postgres when DB_DSN is set, SQLite when DB_PATH is
	// set, in-memory otherwise.
	cfg.DB.DSN = os.Getenv("DB_DSN")
	cfg.DB.Path = os.Getenv("DB_PATH")

	// Kafka sensor ingestion (optional; consumer is disabled when unset)
	cfg.Kafka.Broker = os.Getenv("KAFKA_BROKER")
	cfg.Kafka.Topic = os.Getenv("KAFKA_TOPIC")
	cfg.Kafka.GroupID = os.Getenv("KAFKA_GROUP_ID")

	// Reasoning oracle (optional; decisions degrade to defaults when unset)
	cfg.Oracle.URL = os.Getenv("ORACLE_URL")
	cfg.Oracle.APIKey = os.Getenv("ORACLE_API_KEY")
	cfg.Oracle.Model = os.Getenv("ORACLE_MODEL")
	if t, err := strconv.Atoi(os.Getenv("ORACLE_TIMEOUT_SEC")); err == nil {
		cfg.Oracle.TimeoutSec = t
	}

	// API settings
	cfg.API.Port = os.Getenv("API_PORT")
	cfg.API.BasePath = os.Getenv("API_BASE_PATH")

	// Logging
	cfg.Logging.Dir = os.Getenv("LOG_DIR")
	cfg.Logging.Level = os.Getenv("LOG_LEVEL")

	// Monitoring
	cfg.Monitor.SitesFile = os.Getenv("SITES_FILE")
	if h, err := strconv.Atoi(os.Getenv("MONITOR_HORIZON_HOURS")); err == nil {
		cfg.Monitor.HorizonHours = h
	}

	// Apply defaults
	if cfg.API.Port == "" {
		cfg.API.Port = ":8080"
	}
	if cfg.API.BasePath == "" {
		cfg.API.BasePath = "/api/v0"
	}
	if cfg.Oracle.TimeoutSec == 0 {
		cfg.Oracle.TimeoutSec = 20
	}
	if cfg.Monitor.HorizonHours == 0 {
		cfg.Monitor.HorizonHours = 48
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}

	return cfg, nil
}
